package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test; t.Chdir needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	chdir(t, t.TempDir())

	loaded, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Defaults(), loaded)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routeledger.yaml")
	contents := `
raw_folder: /srv/feeds/raw
source:
  identifier: hu-bkk-gtfs-schedule
  provider:
    name: BKK
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/feeds/raw", loaded.RawFolder)
	assert.Equal(t, Defaults().ProcessedFolder, loaded.ProcessedFolder)
	assert.Equal(t, "hu-bkk-gtfs-schedule", loaded.Source.Identifier)
	assert.Equal(t, "BKK", loaded.Source.Provider.Name)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ROUTELEDGER_RAW_FOLDER", "/mnt/raw")
	t.Setenv("ROUTELEDGER_PROCESSED_FOLDER", "/mnt/processed")

	loaded, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/mnt/raw", loaded.RawFolder)
	assert.Equal(t, "/mnt/processed", loaded.ProcessedFolder)
}

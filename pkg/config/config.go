package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/routeledger/routeledger/pkg/util"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "routeledger.yaml"

type Provider struct {
	Name    string `yaml:"name"`
	Website string `yaml:"website"`
}

type Source struct {
	Identifier string   `yaml:"identifier"`
	Provider   Provider `yaml:"provider"`
}

// Config describes where feed snapshots are read from and where the
// reconciled catalogs live.
type Config struct {
	RawFolder       string `yaml:"raw_folder"`
	ProcessedFolder string `yaml:"processed_folder"`

	Source Source `yaml:"source"`
}

func Defaults() Config {
	return Config{
		RawFolder:       "data/raw",
		ProcessedFolder: "data/processed",
		Source: Source{
			Identifier: "gtfs-schedule",
		},
	}
}

// Load reads the YAML config file at path, falling back to
// ROUTELEDGER_CONFIG and then the default file name. A missing file is only
// an error when the path was given explicitly.
func Load(path string) (Config, error) {
	env := util.GetEnvironmentVariables()

	explicit := path != ""
	if path == "" {
		path = env["ROUTELEDGER_CONFIG"]
		explicit = path != ""
	}
	if path == "" {
		path = defaultConfigFile
	}

	loaded := Defaults()

	contents, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || explicit {
			return Config{}, err
		}
	} else if err := yaml.Unmarshal(contents, &loaded); err != nil {
		return Config{}, err
	}

	if env["ROUTELEDGER_RAW_FOLDER"] != "" {
		loaded.RawFolder = env["ROUTELEDGER_RAW_FOLDER"]
	}
	if env["ROUTELEDGER_PROCESSED_FOLDER"] != "" {
		loaded.ProcessedFolder = env["ROUTELEDGER_PROCESSED_FOLDER"]
	}

	return loaded, nil
}

package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/routeledger/routeledger/pkg/gtfs"
	"golang.org/x/exp/slices"
)

// ErrSnapshotMissing marks a requested snapshot date with no source files.
// The batch driver reports it per date and carries on.
var ErrSnapshotMissing = errors.New("no snapshot found for date")

// Finder locates dated feed snapshots under the raw data folder. A snapshot
// for date D is either an exploded directory <raw>/D/ or an archive
// <raw>/D.zip.
type Finder struct {
	RawFolder string
}

func NewFinder(rawFolder string) *Finder {
	return &Finder{RawFolder: rawFolder}
}

func (f *Finder) Locate(date string) (string, error) {
	directory := filepath.Join(f.RawFolder, date)
	if info, err := os.Stat(directory); err == nil && info.IsDir() {
		return directory, nil
	}

	archive := directory + ".zip"
	if info, err := os.Stat(archive); err == nil && !info.IsDir() {
		return archive, nil
	}

	return "", fmt.Errorf("%w: %s", ErrSnapshotMissing, date)
}

// Load parses the snapshot for the given date.
func (f *Finder) Load(date string) (*gtfs.Snapshot, error) {
	source, err := f.Locate(date)
	if err != nil {
		return nil, err
	}

	snapshot := &gtfs.Snapshot{}

	if strings.HasSuffix(source, ".zip") {
		file, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		if err := snapshot.ParseZip(file); err != nil {
			return nil, err
		}
		return snapshot, nil
	}

	if err := snapshot.ParseDirectory(source); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// AvailableDates lists every snapshot date present in the raw folder, in
// ascending order.
func (f *Finder) AvailableDates() ([]string, error) {
	entries, err := os.ReadDir(f.RawFolder)
	if err != nil {
		return nil, err
	}

	var dates []string
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".zip")
		if _, err := time.Parse("20060102", name); err != nil {
			continue
		}
		if !slices.Contains(dates, name) {
			dates = append(dates, name)
		}
	}

	slices.Sort(dates)

	return dates, nil
}

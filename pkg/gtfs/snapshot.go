package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// Snapshot holds one dated extract of the schedule feed.
type Snapshot struct {
	Routes        []Route
	Trips         []Trip
	Shapes        []Shape
	Calendars     []Calendar
	CalendarDates []CalendarDate
}

type snapshotFile struct {
	name        string
	destination interface{}
	optional    bool
}

func (snapshot *Snapshot) files() []snapshotFile {
	return []snapshotFile{
		{"routes.txt", &snapshot.Routes, false},
		{"trips.txt", &snapshot.Trips, false},
		{"shapes.txt", &snapshot.Shapes, false},
		{"calendar.txt", &snapshot.Calendars, true},
		{"calendar_dates.txt", &snapshot.CalendarDates, false},
	}
}

func setupCSVReader() {
	// Allow us to ignore those naughty records that have missing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})
}

// ParseDirectory loads an exploded snapshot folder containing the individual
// feed files. A missing calendar.txt is tolerated and leaves the weekly
// patterns empty; any other missing file fails the parse.
func (snapshot *Snapshot) ParseDirectory(directory string) error {
	setupCSVReader()

	for _, file := range snapshot.files() {
		path := filepath.Join(directory, file.name)

		reader, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && file.optional {
				log.Warn().Str("file", file.name).Msg("Optional feed file not found, treating as empty")
				continue
			}
			return fmt.Errorf("failed to open feed file %s: %w", file.name, err)
		}

		log.Debug().Str("file", file.name).Msg("Loading file")

		err = gocsv.Unmarshal(reader, file.destination)
		reader.Close()
		if err != nil {
			return fmt.Errorf("failed to parse feed file %s: %w", file.name, err)
		}
	}

	return nil
}

// ParseZip loads a zipped snapshot archive.
func (snapshot *Snapshot) ParseZip(reader io.Reader) error {
	setupCSVReader()

	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return err
	}

	parsed := map[string]bool{}
	for _, zipFile := range archive.File {
		var destination interface{}
		for _, file := range snapshot.files() {
			if file.name == zipFile.Name {
				destination = file.destination
			}
		}
		if destination == nil {
			log.Debug().Str("file", zipFile.Name).Msg("Ignoring feed file")
			continue
		}

		log.Debug().Str("file", zipFile.Name).Msg("Loading file")

		fileReader, err := zipFile.Open()
		if err != nil {
			return fmt.Errorf("failed to open feed file %s: %w", zipFile.Name, err)
		}

		err = gocsv.Unmarshal(fileReader, destination)
		fileReader.Close()
		if err != nil {
			return fmt.Errorf("failed to parse feed file %s: %w", zipFile.Name, err)
		}

		parsed[zipFile.Name] = true
	}

	for _, file := range snapshot.files() {
		if parsed[file.name] {
			continue
		}
		if file.optional {
			log.Warn().Str("file", file.name).Msg("Optional feed file not found, treating as empty")
			continue
		}
		return fmt.Errorf("snapshot archive is missing %s", file.name)
	}

	return nil
}

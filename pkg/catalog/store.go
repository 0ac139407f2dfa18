package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

const (
	RoutesFile        = "routes.csv"
	RouteVersionsFile = "route_versions.csv"
	ShapeVariantsFile = "shape_variants.csv"
	ActivationsFile   = "shape_variant_activations.csv"
	ShapesFile        = "shapes.csv"
)

// Store reads and writes the persisted catalogs as CSV tables in a single
// directory. Every persist rewrites each table in full through a temp file
// and rename, so a crashed run can never leave a half-written table behind.
type Store struct {
	Directory string
}

func NewStore(directory string) *Store {
	return &Store{Directory: directory}
}

func (s *Store) tables(c *Catalogs) []struct {
	file string
	rows interface{}
} {
	return []struct {
		file string
		rows interface{}
	}{
		{RoutesFile, &c.Routes},
		{RouteVersionsFile, &c.RouteVersions},
		{ShapeVariantsFile, &c.ShapeVariants},
		{ActivationsFile, &c.Activations},
		{ShapesFile, &c.ShapePoints},
	}
}

// Load reads every catalog table. Missing files are not an error on a first
// run: each absent table starts empty and the empty schema is persisted
// immediately so later tooling always finds the files in place.
func (s *Store) Load() (*Catalogs, error) {
	catalogs := &Catalogs{}

	anyMissing := false
	for _, table := range s.tables(catalogs) {
		path := filepath.Join(s.Directory, table.file)

		reader, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Info().Str("file", table.file).Msg("Catalog file not found, starting empty")
				anyMissing = true
				continue
			}
			return nil, fmt.Errorf("failed to open catalog %s: %w", table.file, err)
		}

		err = gocsv.Unmarshal(reader, table.rows)
		reader.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", table.file, err)
		}
	}

	if anyMissing {
		if err := s.Persist(catalogs); err != nil {
			return nil, err
		}
	}

	return catalogs, nil
}

// Persist rewrites all catalog tables atomically (per table).
func (s *Store) Persist(c *Catalogs) error {
	if err := os.MkdirAll(s.Directory, 0755); err != nil {
		return err
	}

	for _, table := range s.tables(c) {
		if err := s.writeTable(table.file, table.rows); err != nil {
			return fmt.Errorf("failed to persist catalog %s: %w", table.file, err)
		}
	}

	return nil
}

func (s *Store) writeTable(file string, rows interface{}) error {
	temp, err := os.CreateTemp(s.Directory, file+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	if err := gocsv.Marshal(rows, temp); err != nil {
		temp.Close()
		return err
	}

	if err := temp.Close(); err != nil {
		return err
	}

	return os.Rename(temp.Name(), filepath.Join(s.Directory, file))
}

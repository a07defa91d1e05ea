package boundary

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/fetcher"
)

// Source produces the raw district list a Set is built from.
type Source interface {
	Load(ctx context.Context) ([]District, error)
}

// Boundary file formats accepted by FileSource.
const (
	FormatAuto      = "auto"
	FormatGeoJSON   = "geojson"
	FormatShapefile = "shapefile"
	FormatSQLite    = "sqlite"
)

// FileSource loads districts from a local file. Format "auto" (or empty)
// picks the reader from the file extension; a .zip archive is unpacked next
// to itself and its first .shp or .geojson member is read.
type FileSource struct {
	Path         string
	Format       string
	NameProperty string
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) ([]District, error) {
	path := s.Path
	format := s.Format
	if format == "" || format == FormatAuto {
		if strings.EqualFold(filepath.Ext(path), ".zip") {
			member, err := unpackArchive(path)
			if err != nil {
				return nil, err
			}
			path = member
		}
		var err error
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}

	zap.L().Debug("boundary: loading file",
		zap.String("path", path),
		zap.String("format", format),
	)

	switch format {
	case FormatGeoJSON:
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "boundary: open geojson")
		}
		defer f.Close() //nolint:errcheck
		return ReadGeoJSON(f, s.nameOr(DefaultNameProperty))
	case FormatShapefile:
		return ReadShapefile(path, s.nameOr(DefaultNameField))
	case FormatSQLite:
		store, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		defer store.Close() //nolint:errcheck
		return store.Load(ctx)
	default:
		return nil, eris.Errorf("boundary: unknown format %q", format)
	}
}

func (s *FileSource) nameOr(def string) string {
	if s.NameProperty != "" {
		return s.NameProperty
	}
	return def
}

// DetectFormat maps a file extension to a boundary format.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return FormatGeoJSON, nil
	case ".shp":
		return FormatShapefile, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", eris.Errorf("boundary: cannot detect format of %q", path)
	}
}

func unpackArchive(zipPath string) (string, error) {
	dest := strings.TrimSuffix(zipPath, filepath.Ext(zipPath))
	files, err := fetcher.ExtractZIP(zipPath, dest)
	if err != nil {
		return "", eris.Wrap(err, "boundary: extract archive")
	}
	member, ok := fetcher.FindByExt(files, ".shp", ".geojson", ".json")
	if !ok {
		return "", eris.Errorf("boundary: no .shp or .geojson in %s", zipPath)
	}
	return member, nil
}

// Load reads districts from src and builds the canonical Set.
func Load(ctx context.Context, src Source) (*Set, error) {
	districts, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(districts) == 0 {
		return nil, eris.New("boundary: source returned no districts")
	}

	set, err := NewSet(districts)
	if err != nil {
		return nil, err
	}

	zap.L().Info("boundary: loaded district set", zap.Int("districts", set.Len()))
	return set, nil
}

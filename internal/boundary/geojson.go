package boundary

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// DefaultNameProperty is the feature property holding the district name.
const DefaultNameProperty = "district"

// ReadGeoJSON decodes a FeatureCollection into districts, taking each name
// from nameProperty. Features without a name or without polygonal geometry
// are skipped.
func ReadGeoJSON(r io.Reader, nameProperty string) ([]District, error) {
	if nameProperty == "" {
		nameProperty = DefaultNameProperty
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: read geojson")
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "boundary: decode geojson")
	}

	districts := make([]District, 0, len(fc.Features))
	var skipped int
	for i, f := range fc.Features {
		name := propertyString(f.Properties, nameProperty)
		if name == "" {
			skipped++
			zap.L().Debug("boundary: feature has no name", zap.Int("feature", i), zap.String("property", nameProperty))
			continue
		}
		mp, err := ToMultiPolygon(f.Geometry)
		if err != nil {
			skipped++
			zap.L().Debug("boundary: skipping feature", zap.String("name", name), zap.Error(err))
			continue
		}
		districts = append(districts, District{Name: name, Geometry: mp})
	}

	if skipped > 0 {
		zap.L().Warn("boundary: skipped geojson features",
			zap.Int("skipped", skipped),
			zap.Int("loaded", len(districts)),
		)
	}
	return districts, nil
}

func propertyString(props map[string]any, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

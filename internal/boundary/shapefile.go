package boundary

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// DefaultNameField is the shapefile attribute holding the district name.
const DefaultNameField = "district"

// ReadShapefile reads polygon records from an ESRI shapefile. The name is
// taken from nameField (matched case-insensitively). Records that are not
// polygons or have no name are skipped.
func ReadShapefile(shpPath, nameField string) ([]District, error) {
	if nameField == "" {
		nameField = DefaultNameField
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := -1
	for i, f := range reader.Fields() {
		field := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(field, nameField) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, eris.Errorf("boundary: shapefile %s has no %q attribute", shpPath, nameField)
	}

	var districts []District
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		if name == "" {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			skipped++
			continue
		}

		mp := shapePolygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}
		districts = append(districts, District{Name: name, Geometry: mp})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}
	return districts, nil
}

// shapePolygonToMultiPolygon converts a shapefile Polygon to a MultiPolygon.
// Shapefile outer rings run clockwise and holes counter-clockwise; each hole
// is attached to the most recent outer ring.
func shapePolygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	var polys [][][]geom.Coord
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		ring := make([]geom.Coord, 0, end-start)
		for j := start; j < end; j++ {
			ring = append(ring, geom.Coord{p.Points[j].X, p.Points[j].Y})
		}

		if signedArea(ring) <= 0 || len(polys) == 0 {
			polys = append(polys, [][]geom.Coord{ring})
			continue
		}
		last := len(polys) - 1
		polys[last] = append(polys[last], ring)
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(SRID)
	for i, rings := range polys {
		if err := pushPolygon(mp, rings); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon part", zap.Int("part", i), zap.Error(err))
		}
	}
	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// signedArea is the shoelace area of a ring: negative when clockwise.
func signedArea(ring []geom.Coord) float64 {
	var sum float64
	for i := range ring {
		j := (i + 1) % len(ring)
		sum += ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
	}
	return sum / 2
}

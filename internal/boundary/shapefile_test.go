package boundary

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// clockwise rectangle, the shapefile orientation for outer rings.
func cwRing(minX, minY, maxX, maxY float64) []shp.Point {
	return []shp.Point{
		{X: minX, Y: minY}, {X: minX, Y: maxY}, {X: maxX, Y: maxY}, {X: maxX, Y: minY}, {X: minX, Y: minY},
	}
}

// counter-clockwise rectangle, the shapefile orientation for holes.
func ccwRing(minX, minY, maxX, maxY float64) []shp.Point {
	return []shp.Point{
		{X: minX, Y: minY}, {X: maxX, Y: minY}, {X: maxX, Y: maxY}, {X: minX, Y: maxY}, {X: minX, Y: minY},
	}
}

func TestShapePolygonToMultiPolygon(t *testing.T) {
	poly := shp.NewPolygon([][]shp.Point{
		cwRing(78, 17, 79, 18),
		ccwRing(78.25, 17.25, 78.75, 17.75),
		cwRing(80, 17, 81, 18),
	})

	mp := shapePolygonToMultiPolygon(poly)
	require.NotNil(t, mp)
	require.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, 2, mp.Polygon(0).NumLinearRings(), "hole attaches to the preceding outer ring")
	assert.Equal(t, 1, mp.Polygon(1).NumLinearRings())

	s, err := NewSet([]District{{Name: "Holey", Geometry: mp}})
	require.NoError(t, err)

	_, ok := s.ContainingDistrict(17.5, 78.5)
	assert.False(t, ok, "point in hole")
	name, ok := s.ContainingDistrict(17.1, 78.1)
	require.True(t, ok)
	assert.Equal(t, "Holey", name)
	name, ok = s.ContainingDistrict(17.5, 80.5)
	require.True(t, ok)
	assert.Equal(t, "Holey", name)
}

func TestShapePolygonToMultiPolygon_Empty(t *testing.T) {
	assert.Nil(t, shapePolygonToMultiPolygon(&shp.Polygon{}))
}

func TestSignedArea(t *testing.T) {
	toCoords := func(pts []shp.Point) []geom.Coord {
		out := make([]geom.Coord, len(pts))
		for i, p := range pts {
			out[i] = geom.Coord{p.X, p.Y}
		}
		return out
	}

	assert.InDelta(t, -2.0, signedArea(toCoords(cwRing(0, 0, 2, 1))), 1e-9)
	assert.InDelta(t, 2.0, signedArea(toCoords(ccwRing(0, 0, 2, 1))), 1e-9)
}

func TestReadShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "districts.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("DISTRICT", 32)}))

	w.Write(shp.NewPolygon([][]shp.Point{cwRing(78, 17, 79, 18)}))
	require.NoError(t, w.WriteAttribute(0, 0, "Warangal"))
	w.Write(shp.NewPolygon([][]shp.Point{cwRing(79, 17, 80, 18)}))
	require.NoError(t, w.WriteAttribute(1, 0, ""))
	w.Write(shp.NewPolygon([][]shp.Point{cwRing(80, 17, 81, 18)}))
	require.NoError(t, w.WriteAttribute(2, 0, "Khammam"))
	w.Close()

	districts, err := ReadShapefile(path, "")
	require.NoError(t, err)
	require.Len(t, districts, 2)
	assert.Equal(t, "Warangal", districts[0].Name)
	assert.Equal(t, "Khammam", districts[1].Name)

	_, err = ReadShapefile(path, "name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no "name" attribute`)
}

func TestReadShapefile_Missing(t *testing.T) {
	_, err := ReadShapefile(filepath.Join(t.TempDir(), "nope.shp"), "")
	require.Error(t, err)
}

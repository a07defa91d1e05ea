package boundary

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// ring returns a closed counter-clockwise rectangle.
func ring(minLng, minLat, maxLng, maxLat float64) []geom.Coord {
	return []geom.Coord{
		{minLng, minLat}, {maxLng, minLat}, {maxLng, maxLat}, {minLng, maxLat}, {minLng, minLat},
	}
}

func multi(t *testing.T, polys ...[][]geom.Coord) *geom.MultiPolygon {
	t.Helper()
	mp, err := geom.NewMultiPolygon(geom.XY).SetCoords(polys)
	require.NoError(t, err)
	return mp.SetSRID(SRID)
}

// testDistricts is a small canonical set:
//
//	Alpha  78..79 x 17..18
//	Beta   79..80 x 17..18
//	Gamma  78..80 x 18..19 with a hole 78.5..79.5 x 18.25..18.75
//	Delta  two parts, 81..82 x 17..18 and 83..84 x 17..18
func testDistricts(t *testing.T) []District {
	t.Helper()
	return []District{
		{Name: "Alpha", Geometry: multi(t, [][]geom.Coord{ring(78, 17, 79, 18)})},
		{Name: "Beta", Geometry: multi(t, [][]geom.Coord{ring(79, 17, 80, 18)})},
		{Name: "Gamma", Geometry: multi(t, [][]geom.Coord{ring(78, 18, 80, 19), ring(78.5, 18.25, 79.5, 18.75)})},
		{Name: "Delta", Geometry: multi(t,
			[][]geom.Coord{ring(81, 17, 82, 18)},
			[][]geom.Coord{ring(83, 17, 84, 18)},
		)},
	}
}

func testSet(t *testing.T) *Set {
	t.Helper()
	s, err := NewSet(testDistricts(t))
	require.NoError(t, err)
	return s
}

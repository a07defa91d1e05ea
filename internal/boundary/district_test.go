package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestToMultiPolygon_Polygon(t *testing.T) {
	poly := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{ring(78, 17, 79, 18)[:4]})

	mp, err := ToMultiPolygon(poly)
	require.NoError(t, err)
	require.Equal(t, 1, mp.NumPolygons())
	// Ring closed on conversion.
	assert.Len(t, mp.Polygon(0).LinearRing(0).Coords(), 5)
	assert.Equal(t, SRID, mp.SRID())
}

func TestToMultiPolygon_MalformedPartWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	undo := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(undo)

	in := geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{
		{ring(78, 17, 79, 18)},
		{{{80, 17}, {81, 17}, {80, 17}}},
	})

	mp, err := ToMultiPolygon(in)
	require.NoError(t, err)
	assert.Equal(t, 1, mp.NumPolygons())

	entries := logs.FilterMessage("boundary: dropping malformed polygon part").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 1, fields["part"])
	assert.EqualValues(t, 2, fields["parts"])
}

func TestToMultiPolygon_Rejects(t *testing.T) {
	_, err := ToMultiPolygon(nil)
	assert.Error(t, err)

	_, err = ToMultiPolygon(geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{78, 17}))
	assert.Error(t, err)

	allBad := geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{
		{{{80, 17}, {81, 17}, {80, 17}}},
	})
	_, err = ToMultiPolygon(allBad)
	assert.Error(t, err)
}

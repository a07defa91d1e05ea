// Package boundary holds the canonical district boundary set and answers
// geometric queries against it: containment, bounding box, centroid, and
// centroid-to-centroid great-circle distance.
package boundary

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// SRID is the spatial reference of every loaded geometry (WGS84 lon/lat).
const SRID = 4326

// District is one canonical named region.
type District struct {
	Name     string
	Geometry *geom.MultiPolygon
}

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// BBox is an axis-aligned bounding box in degrees.
type BBox struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MinLng float64 `json:"min_lng" yaml:"min_lng"`
	MaxLng float64 `json:"max_lng" yaml:"max_lng"`
}

// Contains reports whether p lies inside or on the edge of the box.
func (b BBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Center returns the midpoint of the box.
func (b BBox) Center() Point {
	return Point{Lat: (b.MinLat + b.MaxLat) / 2, Lng: (b.MinLng + b.MaxLng) / 2}
}

// ToMultiPolygon converts a Polygon or MultiPolygon of any layout to a 2D
// MultiPolygon with every ring explicitly closed. Other geometry types are
// rejected.
func ToMultiPolygon(g geom.T) (*geom.MultiPolygon, error) {
	mp := geom.NewMultiPolygon(geom.XY).SetSRID(SRID)

	switch t := g.(type) {
	case *geom.Polygon:
		if err := pushPolygon(mp, t.Coords()); err != nil {
			return nil, err
		}
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			if err := pushPolygon(mp, t.Polygon(i).Coords()); err != nil {
				zap.L().Warn("boundary: dropping malformed polygon part",
					zap.Int("part", i),
					zap.Int("parts", t.NumPolygons()),
					zap.Error(err),
				)
			}
		}
	case nil:
		return nil, eris.New("boundary: nil geometry")
	default:
		return nil, eris.Errorf("boundary: unsupported geometry type %T", g)
	}

	if mp.NumPolygons() == 0 {
		return nil, eris.New("boundary: geometry has no polygons")
	}
	return mp, nil
}

// pushPolygon appends one polygon (exterior ring first, then holes) to mp.
func pushPolygon(mp *geom.MultiPolygon, rings [][]geom.Coord) error {
	if len(rings) == 0 {
		return eris.New("boundary: polygon has no rings")
	}

	flat := make([][]geom.Coord, 0, len(rings))
	for _, ring := range rings {
		r := closeRing(ring)
		if len(r) < 4 {
			return eris.Errorf("boundary: ring has %d points, need at least 4", len(r))
		}
		flat = append(flat, r)
	}

	poly, err := geom.NewPolygon(geom.XY).SetCoords(flat)
	if err != nil {
		return eris.Wrap(err, "boundary: build polygon")
	}
	return eris.Wrap(mp.Push(poly), "boundary: push polygon")
}

// closeRing drops any Z/M ordinates and repeats the first vertex at the end
// when the ring is only implicitly closed.
func closeRing(ring []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, 0, len(ring)+1)
	for _, c := range ring {
		if len(c) < 2 {
			continue
		}
		out = append(out, geom.Coord{c[0], c[1]})
	}
	if len(out) == 0 {
		return out
	}
	first, last := out[0], out[len(out)-1]
	if first[0] != last[0] || first[1] != last[1] {
		out = append(out, geom.Coord{first[0], first[1]})
	}
	return out
}

package boundary

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
)

// Set is the canonical boundary set. It is built once and never mutated, so
// it may be shared across goroutines without locking.
//
// Containment walks districts in load order and returns the first polygon
// that contains the point. The canonical data is expected not to overlap;
// if it does, first-match-wins masks the overlap rather than reporting it.
type Set struct {
	districts []District
	names     []string
	index     map[string]int
	bounds    []BBox
	centroids []Point
}

// NewSet validates districts and precomputes bounding boxes and centroids.
// Names are trimmed and must be non-empty and unique.
func NewSet(districts []District) (*Set, error) {
	s := &Set{
		districts: make([]District, 0, len(districts)),
		names:     make([]string, 0, len(districts)),
		index:     make(map[string]int, len(districts)),
		bounds:    make([]BBox, 0, len(districts)),
		centroids: make([]Point, 0, len(districts)),
	}

	for i, d := range districts {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, eris.Errorf("boundary: district %d has an empty name", i)
		}
		if _, dup := s.index[name]; dup {
			return nil, eris.Errorf("boundary: duplicate district name %q", name)
		}
		if d.Geometry == nil || d.Geometry.NumPolygons() == 0 {
			return nil, eris.Errorf("boundary: district %q has no geometry", name)
		}

		c, err := xy.Centroid(d.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: centroid of %q", name)
		}

		s.index[name] = len(s.districts)
		s.districts = append(s.districts, District{Name: name, Geometry: d.Geometry})
		s.names = append(s.names, name)
		s.bounds = append(s.bounds, bboxOf(d.Geometry.Bounds()))
		s.centroids = append(s.centroids, Point{Lat: c.Y(), Lng: c.X()})
	}

	zap.L().Debug("boundary: set built", zap.Int("districts", len(s.districts)))
	return s, nil
}

// Len returns the number of districts.
func (s *Set) Len() int { return len(s.districts) }

// AllDistrictNames returns every canonical name in load order.
func (s *Set) AllDistrictNames() []string {
	return append([]string(nil), s.names...)
}

// District returns the district with the given canonical name.
func (s *Set) District(name string) (District, bool) {
	i, ok := s.lookup(name)
	if !ok {
		return District{}, false
	}
	return s.districts[i], true
}

// ContainingDistrict returns the first district, in load order, whose
// geometry contains the point. A point in no district is not an error.
func (s *Set) ContainingDistrict(lat, lng float64) (string, bool) {
	p := Point{Lat: lat, Lng: lng}
	for i, d := range s.districts {
		if !s.bounds[i].Contains(p) {
			continue
		}
		if multiPolygonContains(d.Geometry, p) {
			return d.Name, true
		}
	}
	return "", false
}

// BoundingBox returns the box spanning every part of the named district.
func (s *Set) BoundingBox(name string) (BBox, bool) {
	i, ok := s.lookup(name)
	if !ok {
		return BBox{}, false
	}
	return s.bounds[i], true
}

// Centroid returns the area-weighted planar centroid of the named district,
// treating longitude/latitude as planar coordinates.
func (s *Set) Centroid(name string) (Point, bool) {
	i, ok := s.lookup(name)
	if !ok {
		return Point{}, false
	}
	return s.centroids[i], true
}

// DistanceKm returns the haversine distance between the centroids of two
// districts. This is centroid-to-centroid, not nearest-boundary or road
// distance.
func (s *Set) DistanceKm(a, b string) (float64, bool) {
	ca, ok := s.Centroid(a)
	if !ok {
		return 0, false
	}
	cb, ok := s.Centroid(b)
	if !ok {
		return 0, false
	}
	return HaversineKm(ca, cb), true
}

func (s *Set) lookup(name string) (int, bool) {
	i, ok := s.index[strings.TrimSpace(name)]
	return i, ok
}

// multiPolygonContains reports whether any part of mp contains p: inside the
// exterior ring and outside every hole.
func multiPolygonContains(mp *geom.MultiPolygon, p Point) bool {
	pt := geom.Coord{p.Lng, p.Lat}
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		if poly.NumLinearRings() == 0 {
			continue
		}
		if !xy.IsPointInRing(geom.XY, pt, poly.LinearRing(0).FlatCoords()) {
			continue
		}
		inHole := false
		for r := 1; r < poly.NumLinearRings(); r++ {
			if xy.IsPointInRing(geom.XY, pt, poly.LinearRing(r).FlatCoords()) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

func bboxOf(b *geom.Bounds) BBox {
	return BBox{
		MinLng: b.Min(0),
		MinLat: b.Min(1),
		MaxLng: b.Max(0),
		MaxLat: b.Max(1),
	}
}

// Package selection answers the two questions a map view asks: which
// district is under a clicked point, and how far apart two districts are.
package selection

import "go.uber.org/zap"

// Geometry is the subset of boundary.Set the service needs.
type Geometry interface {
	ContainingDistrict(lat, lng float64) (string, bool)
	DistanceKm(a, b string) (float64, bool)
}

// Service is stateless; every call carries its own selection.
type Service struct {
	geo Geometry
}

// New returns a Service backed by geo.
func New(geo Geometry) *Service {
	return &Service{geo: geo}
}

// SelectFromPoint returns the district containing the point, if any.
func (s *Service) SelectFromPoint(lat, lng float64) (string, bool) {
	name, ok := s.geo.ContainingDistrict(lat, lng)
	if !ok {
		zap.L().Debug("selection: point outside every district",
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
		)
	}
	return name, ok
}

// DistanceBetween returns the centroid-to-centroid distance in km. ok is
// false when either name is not canonical.
func (s *Service) DistanceBetween(a, b string) (float64, bool) {
	return s.geo.DistanceKm(a, b)
}

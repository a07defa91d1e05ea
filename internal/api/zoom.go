package api

// Map zoom levels used to frame two districts.
const (
	ZoomNear     = 9
	ZoomRegional = 8
	ZoomWide     = 7
	ZoomState    = 6
)

// Distance thresholds for zoom selection (kilometers).
const (
	nearThresholdKm     = 50.0
	regionalThresholdKm = 100.0
	wideThresholdKm     = 200.0
)

// ZoomForDistance picks a map zoom that keeps two districts km apart in view:
//   - < 50 km: 9
//   - < 100 km: 8
//   - < 200 km: 7
//   - otherwise: 6
func ZoomForDistance(km float64) int {
	switch {
	case km < nearThresholdKm:
		return ZoomNear
	case km < regionalThresholdKm:
		return ZoomRegional
	case km < wideThresholdKm:
		return ZoomWide
	default:
		return ZoomState
	}
}

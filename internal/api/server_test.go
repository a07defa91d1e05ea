package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/boundary"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/metrics"
)

func square(t *testing.T, minLng, minLat, maxLng, maxLat float64) *geom.MultiPolygon {
	t.Helper()
	mp, err := geom.NewMultiPolygon(geom.XY).SetCoords([][][]geom.Coord{{{
		{minLng, minLat}, {maxLng, minLat}, {maxLng, maxLat}, {minLng, maxLat}, {minLng, minLat},
	}}})
	require.NoError(t, err)
	return mp
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	set, err := boundary.NewSet([]boundary.District{
		{Name: "Adilabad", Geometry: square(t, 78.0, 19.0, 79.0, 20.0)},
		{Name: "Hyderabad", Geometry: square(t, 78.287, 17.185, 78.687, 17.585)},
		{Name: "Nalgonda", Geometry: square(t, 78.8, 16.8, 79.2, 17.2)},
		{Name: "Ranga Reddy", Geometry: square(t, 77.5, 16.8, 78.2, 17.6)},
	})
	require.NoError(t, err)
	return New(set, metrics.New(), opts)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "text/csv")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, 4.0, body["districts"])
}

func TestDistricts(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/districts", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[districtsResponse](t, rec)
	assert.Equal(t, []string{"Adilabad", "Hyderabad", "Nalgonda", "Ranga Reddy"}, body.Districts)
	assert.Equal(t, 4, body.Count)
}

func TestDistrict(t *testing.T) {
	s := newTestServer(t, Options{})
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/districts/Ranga%20Reddy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[districtResponse](t, rec)
	assert.Equal(t, "Ranga Reddy", body.Name)
	assert.Equal(t, boundary.BBox{MinLat: 16.8, MaxLat: 17.6, MinLng: 77.5, MaxLng: 78.2}, body.BBox)
	assert.InDelta(t, 17.2, body.Centroid.Lat, 1e-9)
	assert.InDelta(t, 77.85, body.Centroid.Lng, 1e-9)

	rec = do(t, h, http.MethodGet, "/districts/Atlantis", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLocate(t *testing.T) {
	s := newTestServer(t, Options{})
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/locate?lat=17.385&lng=78.487", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[locateResponse](t, rec)
	assert.True(t, body.Found)
	assert.Equal(t, "Hyderabad", body.District)

	rec = do(t, h, http.MethodGet, "/locate?lat=10&lng=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[locateResponse](t, rec)
	assert.False(t, body.Found)
	assert.Empty(t, body.District)

	for _, q := range []string{"", "?lat=abc&lng=1", "?lat=91&lng=1", "?lat=1&lng=-181"} {
		rec = do(t, h, http.MethodGet, "/locate"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}

	rec = do(t, h, http.MethodGet, "/metrics", "")
	assert.Contains(t, rec.Body.String(), `districtviz_lookups_total{found="false",op="locate"} 1`)
	assert.Contains(t, rec.Body.String(), `districtviz_lookups_total{found="true",op="locate"} 1`)
}

func TestDistance(t *testing.T) {
	s := newTestServer(t, Options{})
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/distance?from=Hyderabad&to=Nalgonda", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[distanceResponse](t, rec)
	assert.InDelta(t, 69.30, body.DistanceKm, 0.01)
	assert.Equal(t, ZoomRegional, body.Zoom)

	rec = do(t, h, http.MethodGet, "/distance?from=Hyderabad&to=Hyderabad", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[distanceResponse](t, rec)
	assert.Zero(t, body.DistanceKm)
	assert.Equal(t, ZoomNear, body.Zoom)

	rec = do(t, h, http.MethodGet, "/distance?from=Hyderabad&to=Atlantis", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/distance?from=Hyderabad", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReconcile(t *testing.T) {
	s := newTestServer(t, Options{})
	csv := "id,District Name,Literacy\n1, Hyderabad District ,83.25\n2,Nalgoda,64\n3,Atlantis,50\n4,hyderabad,80\n"

	rec := do(t, s.Handler(), http.MethodPost, "/reconcile?metric=Literacy", csv)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[reconcileResponse](t, rec)
	assert.NotEmpty(t, body.RunID)
	assert.Equal(t, "District Name", body.Column)
	assert.Equal(t, []string{"id", "District Name", "Literacy"}, body.Columns)
	require.Len(t, body.Rows, 3)
	assert.Equal(t, "Hyderabad", body.Rows[0][1])
	assert.Equal(t, "Nalgonda", body.Rows[1][1])
	assert.Equal(t, "Hyderabad", body.Rows[2][1])
	assert.Equal(t, []string{"Atlantis"}, body.Unmatched)
	require.Len(t, body.Report, 3)
	assert.Equal(t, 3, body.Summary.TotalRows)

	require.NotNil(t, body.Values)
	assert.Equal(t, map[string]float64{"Hyderabad": 80, "Nalgonda": 64}, body.Values.ByName)
	require.Len(t, body.Ranking, 2)
	assert.Equal(t, "Hyderabad", body.Ranking[0].District)
}

func TestReconcile_Errors(t *testing.T) {
	s := newTestServer(t, Options{})
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/reconcile?column=Region", "District\nHyderabad\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")

	rec = do(t, h, http.MethodPost, "/reconcile", "District\nAtlantis\nLemuria\n")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[reconcileResponse](t, rec)
	assert.Equal(t, []string{"Atlantis", "Lemuria"}, body.Unmatched)
	assert.Empty(t, body.Rows)
	assert.NotEmpty(t, body.Error)

	rec = do(t, h, http.MethodPost, "/reconcile", "District\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty")

	rec = do(t, h, http.MethodPost, "/reconcile?metric=District", "District\nHyderabad\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReconcile_UploadLimit(t *testing.T) {
	s := newTestServer(t, Options{MaxUploadBytes: 16})
	rec := do(t, s.Handler(), http.MethodPost, "/reconcile", "District\n"+strings.Repeat("Hyderabad\n", 20))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Options{RateLimit: 1, RateBurst: 2})
	h := s.Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/districts", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/districts", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/districts", "").Code)

	// health is not limited
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, Options{CORSOrigins: []string{"https://maps.example.org"}})

	req := httptest.NewRequest(http.MethodGet, "/districts", nil)
	req.Header.Set("Origin", "https://maps.example.org")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://maps.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsRoutePattern(t *testing.T) {
	s := newTestServer(t, Options{})
	h := s.Handler()

	do(t, h, http.MethodGet, "/districts/Hyderabad", "")
	rec := do(t, h, http.MethodGet, "/metrics", "")
	assert.Contains(t, rec.Body.String(), `districtviz_http_requests_total{route="/districts/{name}",status="200"} 1`)
}

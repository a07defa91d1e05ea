package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/boundary"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/dataset"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/match"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/metrics"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/reconcile"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "districts": s.set.Len()})
}

type districtsResponse struct {
	Districts []string `json:"districts"`
	Count     int      `json:"count"`
}

func (s *Server) handleDistricts(w http.ResponseWriter, _ *http.Request) {
	names := s.set.AllDistrictNames()
	writeJSON(w, http.StatusOK, districtsResponse{Districts: names, Count: len(names)})
}

type districtResponse struct {
	Name     string         `json:"name"`
	BBox     boundary.BBox  `json:"bbox"`
	Centroid boundary.Point `json:"centroid"`
}

func (s *Server) handleDistrict(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid district name")
		return
	}

	bbox, ok := s.set.BoundingBox(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown district")
		return
	}
	centroid, _ := s.set.Centroid(name)
	d, _ := s.set.District(name)

	writeJSON(w, http.StatusOK, districtResponse{Name: d.Name, BBox: bbox, Centroid: centroid})
}

type locateResponse struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	District string  `json:"district,omitempty"`
	Found    bool    `json:"found"`
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	lat, errLat := parseCoord(r.URL.Query().Get("lat"), 90)
	lng, errLng := parseCoord(r.URL.Query().Get("lng"), 180)
	if errLat != nil || errLng != nil {
		writeError(w, http.StatusBadRequest, "lat and lng must be valid decimal degrees")
		return
	}

	name, ok := s.selection.SelectFromPoint(lat, lng)
	s.metrics.ObserveLookup("locate", ok)
	writeJSON(w, http.StatusOK, locateResponse{Lat: lat, Lng: lng, District: name, Found: ok})
}

func parseCoord(raw string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if v < -limit || v > limit {
		return 0, strconv.ErrRange
	}
	return v, nil
}

type distanceResponse struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceKm float64 `json:"distance_km"`
	Zoom       int     `json:"zoom"`
}

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	km, ok := s.selection.DistanceBetween(from, to)
	s.metrics.ObserveLookup("distance", ok)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown district")
		return
	}
	writeJSON(w, http.StatusOK, distanceResponse{From: from, To: to, DistanceKm: km, Zoom: ZoomForDistance(km)})
}

type reconcileResponse struct {
	RunID     string             `json:"run_id"`
	Column    string             `json:"column"`
	Columns   []string           `json:"columns"`
	Rows      []dataset.Row      `json:"rows"`
	Unmatched []string           `json:"unmatched"`
	Report    []match.Result     `json:"report"`
	Warnings  []string           `json:"warnings,omitempty"`
	Summary   dataset.Summary    `json:"summary"`
	Values    *reconcile.Values  `json:"values,omitempty"`
	Ranking   []reconcile.Ranked `json:"ranking,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// handleReconcile accepts a CSV body. Query parameters: column (defaults to
// the first suggested district column), metric (optional, adds choropleth
// values and a top-10 ranking).
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	t, err := dataset.ReadCSV(r.Context(), body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not parse CSV body")
		return
	}

	errs, warnings := dataset.Validate(t)
	if len(errs) > 0 {
		writeError(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}
	t = dataset.Clean(t)
	if len(t.Columns) == 0 {
		writeError(w, http.StatusBadRequest, "the uploaded file is empty")
		return
	}

	column := r.URL.Query().Get("column")
	if column == "" {
		column = dataset.SuggestDistrictColumns(t)[0]
	}

	res, err := s.reconciler.Reconcile(t, column)
	switch {
	case errors.Is(err, reconcile.ErrColumnNotFound):
		s.metrics.ObserveReconcile(metrics.OutcomeColumnNotFound, nil, time.Since(start))
		writeError(w, http.StatusBadRequest, "column "+strconv.Quote(column)+" not found")
		return
	case errors.Is(err, reconcile.ErrNoMatches):
		s.metrics.ObserveReconcile(metrics.OutcomeNoMatches, res.Report, time.Since(start))
		resp := s.reconcileBody(res, warnings)
		resp.Error = "no districts could be matched"
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	case err != nil:
		s.metrics.ObserveReconcile(metrics.OutcomeError, nil, time.Since(start))
		zap.L().Error("api: reconcile failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "reconciliation failed")
		return
	}
	s.metrics.ObserveReconcile(metrics.OutcomeOK, res.Report, time.Since(start))

	resp := s.reconcileBody(res, warnings)
	if metric := r.URL.Query().Get("metric"); metric != "" {
		values, err := reconcile.MetricValues(res, metric)
		if err != nil {
			writeError(w, http.StatusBadRequest, "metric "+strconv.Quote(metric)+" has no numeric values")
			return
		}
		resp.Values = values
		resp.Ranking = values.Rank(10, false)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) reconcileBody(res *reconcile.Result, warnings []string) reconcileResponse {
	rows := res.Table.Rows
	if rows == nil {
		rows = []dataset.Row{}
	}
	return reconcileResponse{
		RunID:     res.RunID,
		Column:    res.Column,
		Columns:   res.Table.Columns,
		Rows:      rows,
		Unmatched: res.Unmatched,
		Report:    res.Report,
		Warnings:  warnings,
		Summary:   dataset.Summarize(res.Table),
	}
}

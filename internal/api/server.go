// Package api is the HTTP facade over the boundary set, the selection
// service and the reconciliation pipeline.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/boundary"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/metrics"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/reconcile"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/selection"
)

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins []string
	// RateLimit is requests per second across all clients; 0 disables limiting.
	RateLimit      float64
	RateBurst      int
	MaxUploadBytes int64
}

// Server holds the immutable state shared by every request.
type Server struct {
	set        *boundary.Set
	selection  *selection.Service
	reconciler *reconcile.Reconciler
	metrics    *metrics.Metrics
	limiter    *rate.Limiter
	opts       Options
}

// New builds a Server over a loaded boundary set. m may be nil.
func New(set *boundary.Set, m *metrics.Metrics, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{
		set:        set,
		selection:  selection.New(set),
		reconciler: reconcile.NewReconciler(set),
		metrics:    m,
		opts:       opts,
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = int(opts.RateLimit)
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(s.observe)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/districts", s.handleDistricts)
		r.Get("/districts/{name}", s.handleDistrict)
		r.Get("/locate", s.handleLocate)
		r.Get("/distance", s.handleDistance)
		r.Post("/reconcile", s.handleReconcile)
	})
	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveHTTP(route, strconv.Itoa(status), time.Since(start))

		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Package http wires the ProtoScribe REST API: route tree, middleware
// chain, and server lifecycle.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/protoscribe/internal/interfaces/http/handlers"
)

// RouterConfig aggregates the handlers and middleware that make up the
// route tree. Nil handlers leave their routes unregistered; nil middleware
// entries are skipped.
type RouterConfig struct {
	Protocols  *handlers.ProtocolHandler
	Analysis   *handlers.AnalysisHandler
	Guidelines *handlers.GuidelineHandler
	Health     *handlers.HealthHandler

	CORS      func(http.Handler) http.Handler
	Logging   func(http.Handler) http.Handler
	RateLimit func(http.Handler) http.Handler

	Metrics        *prometheus.AppMetrics
	MetricsHandler http.Handler

	Version string
}

// NewRouter builds the complete route tree as a single http.Handler.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.Logging != nil {
		r.Use(cfg.Logging)
	}
	if cfg.RateLimit != nil {
		r.Use(cfg.RateLimit)
	}
	if cfg.Metrics != nil {
		r.Use(requestMetrics(cfg.Metrics))
	}

	r.Get("/", serviceInfo(cfg.Version))

	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Liveness)
		r.Get("/readyz", cfg.Health.Readiness)
		r.Get("/healthz/detail", cfg.Health.Detailed)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerProtocolRoutes(api, cfg.Protocols)
		registerAnalysisRoutes(api, cfg.Analysis)
		registerGuidelineRoutes(api, cfg.Guidelines)
	})

	return r
}

// registerProtocolRoutes mounts protocol endpoints under /protocols.
func registerProtocolRoutes(r chi.Router, h *handlers.ProtocolHandler) {
	if h == nil {
		return
	}
	r.Route("/protocols", func(pr chi.Router) {
		pr.Get("/", h.List)
		pr.Post("/upload", h.Upload)
		pr.Post("/create-sample", h.CreateSample)

		pr.Route("/{protocolID}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Delete("/", h.Delete)
		})
	})
}

// registerAnalysisRoutes mounts analysis endpoints under /analysis.
func registerAnalysisRoutes(r chi.Router, h *handlers.AnalysisHandler) {
	if h == nil {
		return
	}
	r.Route("/analysis/{protocolID}", func(ar chi.Router) {
		ar.Post("/compliance", h.Compliance)
		ar.Post("/comprehensive", h.Comprehensive)
		ar.Post("/suggestions", h.Suggestions)
		ar.Post("/clarity-check", h.Clarity)
		ar.Post("/consistency-check", h.Consistency)

		ar.Get("/executive-summary", h.ExecutiveSummary)
		ar.Get("/analysis-history", h.History)
		ar.Get("/score", h.Score)
	})
}

// registerGuidelineRoutes mounts guideline endpoints under /guidelines.
func registerGuidelineRoutes(r chi.Router, h *handlers.GuidelineHandler) {
	if h == nil {
		return
	}
	r.Route("/guidelines", func(gr chi.Router) {
		gr.Get("/", h.List)
		gr.Get("/consort", h.Consort)
		gr.Get("/spirit", h.Spirit)
	})
}

// serviceInfo serves the root endpoint with basic service metadata.
func serviceInfo(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"service":"protoscribe","version":"` + version + `","api":"/api/v1"}` + "\n"))
	}
}

// requestMetrics records one observation per completed request, labeled
// with the chi route pattern rather than the raw URL.
func requestMetrics(m *prometheus.AppMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			m.RecordHTTPRequest(r.Method, pattern, ww.Status(), time.Since(start))
		})
	}
}

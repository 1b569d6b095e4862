package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"skipper-service/analysis"
	"skipper-service/metrics"
	"skipper-service/models"
)

const maxBodyBytes = 1 << 16

// RouteLister lists the catalog for pickers
type RouteLister interface {
	ListRoutes(ctx context.Context) ([]models.Route, error)
}

// RouteSummary is the public view of a route in listings
type RouteSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Server represents the API server
type Server struct {
	analyzer analysis.Analyzer
	routes   RouteLister
	server   *http.Server
	router   *mux.Router
	logger   *zap.SugaredLogger
	metrics  *metrics.Metrics
	limiter  *rate.Limiter
}

// Option configures a Server
type Option func(*Server)

// WithRateLimit limits inbound analysis requests to rps with the given burst
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics instruments handlers and exposes /metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a new API server
func NewServer(analyzer analysis.Analyzer, routes RouteLister, port int, logger *zap.SugaredLogger, opts ...Option) *Server {
	s := &Server{
		analyzer: analyzer,
		routes:   routes,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	router := mux.NewRouter()
	router.Use(s.requestID, s.accessLog)

	analyze := http.Handler(http.HandlerFunc(s.handleAnalysis))
	if s.limiter != nil {
		analyze = s.rateLimit(analyze)
	}

	router.Handle("/api/analysis", s.metrics.WrapHandler("analysis", analyze)).Methods(http.MethodPost)
	router.Handle("/api/routes", s.metrics.WrapHandler("routes", http.HandlerFunc(s.handleListRoutes))).Methods(http.MethodGet)
	router.Handle("/api/health", s.metrics.WrapHandler("health", http.HandlerFunc(s.handleHealthCheck))).Methods(http.MethodGet)
	if s.metrics != nil {
		router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	s.router = router
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the API server and blocks until it stops.
// A graceful shutdown is not reported as an error.
func (s *Server) Start() error {
	s.logger.Infow("Starting API server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleAnalysis runs one assessment for {route_id, target_timestamp}
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be JSON with route_id and target_timestamp.")
		return
	}
	if req.TargetTimestamp <= 0 {
		writeError(w, http.StatusBadRequest, "target_timestamp must be a positive epoch time in seconds.")
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		loggerFrom(r.Context(), s.logger).Warnw("Analysis failed",
			"route_id", req.RouteID, "kind", analysis.Kind(err), "status", status, "error", err)
		writeError(w, status, analysis.UserMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleListRoutes returns the catalog for pickers
func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := s.routes.ListRoutes(r.Context())
	if err != nil {
		loggerFrom(r.Context(), s.logger).Errorw("Listing routes failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Routes are unavailable right now.")
		return
	}

	summaries := make([]RouteSummary, 0, len(routes))
	for _, route := range routes {
		summaries = append(summaries, RouteSummary{ID: route.ID, Name: route.Name})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"routes": summaries,
		"count":  len(summaries),
	})
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func statusFor(err error) int {
	switch analysis.Kind(err) {
	case analysis.KindConfigurationMissing:
		return http.StatusUnprocessableEntity
	case analysis.KindUpstreamUnavailable, analysis.KindNoData:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Message: message})
}

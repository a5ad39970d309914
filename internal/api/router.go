package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/balancedrisk/internal/api/handlers"
	"github.com/wonny/balancedrisk/pkg/logger"
	"github.com/wonny/balancedrisk/pkg/metrics"
)

// Handlers groups the endpoint handlers mounted by NewRouter
type Handlers struct {
	Health       *handlers.HealthHandler
	BalancedRisk *handlers.BalancedRiskHandler
	Metrics      *handlers.SymbolMetricsHandler
	Symbols      *handlers.TrackedSymbolsHandler
	Status       *handlers.StatusHandler
}

// NewRouter creates and configures the HTTP router.
// rec may be nil, in which case /metrics is not mounted.
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, rec *metrics.Recorder, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", h.Health.Check).Methods("GET")

	// Prometheus
	if rec != nil {
		r.Handle("/metrics", rec.Handler()).Methods("GET")
	}

	// API v1
	api := r.PathPrefix("/api/v1").Subrouter()

	// Balanced risk
	api.HandleFunc("/balancedrisk", h.BalancedRisk.GetRanking).Methods("GET")
	api.HandleFunc("/balancedrisk/{symbol}", h.BalancedRisk.GetScore).Methods("GET")
	api.HandleFunc("/bounds", h.BalancedRisk.GetBounds).Methods("GET")

	// Stored snapshots
	api.HandleFunc("/metrics", h.Metrics.ListLatest).Methods("GET")
	api.HandleFunc("/metrics/{symbol}", h.Metrics.GetLatest).Methods("GET")

	// Tracked symbols
	api.HandleFunc("/symbols", h.Symbols.List).Methods("GET")
	api.HandleFunc("/symbols", h.Symbols.Add).Methods("POST")
	api.HandleFunc("/symbols/{symbol}", h.Symbols.Remove).Methods("DELETE")
	api.HandleFunc("/refresh/{symbol}", h.Symbols.Refresh).Methods("POST")

	// Data quality
	api.HandleFunc("/status", h.Status.GetStatus).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(metricsMiddleware(rec))
	r.Use(recoveryMiddleware(log))

	return r
}

// statusRecorder captures the response status for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			// Call next handler
			next.ServeHTTP(rw, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rw.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// metricsMiddleware records request counts and latency per route template
func metricsMiddleware(rec *metrics.Recorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rw, r)

			// 경로 템플릿으로 기록 (심볼별 카디널리티 방지)
			route := "unmatched"
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			rec.RecordHTTP(route, r.Method, rw.status, time.Since(start))
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

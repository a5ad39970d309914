package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the Prometheus collectors of the service.
// A nil *Recorder is valid and records nothing.
// ⭐ SSOT: 메트릭 정의는 여기서만
type Recorder struct {
	registry *prometheus.Registry

	scoresTotal   *prometheus.CounterVec
	scoreDuration prometheus.Histogram
	lastScore     *prometheus.GaugeVec
	refreshTotal  *prometheus.CounterVec
	cacheTotal    *prometheus.CounterVec
	httpTotal     *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	universeSize  prometheus.Gauge
}

// New creates a Recorder backed by its own registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		scoresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "balancedrisk_scores_total",
				Help: "Total number of balanced-risk score computations by outcome",
			},
			[]string{"outcome"},
		),
		scoreDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "balancedrisk_score_duration_seconds",
				Help:    "Duration of a balanced-risk score computation in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		lastScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "balancedrisk_last_score",
				Help: "Last computed balanced-risk score (1-10) for a tracked symbol",
			},
			[]string{"symbol"},
		),
		refreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "balancedrisk_refresh_total",
				Help: "Total number of fundamentals refreshes by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		cacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "balancedrisk_cache_requests_total",
				Help: "Score cache lookups by result",
			},
			[]string{"result"},
		),
		httpTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		universeSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "balancedrisk_universe_size",
				Help: "Number of symbols in the scoring universe at the last computation",
			},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.scoresTotal, r.scoreDuration, r.lastScore,
		r.refreshTotal, r.cacheTotal,
		r.httpTotal, r.httpDuration, r.universeSize,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordScore records one score computation. outcome: ok, not_available, error
func (r *Recorder) RecordScore(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.scoresTotal.WithLabelValues(outcome).Inc()
	r.scoreDuration.Observe(d.Seconds())
}

// RecordLastScore stores the latest score of a symbol
func (r *Recorder) RecordLastScore(symbol string, score int) {
	if r == nil {
		return
	}
	r.lastScore.WithLabelValues(symbol).Set(float64(score))
}

// RecordUniverseSize stores the size of the scoring universe
func (r *Recorder) RecordUniverseSize(n int) {
	if r == nil {
		return
	}
	r.universeSize.Set(float64(n))
}

// RecordRefresh records a fundamentals refresh. outcome: ok, skipped, error
func (r *Recorder) RecordRefresh(source, outcome string) {
	if r == nil {
		return
	}
	r.refreshTotal.WithLabelValues(source, outcome).Inc()
}

// RecordCache records a cache lookup
func (r *Recorder) RecordCache(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheTotal.WithLabelValues(result).Inc()
}

// RecordHTTP records a served HTTP request. route should be a template, not a raw path.
func (r *Recorder) RecordHTTP(route, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// Package metrics holds the Prometheus collectors for the awards service.
// Collectors are package-level so any layer can record without plumbing;
// Register exposes them on a registry.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// VotesCast counts cast-vote attempts by outcome.
	VotesCast = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nordicos_votes_cast_total",
			Help: "Cast-vote attempts, by outcome.",
		},
		[]string{"outcome"},
	)

	// MediaReviews counts moderation decisions.
	MediaReviews = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nordicos_media_reviews_total",
			Help: "Media moderation decisions, by decision.",
		},
		[]string{"decision"},
	)

	// ResultsCache counts results cache lookups by hit or miss.
	ResultsCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nordicos_results_cache_total",
			Help: "Results cache lookups, by result.",
		},
		[]string{"result"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nordicos_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by route, method and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nordicos_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)
)

// Register adds every collector to reg. When db is non-nil, connection pool
// gauges are registered too.
func Register(reg prometheus.Registerer, db *sql.DB) error {
	collectors := []prometheus.Collector{
		VotesCast, MediaReviews, ResultsCache, RequestDuration, RequestsInFlight,
	}
	if db != nil {
		collectors = append(collectors,
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "nordicos_db_connections_in_use",
				Help: "Database connections currently in use.",
			}, func() float64 { return float64(db.Stats().InUse) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "nordicos_db_connections_idle",
				Help: "Idle database connections.",
			}, func() float64 { return float64(db.Stats().Idle) }),
		)
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// statusRecorder captures the response status for labeling.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request duration and in-flight count. Routes are
// labeled with the chi route pattern to keep cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		RequestsInFlight.Inc()
		defer RequestsInFlight.Dec()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		RequestDuration.
			WithLabelValues(routePattern(r), r.Method, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return strings.TrimSuffix(p, "/*")
		}
	}
	return "unmatched"
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notemeet",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "notemeet",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "notemeet",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Subscription lifecycle metrics
	subscriptionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notemeet",
			Subsystem: "subscription",
			Name:      "events_total",
			Help:      "Total number of subscription lifecycle events",
		},
		[]string{"action", "tier"},
	)

	subscriptionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "notemeet",
			Subsystem: "subscription",
			Name:      "expired_total",
			Help:      "Total number of subscriptions expired by the sweeper",
		},
	)

	// Meeting metrics
	meetingsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "notemeet",
			Subsystem: "meeting",
			Name:      "created_total",
			Help:      "Total number of meetings created",
		},
	)

	limitRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notemeet",
			Subsystem: "meeting",
			Name:      "limit_rejections_total",
			Help:      "Total number of requests rejected for exceeding plan limits",
		},
		[]string{"limit"},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "notemeet",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "table"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Get route pattern from chi
		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSubscriptionEvent records a subscription lifecycle event
func RecordSubscriptionEvent(action, tier string) {
	if tier == "" {
		tier = "unknown"
	}
	subscriptionEventsTotal.WithLabelValues(action, tier).Inc()
}

// RecordSubscriptionsExpired adds to the expired subscriptions counter
func RecordSubscriptionsExpired(count int64) {
	subscriptionsExpiredTotal.Add(float64(count))
}

// RecordMeetingCreated records a successful meeting creation
func RecordMeetingCreated() {
	meetingsCreatedTotal.Inc()
}

// RecordLimitRejection records a request rejected by a plan limit check
func RecordLimitRejection(limit string) {
	limitRejectionsTotal.WithLabelValues(limit).Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation, table string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

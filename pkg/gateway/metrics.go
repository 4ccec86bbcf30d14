package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelrun",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modelrun",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	unitExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelrun",
			Subsystem: "gateway",
			Name:      "unit_executions_total",
			Help:      "Unit executions by outcome",
		},
		[]string{"unit", "outcome"},
	)

	unitExecutionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modelrun",
			Subsystem: "gateway",
			Name:      "unit_execution_duration_seconds",
			Help:      "Duration of unit executions in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"unit"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, unitExecutionsTotal, unitExecutionDuration)
}

func observeUnit(name string, err error, d time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	unitExecutionsTotal.WithLabelValues(name, outcome).Inc()
	unitExecutionDuration.WithLabelValues(name).Observe(d.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware records request counts and latency per route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sr, r)

		// The pattern is only complete once routing has run.
		path := routePatternOrPath(r)
		status := strconv.Itoa(sr.status)
		httpRequestsTotal.WithLabelValues(path, r.Method, status).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method, status).Observe(time.Since(start).Seconds())
	})
}

// routePatternOrPath keeps label cardinality bounded by preferring the chi
// route pattern over the raw path.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry
	service  string

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	feedsCreatedTotal  *prometheus.CounterVec
	feedRerollsTotal   *prometheus.CounterVec
	feedDisplayed      *prometheus.HistogramVec
	feedCatalogSize    prometheus.Gauge
	feedActiveSessions prometheus.Gauge
	breakerTransitions *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portfolio",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "portfolio",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	feedsCreatedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "feed",
			Name:      "sessions_created_total",
			Help:      "Total feed sessions created.",
		},
		[]string{"service"},
	)
	feedRerollsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "feed",
			Name:      "rerolls_total",
			Help:      "Total feed rerolls.",
		},
		[]string{"service"},
	)
	feedDisplayed := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portfolio",
			Subsystem: "feed",
			Name:      "displayed_projects",
			Help:      "Distribution of displayed projects per drawn sample.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 8, 12},
		},
		[]string{"service"},
	)
	feedCatalogSize := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "portfolio",
			Subsystem: "feed",
			Name:      "catalog_projects",
			Help:      "Classified projects seen by the most recently created session.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	feedActiveSessions := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "portfolio",
			Subsystem: "feed",
			Name:      "active_sessions",
			Help:      "Number of live feed sessions.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	breakerTransitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "resilience",
			Name:      "breaker_transitions_total",
			Help:      "Circuit breaker state transitions by operation.",
		},
		[]string{"service", "operation", "to"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		feedsCreatedTotal,
		feedRerollsTotal,
		feedDisplayed,
		feedCatalogSize,
		feedActiveSessions,
		breakerTransitions,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		service:            service,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		feedsCreatedTotal:  feedsCreatedTotal,
		feedRerollsTotal:   feedRerollsTotal,
		feedDisplayed:      feedDisplayed,
		feedCatalogSize:    feedCatalogSize,
		feedActiveSessions: feedActiveSessions,
		breakerTransitions: breakerTransitions,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			m.service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(m.service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

var knownPaths = map[string]struct{}{
	"/healthz":                 {},
	"/metrics":                 {},
	"/swagger/openapi.yaml":    {},
	"/v1/feeds":                {},
	"/v1/projects":             {},
	"/v1/projects/export.xlsx": {},
	"/v1/assets":               {},
}

// normalizePath maps a request path to its route label. Anything that is not
// a known route shares the "other" label.
func normalizePath(path string) string {
	if _, ok := knownPaths[path]; ok {
		return path
	}
	if id, ok := strings.CutPrefix(path, "/v1/feeds/"); ok && id != "" {
		feedID, reroll := strings.CutSuffix(id, "/reroll")
		switch {
		case feedID == "" || strings.Contains(feedID, "/"):
			return "other"
		case reroll:
			return "/v1/feeds/{feed_id}/reroll"
		default:
			return "/v1/feeds/{feed_id}"
		}
	}
	if key, ok := strings.CutPrefix(path, "/assets/"); ok && key != "" {
		return "/assets/{key}"
	}
	return "other"
}

func (m *HTTPServerMetrics) FeedCreated(totalCount, displayed int) {
	m.feedsCreatedTotal.WithLabelValues(m.service).Inc()
	m.feedCatalogSize.Set(float64(totalCount))
	m.feedDisplayed.WithLabelValues(m.service).Observe(float64(displayed))
}

func (m *HTTPServerMetrics) FeedRerolled(displayed int) {
	m.feedRerollsTotal.WithLabelValues(m.service).Inc()
	m.feedDisplayed.WithLabelValues(m.service).Observe(float64(displayed))
}

func (m *HTTPServerMetrics) ActiveSessions(n int) {
	m.feedActiveSessions.Set(float64(n))
}

func (m *HTTPServerMetrics) RecordBreakerTransition(operation, _, to string) {
	if operation == "" {
		operation = "unknown"
	}
	m.breakerTransitions.WithLabelValues(m.service, operation, to).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	refreshTotal    *prometheus.CounterVec
	refreshDuration *prometheus.HistogramVec
	refreshInFlight prometheus.Gauge
	catalogProjects *prometheus.GaugeVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	refreshTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "worker",
			Name:      "catalog_refresh_total",
			Help:      "Total catalog snapshot refreshes by status.",
		},
		[]string{"service", "status"},
	)
	refreshDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portfolio",
			Subsystem: "worker",
			Name:      "catalog_refresh_duration_seconds",
			Help:      "Catalog snapshot refresh duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	refreshInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "portfolio",
			Subsystem: "worker",
			Name:      "catalog_refresh_in_flight",
			Help:      "Number of in-flight catalog refreshes.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	catalogProjects := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "portfolio",
			Subsystem: "worker",
			Name:      "catalog_projects",
			Help:      "Projects in the last persisted catalog snapshot.",
		},
		[]string{"service"},
	)

	registry.MustRegister(refreshTotal, refreshDuration, refreshInFlight, catalogProjects)

	return &WorkerMetrics{
		registry:        registry,
		refreshTotal:    refreshTotal,
		refreshDuration: refreshDuration,
		refreshInFlight: refreshInFlight,
		catalogProjects: catalogProjects,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartRefresh() {
	m.refreshInFlight.Inc()
}

func (m *WorkerMetrics) FinishRefresh(service string, duration time.Duration, projects int, err error) {
	m.refreshInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	} else {
		m.catalogProjects.WithLabelValues(service).Set(float64(projects))
	}

	m.refreshTotal.WithLabelValues(service, status).Inc()
	m.refreshDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

package metrics

import (
	"net/http"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nftbridge"

type service struct {
	registry          *prometheus.Registry
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	eventsTotal       *prometheus.CounterVec
	pendingTransfers  prometheus.Gauge
}

// Service is the prometheus implementation of the bridge metrics, it also serves them over http.
type Service interface {
	ports.BridgeMetrics
	Handler() http.Handler
}

func NewService() Service {
	registry := prometheus.NewRegistry()
	svc := &service{
		registry: registry,
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of bridge operations, labelled by error code",
		}, []string{"operation", "status", "error"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Bridge operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of committed bridge events",
		}, []string{"type"}),
		pendingTransfers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_transfers",
			Help:      "Number of assets waiting for a transfer to settle",
		}),
	}

	registry.MustRegister(
		svc.operationsTotal,
		svc.operationDuration,
		svc.eventsTotal,
		svc.pendingTransfers,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return svc
}

func (s *service) ObserveOperation(operation string, errCode string, took time.Duration) {
	status := "success"
	if errCode != "" {
		status = "failure"
	}
	s.operationsTotal.WithLabelValues(operation, status, errCode).Inc()
	s.operationDuration.WithLabelValues(operation).Observe(took.Seconds())
}

func (s *service) ObserveEvent(eventType string) {
	s.eventsTotal.WithLabelValues(eventType).Inc()
}

func (s *service) SetPendingTransfers(count int) {
	s.pendingTransfers.Set(float64(count))
}

func (s *service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}

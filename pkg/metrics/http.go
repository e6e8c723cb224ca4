package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request-level metadata for the API surface.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge

	ordersCreated   *prometheus.CounterVec
	stockConflicts  prometheus.Counter
	realtimeClients prometheus.Gauge
}

// NewHTTPMetrics registers the API metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_inflight",
		Help: "Number of HTTP requests currently being served.",
	})
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders accepted, labelled by resulting status.",
	}, []string{"status"})
	stockConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_stock_conflicts_total",
		Help: "Order submissions rejected for insufficient stock.",
	})
	realtimeClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_clients",
		Help: "Currently connected event stream subscribers.",
	})
	reg.MustRegister(duration, inflight, ordersCreated, stockConflicts, realtimeClients)
	return &HTTPMetrics{
		duration:        duration,
		inflight:        inflight,
		ordersCreated:   ordersCreated,
		stockConflicts:  stockConflicts,
		realtimeClients: realtimeClients,
	}
}

// ObserveRequest records one served request.
func (m *HTTPMetrics) ObserveRequest(method, route, status string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(method, normalizeLabel(route), status).Observe(duration.Seconds())
}

// IncInflight marks a request entering the handler chain.
func (m *HTTPMetrics) IncInflight() {
	if m == nil || m.inflight == nil {
		return
	}
	m.inflight.Inc()
}

// DecInflight marks a request leaving the handler chain.
func (m *HTTPMetrics) DecInflight() {
	if m == nil || m.inflight == nil {
		return
	}
	m.inflight.Dec()
}

// IncOrderCreated counts an accepted order by its initial status.
func (m *HTTPMetrics) IncOrderCreated(status string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncStockConflict counts a rejected submission.
func (m *HTTPMetrics) IncStockConflict() {
	if m == nil || m.stockConflicts == nil {
		return
	}
	m.stockConflicts.Inc()
}

// SetRealtimeClients reports the current subscriber count.
func (m *HTTPMetrics) SetRealtimeClients(n int) {
	if m == nil || m.realtimeClients == nil {
		return
	}
	m.realtimeClients.Set(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	metrics.ObserveRequest("POST", "/api/orders", "201", 250*time.Millisecond)
	metrics.IncOrderCreated("pending")
	metrics.IncStockConflict()
	metrics.SetRealtimeClients(3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "orders_created_total", "status", "pending"); err != nil {
		t.Fatalf("fetch orders_created_total: %v", err)
	} else if got != 1 {
		t.Fatalf("expected orders_created_total=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/orders"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	conflicts := findMetricFamily(mfs, "orders_stock_conflicts_total")
	if conflicts == nil || len(conflicts.GetMetric()) == 0 {
		t.Fatal("stock conflict counter not exported")
	}
	if got := conflicts.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected conflicts=1, got %f", got)
	}

	clients := findMetricFamily(mfs, "realtime_clients")
	if clients == nil || len(clients.GetMetric()) == 0 {
		t.Fatal("realtime clients gauge not exported")
	}
	if got := clients.GetMetric()[0].GetGauge().GetValue(); got != 3 {
		t.Fatalf("expected realtime_clients=3, got %f", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	metrics := NewHTTPMetrics(nil)
	metrics.ObserveRequest("GET", "/health", "200", time.Millisecond)
	metrics.IncInflight()
	metrics.DecInflight()
	metrics.IncOrderCreated("pending")
	metrics.IncStockConflict()
	metrics.SetRealtimeClients(1)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}

package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestClientMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewClientMetrics(reg)
	metrics.ObserveDuration("GET", "products", 250*time.Millisecond)
	metrics.IncFailure("GET", "products", 404)
	metrics.IncFailure("POST", "purchases", 0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "apiclient_request_failures_total", "status", "404"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 404 failures=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "apiclient_request_failures_total", "status", "transport"); err != nil {
		t.Fatalf("fetch transport failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected transport failures=1, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "apiclient_request_duration_seconds", "resource", "products"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestCacheMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCacheMetrics(reg)
	metrics.IncHit("products")
	metrics.IncHit("products")
	metrics.IncMiss("")
	metrics.IncInvalidation("dashboard")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, _ := fetchCounterValue(mfs, "querycache_hits_total", "resource", "products"); got != 2 {
		t.Fatalf("expected hits=2, got %f", got)
	}
	if got, _ := fetchCounterValue(mfs, "querycache_misses_total", "resource", "unknown"); got != 1 {
		t.Fatalf("expected empty resource to be labelled unknown, got %f", got)
	}
	if got, _ := fetchCounterValue(mfs, "querycache_invalidations_total", "resource", "dashboard"); got != 1 {
		t.Fatalf("expected invalidations=1, got %f", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var client *ClientMetrics
	client.ObserveDuration("GET", "products", time.Second)
	client.IncFailure("GET", "products", 500)

	cache := NewCacheMetrics(nil)
	cache.IncHit("products")
	cache.IncMiss("products")
	cache.IncInvalidation("products")
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

package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestJobMetricsExportsRunsAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)
	m.Observe("cart-cleanup", 250*time.Millisecond, nil)
	m.Observe("cart-cleanup", 10*time.Millisecond, errors.New("boom"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got := counterValue(t, mfs, "mandlimart_job_runs_total", map[string]string{"job": "cart-cleanup", "result": "success"}); got != 1 {
		t.Fatalf("expected one success got %v", got)
	}
	if got := counterValue(t, mfs, "mandlimart_job_runs_total", map[string]string{"job": "cart-cleanup", "result": "failure"}); got != 1 {
		t.Fatalf("expected one failure got %v", got)
	}
}

func TestCheckoutMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)
	m.Outcome(OutcomePlaced)
	m.Outcome(OutcomePlaced)
	m.Outcome(OutcomePartialCommit)
	m.Cleanup(nil)
	done := m.StreamOpened()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got := counterValue(t, mfs, "mandlimart_checkout_orders_total", map[string]string{"outcome": OutcomePlaced}); got != 2 {
		t.Fatalf("expected 2 placed got %v", got)
	}
	if got := gaugeValue(t, mfs, "mandlimart_order_streams_active"); got != 1 {
		t.Fatalf("expected 1 open stream got %v", got)
	}

	done()
	mfs, _ = reg.Gather()
	if got := gaugeValue(t, mfs, "mandlimart_order_streams_active"); got != 0 {
		t.Fatalf("expected 0 open streams got %v", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewJobMetrics(nil).Observe("x", time.Second, nil)
	c := NewCheckoutMetrics(nil)
	c.Outcome(OutcomeFailed)
	c.Cleanup(errors.New("x"))
	c.StreamOpened()()
}

func counterValue(t *testing.T, mfs []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	metric, err := find(mfs, name, labels)
	if err != nil {
		t.Fatal(err)
	}
	return metric.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, mfs []*dto.MetricFamily, name string) float64 {
	t.Helper()
	metric, err := find(mfs, name, nil)
	if err != nil {
		t.Fatal(err)
	}
	return metric.GetGauge().GetValue()
}

func find(mfs []*dto.MetricFamily, name string, labels map[string]string) (*dto.Metric, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matches(metric, labels) {
				return metric, nil
			}
		}
	}
	return nil, fmt.Errorf("metric %s %v not found", name, labels)
}

func matches(metric *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, pair := range metric.GetLabel() {
		if want, ok := labels[pair.GetName()]; ok {
			if want != pair.GetValue() {
				return false
			}
			found++
		}
	}
	return found == len(labels)
}

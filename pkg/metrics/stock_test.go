package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStockMetricsExportCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStockMetrics(reg)

	m.IncTransition("sale", "processed")
	m.IncTransition("sale", "processed")
	m.IncIntakeLine("committed")
	m.IncIntakeLine("failed")
	m.AddAdjustments(3)
	m.AddAdjustments(0) // ignored

	if got := testutil.ToFloat64(m.transitions.WithLabelValues("sale", "processed")); got != 2 {
		t.Fatalf("expected 2 transitions, got %f", got)
	}
	if got := testutil.ToFloat64(m.intakeLines.WithLabelValues("failed")); got != 1 {
		t.Fatalf("expected 1 failed intake line, got %f", got)
	}
	if got := testutil.ToFloat64(m.adjustments); got != 3 {
		t.Fatalf("expected 3 adjustments, got %f", got)
	}
}

func TestStockMetricsNilSafe(t *testing.T) {
	var m *StockMetrics
	m.IncTransition("storage", "draft")
	m.IncIntakeLine("")
	m.AddAdjustments(1)

	unregistered := NewStockMetrics(nil)
	unregistered.IncTransition("", "")
}

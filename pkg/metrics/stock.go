package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StockMetrics records the engine's domain counters.
type StockMetrics struct {
	transitions *prometheus.CounterVec
	intakeLines *prometheus.CounterVec
	adjustments prometheus.Counter
}

// NewStockMetrics registers the stock metrics on the provided registerer.
func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Committed order status transitions.",
	}, []string{"service", "to"})
	intakeLines := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_lines_total",
		Help: "Purchase intake lines by commit outcome.",
	}, []string{"outcome"})
	adjustments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stocktake_adjustments_total",
		Help: "Placement quantities corrected by stocktake reconciliation.",
	})
	reg.MustRegister(transitions, intakeLines, adjustments)
	return &StockMetrics{
		transitions: transitions,
		intakeLines: intakeLines,
		adjustments: adjustments,
	}
}

// IncTransition counts a committed order transition.
func (m *StockMetrics) IncTransition(service, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(service), normalizeLabel(to)).Inc()
}

// IncIntakeLine counts one intake line outcome (committed or failed).
func (m *StockMetrics) IncIntakeLine(outcome string) {
	if m == nil || m.intakeLines == nil {
		return
	}
	m.intakeLines.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddAdjustments counts placements mutated by a stocktake apply.
func (m *StockMetrics) AddAdjustments(n int) {
	if m == nil || m.adjustments == nil || n <= 0 {
		return
	}
	m.adjustments.Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// SaleMetrics records checkout outcomes. A nil *SaleMetrics is a no-op.
type SaleMetrics struct {
	outcomes  *prometheus.CounterVec
	revenue   prometheus.Counter
	duration  *prometheus.HistogramVec
	shortages *prometheus.CounterVec
}

// NewSaleMetrics registers the sale metrics on the provided registerer.
func NewSaleMetrics(reg prometheus.Registerer) *SaleMetrics {
	if reg == nil {
		return &SaleMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_total",
		Help: "Sale submissions by outcome.",
	}, []string{"outcome"})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_revenue_total",
		Help: "Revenue of committed sales.",
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sale_duration_seconds",
		Help:    "Time spent validating and committing a sale.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	shortages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_shortages_total",
		Help: "Sales rejected for insufficient stock, by stock kind.",
	}, []string{"kind"})
	reg.MustRegister(outcomes, revenue, duration, shortages)
	return &SaleMetrics{
		outcomes:  outcomes,
		revenue:   revenue,
		duration:  duration,
		shortages: shortages,
	}
}

// Observe records one sale attempt.
func (m *SaleMetrics) Observe(outcome string, elapsed time.Duration) {
	if m == nil || m.outcomes == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	m.outcomes.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// AddRevenue adds a committed sale total.
func (m *SaleMetrics) AddRevenue(total decimal.Decimal) {
	if m == nil || m.revenue == nil || total.IsNegative() {
		return
	}
	m.revenue.Add(total.InexactFloat64())
}

// IncShortage counts a rejection for the given stock kind (shelf or sauce).
func (m *SaleMetrics) IncShortage(kind string) {
	if m == nil || m.shortages == nil {
		return
	}
	m.shortages.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

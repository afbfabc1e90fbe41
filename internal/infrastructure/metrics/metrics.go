package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	Mutations        *prometheus.CounterVec
	MutationDuration *prometheus.HistogramVec
	BalanceAdjusts   prometheus.Counter
	Discrepancies    prometheus.Gauge
	RepairedBalances prometheus.Counter
	DashboardCache   *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finledger_mutations_total",
				Help: "Ledger mutations by operation and outcome",
			},
			[]string{"operation", "status"},
		),
		MutationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finledger_mutation_duration_seconds",
				Help:    "Duration of ledger mutations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		BalanceAdjusts: factory.NewCounter(prometheus.CounterOpts{
			Name: "finledger_balance_adjustments_total",
			Help: "Account balance deltas applied",
		}),
		Discrepancies: factory.NewGauge(prometheus.GaugeOpts{
			Name: "finledger_reconciliation_discrepancies",
			Help: "Accounts whose stored balance differed from the ledger at the last check",
		}),
		RepairedBalances: factory.NewCounter(prometheus.CounterOpts{
			Name: "finledger_balances_repaired_total",
			Help: "Account balances rewritten by repair",
		}),
		DashboardCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finledger_dashboard_cache_total",
				Help: "Dashboard cache lookups by result",
			},
			[]string{"result"},
		),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finledger_events_published_total",
				Help: "Outbox events relayed by type and outcome",
			},
			[]string{"event_type", "status"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "finledger_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// MutationCompleted implements usecase.Recorder.
func (m *Metrics) MutationCompleted(operation string, duration time.Duration, err error) {
	m.Mutations.WithLabelValues(operation, status(err)).Inc()
	m.MutationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// BalanceAdjusted implements usecase.Recorder.
func (m *Metrics) BalanceAdjusted(count int) {
	m.BalanceAdjusts.Add(float64(count))
}

// Reconciled implements usecase.Recorder.
func (m *Metrics) Reconciled(discrepancies int) {
	m.Discrepancies.Set(float64(discrepancies))
}

// BalancesRepaired implements usecase.Recorder.
func (m *Metrics) BalancesRepaired(count int) {
	m.RepairedBalances.Add(float64(count))
}

// CacheLookup implements usecase.Recorder.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.DashboardCache.WithLabelValues(result).Inc()
}

// EventPublished implements eventpublisher.Recorder.
func (m *Metrics) EventPublished(eventType string, err error) {
	m.EventsPublished.WithLabelValues(eventType, status(err)).Inc()
}

// RecordHTTP records one served request.
func (m *Metrics) RecordHTTP(method, path string, code int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RateLimited counts a rejected request.
func (m *Metrics) RateLimited() {
	m.RateLimitHits.Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	PaymentsRecorded    *prometheus.CounterVec
	SettlementsRecorded prometheus.Counter
	InvalidTransactions prometheus.Counter
	RecordDuration      prometheus.Histogram
	RecordedAmount      prometheus.Histogram

	// Balance query metrics
	BalanceQueries *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		PaymentsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_payments_recorded_total",
				Help: "Total number of payment events recorded by direction",
			},
			[]string{"direction"},
		),
		SettlementsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_settlements_recorded_total",
			Help: "Total number of settlement payments recorded",
		}),
		InvalidTransactions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_invalid_transactions_total",
			Help: "Total number of submissions rejected for invalid shape",
		}),
		RecordDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_record_duration_seconds",
			Help:    "Duration of record transaction operations",
			Buckets: prometheus.DefBuckets,
		}),
		RecordedAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_recorded_amount",
			Help:    "Recorded payment amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		}),
		BalanceQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_balance_queries_total",
				Help: "Total balance projection queries by kind",
			},
			[]string{"kind"},
		),
	}
}

package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

// MetricsSubsystem is a subsystem shared by all metrics exposed by this package.
const MetricsSubsystem = "coffee"

type Metrics struct {
	// Transactions run, labeled by type and response code.
	Transactions metrics.Counter
	// Time to run one transaction in seconds, labeled by type.
	TransactionDuration metrics.Histogram
	// Length of the supporters ledger, labeled by contract.
	Supporters metrics.Gauge
	// Version of the state tree.
	Height metrics.Gauge
	// API response time in seconds, labeled by route.
	APIDuration metrics.Histogram
}

// PrometheusMetrics returns Metrics built using the Prometheus client library.
// Optionally, labels can be provided along with their values ("foo", "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}

	return &Metrics{
		Transactions: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "transactions",
			Help:      "Number of transactions run.",
		}, append(labels, "type", "code")).With(labelsAndValues...),
		TransactionDuration: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "transaction_duration_seconds",
			Help:      "Time to run a transaction.",
			Buckets:   stdprometheus.ExponentialBuckets(0.0001, 4, 8),
		}, append(labels, "type")).With(labelsAndValues...),
		Supporters: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "supporters",
			Help:      "Length of the supporters ledger of a contract.",
		}, append(labels, "contract")).With(labelsAndValues...),
		Height: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "height",
			Help:      "Version of the state tree.",
		}, labels).With(labelsAndValues...),
		APIDuration: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "api_duration_seconds",
			Help:      "API response time.",
			Buckets:   stdprometheus.DefBuckets,
		}, append(labels, "route")).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		Transactions:        discard.NewCounter(),
		TransactionDuration: discard.NewHistogram(),
		Supporters:          discard.NewGauge(),
		Height:              discard.NewGauge(),
		APIDuration:         discard.NewHistogram(),
	}
}

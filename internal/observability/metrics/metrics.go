package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics captures billing run health signals.
type Metrics struct {
	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
	dispatches  *prometheus.CounterVec
	upserts     *prometheus.CounterVec
}

// New registers and returns the billing pipeline instruments.
func New() *Metrics {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frimousse_billing_runs_total",
		Help: "Counts billing runs by trigger and result.",
	}, []string{"trigger", "result"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "frimousse_billing_run_duration_seconds",
		Help:    "Wall-clock duration of a billing run.",
		Buckets: prometheus.DefBuckets,
	})

	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frimousse_invoice_dispatches_total",
		Help: "Counts invoice dispatch attempts by terminal status.",
	}, []string{"status"})

	upserts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frimousse_ledger_upserts_total",
		Help: "Counts ledger upserts by result.",
	}, []string{"result"})

	prometheus.MustRegister(runs, runDuration, dispatches, upserts)

	return &Metrics{
		runs:        runs,
		runDuration: runDuration,
		dispatches:  dispatches,
		upserts:     upserts,
	}
}

func (m *Metrics) IncRun(trigger, result string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(trigger, result).Inc()
}

func (m *Metrics) ObserveRunDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Observe(d.Seconds())
}

func (m *Metrics) IncDispatch(status string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(status).Inc()
}

func (m *Metrics) IncUpsert(result string) {
	if m == nil {
		return
	}
	m.upserts.WithLabelValues(result).Inc()
}

var Module = fx.Module("observability.metrics",
	fx.Provide(New),
)

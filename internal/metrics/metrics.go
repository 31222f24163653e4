// Package metrics exports reconciliation progress to Prometheus.
package metrics

import (
	"time"

	"biometrics/internal/app"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "biometrics"

// Metrics implements app.Observer.
type Metrics struct {
	daysReconciled *prometheus.CounterVec
	plansUpdated   prometheus.Counter
	syncDuration   prometheus.Histogram
	syncFailures   prometheus.Counter
	lastSync       prometheus.Gauge
}

var _ app.Observer = (*Metrics)(nil)

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		daysReconciled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_days_total",
			Help:      "Past days reconciled against the health provider, by result.",
		}, []string{"result"}),
		plansUpdated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_updated_total",
			Help:      "Plans recomputed and persisted.",
		}),
		syncDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of full sync runs.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		syncFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_failures_total",
			Help:      "Sync runs that returned an error.",
		}),
		lastSync: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_successful_sync_timestamp_seconds",
			Help:      "Unix time of the last sync that completed without error.",
		}),
	}
}

func (m *Metrics) DayReconciled(o app.Outcome) {
	m.daysReconciled.WithLabelValues(string(o)).Inc()
}

func (m *Metrics) PlanUpdated() {
	m.plansUpdated.Inc()
}

func (m *Metrics) SyncCompleted(d time.Duration, err error) {
	m.syncDuration.Observe(d.Seconds())
	if err != nil {
		m.syncFailures.Inc()
		return
	}
	m.lastSync.SetToCurrentTime()
}

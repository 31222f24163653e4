package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"biometrics/internal/app"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.DayReconciled(app.OutcomeUpdated)
	m.DayReconciled(app.OutcomeUnchanged)
	m.DayReconciled(app.OutcomeUnchanged)
	m.PlanUpdated()
	m.SyncCompleted(200*time.Millisecond, nil)
	m.SyncCompleted(time.Second, errors.New("boom"))

	assert.Check(t, is.Equal(testutil.ToFloat64(m.daysReconciled.WithLabelValues("updated")), 1.0))
	assert.Check(t, is.Equal(testutil.ToFloat64(m.daysReconciled.WithLabelValues("unchanged")), 2.0))
	assert.Check(t, is.Equal(testutil.ToFloat64(m.plansUpdated), 1.0))
	assert.Check(t, is.Equal(testutil.ToFloat64(m.syncFailures), 1.0))
	assert.Check(t, testutil.ToFloat64(m.lastSync) > 0)

	expected := `
# HELP biometrics_plans_updated_total Plans recomputed and persisted.
# TYPE biometrics_plans_updated_total counter
biometrics_plans_updated_total 1
`
	assert.NilError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "biometrics_plans_updated_total"))

	n, err := testutil.GatherAndCount(reg, "biometrics_sync_duration_seconds")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(n, 1))
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Check(t, is.Panics(func() { New(reg) }))
}

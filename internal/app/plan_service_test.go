package app_test

import (
	"context"
	"testing"

	"biometrics/internal/app"
	"biometrics/internal/domain"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestAssignPlan_TodayUsesCurrentContext(t *testing.T) {
	f := newFixture()
	cur := app.NewCurrentBiometrics(domain.Biometrics{Weight: domain.Manual(90)})

	got, err := f.plans.AssignPlan(context.Background(), day("2026-03-10"), domain.Plan{
		Name: "bulk", EnergyBasis: domain.EnergyFixed, EnergyKcal: 3000,
		ProteinBasis: domain.ProteinWeight, ProteinPerKg: 2,
	}, cur)
	assert.NilError(t, err)
	assert.Equal(t, got.ProteinTarget, 180.0)
	assert.Equal(t, got.EnergyTarget, 3000.0)

	stored := f.days.get("2026-03-10").Plan
	assert.Assert(t, stored != nil)
	assert.Check(t, stored.Equal(got))

	events := f.events.all()
	assert.Assert(t, is.Len(events, 1))
	pu, ok := events[0].(domain.PlanUpdated)
	assert.Assert(t, ok)
	assert.Check(t, pu.Date.Equal(day("2026-03-10")))
}

func TestAssignPlan_PastDayUsesStoredBiometrics(t *testing.T) {
	f := newFixture(pastDay("2026-03-01", domain.Biometrics{LeanBodyMass: domain.Health().WithValue(60)}, nil))
	cur := app.NewCurrentBiometrics(domain.Biometrics{LeanBodyMass: domain.Manual(99)})

	got, err := f.plans.AssignPlan(context.Background(), day("2026-03-01"), domain.Plan{
		ProteinBasis: domain.ProteinLeanBodyMass, ProteinPerKg: 2.5,
	}, cur)
	assert.NilError(t, err)
	assert.Equal(t, got.ProteinTarget, 150.0)
}

func TestAssignPlan_PersistenceFailure(t *testing.T) {
	f := newFixture()
	f.days.setPlanErr = domain.ErrPersistence
	cur := app.NewCurrentBiometrics(domain.Biometrics{})

	_, err := f.plans.AssignPlan(context.Background(), day("2026-03-11"), domain.Plan{EnergyBasis: domain.EnergyFixed}, cur)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Check(t, is.Len(f.events.all(), 0))
}

func TestUpdatePlans_SkipsUnchanged(t *testing.T) {
	f := newFixture(domain.Day{Date: day("2026-03-10"), Plan: proteinPlan()})

	err := f.plans.UpdatePlans(context.Background(), domain.Biometrics{Weight: domain.Health().WithValue(80)})
	assert.NilError(t, err)
	assert.Check(t, is.Len(f.days.writes(), 0))
	assert.Check(t, is.Len(f.events.all(), 0))
}

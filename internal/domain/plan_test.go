package domain_test

import (
	"testing"

	"biometrics/internal/domain"
)

func TestPlanInputs(t *testing.T) {
	tests := []struct {
		name string
		plan domain.Plan
		want []domain.QuantityType
	}{
		{"fixed no protein", domain.Plan{EnergyBasis: domain.EnergyFixed, ProteinBasis: domain.ProteinNone}, nil},
		{"maintenance", domain.Plan{EnergyBasis: domain.EnergyMaintenance}, []domain.QuantityType{domain.RestingEnergy, domain.ActiveEnergy}},
		{"protein by weight", domain.Plan{EnergyBasis: domain.EnergyFixed, ProteinBasis: domain.ProteinWeight}, []domain.QuantityType{domain.Weight}},
		{"protein by lean mass", domain.Plan{ProteinBasis: domain.ProteinLeanBodyMass}, []domain.QuantityType{domain.LeanBodyMass}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.plan.Inputs()
			if len(got) != len(tc.want) {
				t.Fatalf("Inputs() = %v; want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Inputs() = %v; want %v", got, tc.want)
				}
			}
			if tc.plan.UsesBiometrics() != (len(tc.want) > 0) {
				t.Errorf("UsesBiometrics() = %v", tc.plan.UsesBiometrics())
			}
		})
	}
}

func TestPlanUsesHealthValues(t *testing.T) {
	plan := domain.Plan{EnergyBasis: domain.EnergyFixed, ProteinBasis: domain.ProteinWeight}

	healthWeight := domain.Biometrics{Weight: domain.Health().WithValue(80)}
	if !plan.UsesHealthValues(healthWeight) {
		t.Error("expected plan to use health weight")
	}

	healthEnergyOnly := domain.Biometrics{
		Weight:        domain.Manual(80),
		RestingEnergy: domain.Health().WithValue(1700),
	}
	if plan.UsesHealthValues(healthEnergyOnly) {
		t.Error("plan reads weight only; health energy should not count")
	}
}

func TestPlanUpdated(t *testing.T) {
	plan := domain.Plan{
		Name:         "cut",
		EnergyBasis:  domain.EnergyMaintenance,
		EnergyKcal:   -500,
		ProteinBasis: domain.ProteinWeight,
		ProteinPerKg: 2,
	}
	b := domain.Biometrics{
		Weight:        domain.Health().WithValue(80),
		RestingEnergy: domain.Health().WithValue(1700),
		ActiveEnergy:  domain.Health().WithValue(600),
	}

	got := plan.Updated(b)
	if got.EnergyTarget != 1800 {
		t.Errorf("EnergyTarget = %v; want 1800", got.EnergyTarget)
	}
	if got.ProteinTarget != 160 {
		t.Errorf("ProteinTarget = %v; want 160", got.ProteinTarget)
	}
	if plan.EnergyTarget != 0 {
		t.Error("Updated must not mutate the receiver")
	}
	if !got.Equal(got.Updated(b)) {
		t.Error("recomputing with the same biometrics should be a no-op")
	}
	if got.Equal(plan) {
		t.Error("updated plan should differ from the original")
	}
}

func TestPlanUpdatedKeepsTargetWhenInputsMissing(t *testing.T) {
	plan := domain.Plan{
		EnergyBasis:   domain.EnergyMaintenance,
		ProteinBasis:  domain.ProteinLeanBodyMass,
		ProteinPerKg:  2.2,
		EnergyTarget:  2100,
		ProteinTarget: 130,
	}
	got := plan.Updated(domain.Biometrics{RestingEnergy: domain.Health().WithValue(1600)})
	if !got.Equal(plan) {
		t.Errorf("Updated() = %+v; want unchanged %+v", got, plan)
	}
}

func TestPlanUpdatedFixed(t *testing.T) {
	plan := domain.Plan{EnergyBasis: domain.EnergyFixed, EnergyKcal: 2000, ProteinBasis: domain.ProteinNone, ProteinTarget: 50}
	got := plan.Updated(domain.Biometrics{})
	if got.EnergyTarget != 2000 || got.ProteinTarget != 0 {
		t.Errorf("Updated() = %+v", got)
	}
}

func TestPlanUpdatedEmptyProteinBasis(t *testing.T) {
	plan := domain.Plan{EnergyBasis: domain.EnergyFixed, EnergyKcal: 2000, ProteinPerKg: 2, ProteinTarget: 150}
	got := plan.Updated(domain.Biometrics{Weight: domain.Health().WithValue(80)})
	if got.ProteinTarget != 0 {
		t.Errorf("ProteinTarget = %v; want 0 for an empty protein basis", got.ProteinTarget)
	}
}

func TestPlanValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    domain.Plan
		wantErr bool
	}{
		{"fixed", domain.Plan{Name: "a", EnergyBasis: domain.EnergyFixed, EnergyKcal: 2000}, false},
		{"maintenance deficit", domain.Plan{Name: "a", EnergyBasis: domain.EnergyMaintenance, EnergyKcal: -500}, false},
		{"protein by weight", domain.Plan{Name: "a", EnergyBasis: domain.EnergyMaintenance, ProteinBasis: domain.ProteinWeight, ProteinPerKg: 2}, false},
		{"missing name", domain.Plan{EnergyBasis: domain.EnergyFixed, EnergyKcal: 2000}, true},
		{"fixed without energy", domain.Plan{Name: "a", EnergyBasis: domain.EnergyFixed}, true},
		{"unknown energy basis", domain.Plan{Name: "a", EnergyBasis: "magic"}, true},
		{"protein without factor", domain.Plan{Name: "a", EnergyBasis: domain.EnergyMaintenance, ProteinBasis: domain.ProteinLeanBodyMass}, true},
		{"unknown protein basis", domain.Plan{Name: "a", EnergyBasis: domain.EnergyMaintenance, ProteinBasis: "height"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.plan.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

package domain

import (
	"errors"
	"fmt"
)

// EnergyBasis selects how a plan's energy target is derived.
type EnergyBasis string

const (
	// EnergyFixed uses EnergyKcal as the target.
	EnergyFixed EnergyBasis = "fixed"
	// EnergyMaintenance adds EnergyKcal to resting + active energy.
	EnergyMaintenance EnergyBasis = "maintenance"
)

// ProteinBasis selects which body mass a plan's protein target scales with.
type ProteinBasis string

const (
	ProteinNone         ProteinBasis = "none"
	ProteinWeight       ProteinBasis = "weight"
	ProteinLeanBodyMass ProteinBasis = "leanBodyMass"
)

// Plan is a derived energy/protein target for one day. Plans are values:
// Updated returns a new plan rather than mutating the receiver.
type Plan struct {
	Name         string       `json:"name"`
	EnergyBasis  EnergyBasis  `json:"energyBasis"`
	EnergyKcal   float64      `json:"energyKcal"`
	ProteinBasis ProteinBasis `json:"proteinBasis"`
	ProteinPerKg float64      `json:"proteinPerKg"`

	EnergyTarget  float64 `json:"energyTarget"`
	ProteinTarget float64 `json:"proteinTarget"`
}

// Inputs lists the quantity types the plan reads from biometrics.
func (p Plan) Inputs() []QuantityType {
	var in []QuantityType
	if p.EnergyBasis == EnergyMaintenance {
		in = append(in, RestingEnergy, ActiveEnergy)
	}
	switch p.ProteinBasis {
	case ProteinWeight:
		in = append(in, Weight)
	case ProteinLeanBodyMass:
		in = append(in, LeanBodyMass)
	}
	return in
}

// UsesBiometrics reports whether the plan depends on any biometric field.
func (p Plan) UsesBiometrics() bool {
	return len(p.Inputs()) > 0
}

// UsesHealthValues reports whether any of the plan's inputs is health-sourced in b.
func (p Plan) UsesHealthValues(b Biometrics) bool {
	for _, q := range p.Inputs() {
		if b.Get(q).IsHealth() {
			return true
		}
	}
	return false
}

// Updated recomputes the targets from b. A target whose inputs are missing
// keeps its previous value.
func (p Plan) Updated(b Biometrics) Plan {
	switch p.EnergyBasis {
	case EnergyFixed:
		p.EnergyTarget = p.EnergyKcal
	case EnergyMaintenance:
		resting, active := b.RestingEnergy.Value, b.ActiveEnergy.Value
		if resting != nil && active != nil {
			p.EnergyTarget = *resting + *active + p.EnergyKcal
		}
	}

	var mass *float64
	switch p.ProteinBasis {
	case ProteinWeight:
		mass = b.Weight.Value
	case ProteinLeanBodyMass:
		mass = b.LeanBodyMass.Value
	case ProteinNone, "":
		p.ProteinTarget = 0
	}
	if mass != nil {
		p.ProteinTarget = *mass * p.ProteinPerKg
	}
	return p
}

// Equal is structural equality over every field.
func (p Plan) Equal(o Plan) bool {
	return p == o
}

// Validate checks the plan definition. Targets are computed, not validated.
func (p Plan) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	switch p.EnergyBasis {
	case EnergyFixed:
		if p.EnergyKcal <= 0 {
			return errors.New("energyKcal must be > 0 for a fixed plan")
		}
	case EnergyMaintenance:
	default:
		return fmt.Errorf("energyBasis must be %q or %q", EnergyFixed, EnergyMaintenance)
	}
	switch p.ProteinBasis {
	case ProteinNone, "":
	case ProteinWeight, ProteinLeanBodyMass:
		if p.ProteinPerKg <= 0 || p.ProteinPerKg > 5 {
			return errors.New("proteinPerKg must be within (0, 5]")
		}
	default:
		return fmt.Errorf("proteinBasis must be %q, %q or %q", ProteinNone, ProteinWeight, ProteinLeanBodyMass)
	}
	return nil
}

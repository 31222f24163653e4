package domain

import (
	"context"
	"fmt"
	"slices"
)

// Display units. Storage always uses kg, cm and kcal.
const (
	UnitKg   = "kg"
	UnitLb   = "lb"
	UnitCm   = "cm"
	UnitIn   = "in"
	UnitKcal = "kcal"
	UnitKJ   = "kJ"
)

// GoalMetricType selects how goals are expressed in the UI.
type GoalMetricType string

const (
	MetricQuantity GoalMetricType = "quantity"
	MetricPercent  GoalMetricType = "percent"
)

// Settings holds the user's preferences. It is replaced wholesale on every
// load and save.
type Settings struct {
	EnergyUnit          string         `json:"energyUnit"`
	HeightUnit          string         `json:"heightUnit"`
	BodyMassUnit        string         `json:"bodyMassUnit"`
	MetricType          GoalMetricType `json:"metricType"`
	ExpandedMicroGroups []string       `json:"expandedMicroGroups"`
}

// DefaultSettings returns the settings used until a stored value is loaded.
func DefaultSettings() Settings {
	return Settings{
		EnergyUnit:   UnitKcal,
		HeightUnit:   UnitCm,
		BodyMassUnit: UnitKg,
		MetricType:   MetricQuantity,
	}
}

// Equal compares every field, treating nil and empty group lists alike.
func (s Settings) Equal(o Settings) bool {
	return s.EnergyUnit == o.EnergyUnit &&
		s.HeightUnit == o.HeightUnit &&
		s.BodyMassUnit == o.BodyMassUnit &&
		s.MetricType == o.MetricType &&
		slices.Equal(s.ExpandedMicroGroups, o.ExpandedMicroGroups)
}

// Clone returns a copy that does not share the group slice.
func (s Settings) Clone() Settings {
	s.ExpandedMicroGroups = slices.Clone(s.ExpandedMicroGroups)
	return s
}

// Validate checks that every unit is one the application can convert.
func (s Settings) Validate() error {
	if s.EnergyUnit != UnitKcal && s.EnergyUnit != UnitKJ {
		return fmt.Errorf("energyUnit must be %q or %q", UnitKcal, UnitKJ)
	}
	if s.HeightUnit != UnitCm && s.HeightUnit != UnitIn {
		return fmt.Errorf("heightUnit must be %q or %q", UnitCm, UnitIn)
	}
	if s.BodyMassUnit != UnitKg && s.BodyMassUnit != UnitLb {
		return fmt.Errorf("bodyMassUnit must be %q or %q", UnitKg, UnitLb)
	}
	if s.MetricType != MetricQuantity && s.MetricType != MetricPercent {
		return fmt.Errorf("metricType must be %q or %q", MetricQuantity, MetricPercent)
	}
	return nil
}

// UnitFor returns the display unit configured for q.
func (s Settings) UnitFor(q QuantityType) string {
	switch q {
	case Weight, LeanBodyMass:
		return s.BodyMassUnit
	case Height:
		return s.HeightUnit
	case RestingEnergy, ActiveEnergy:
		return s.EnergyUnit
	}
	return ""
}

// SettingsRepository is the port for settings persistence.
type SettingsRepository interface {
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

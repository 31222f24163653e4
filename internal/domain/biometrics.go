// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// QuantityType identifies one biometric measurement.
type QuantityType string

// Quantity types tracked per day. Values are stored in kg, cm and kcal.
const (
	Weight        QuantityType = "weight"
	Height        QuantityType = "height"
	LeanBodyMass  QuantityType = "leanBodyMass"
	RestingEnergy QuantityType = "restingEnergy"
	ActiveEnergy  QuantityType = "activeEnergy"
)

// QuantityTypes lists every quantity type in a stable order.
var QuantityTypes = []QuantityType{Weight, Height, LeanBodyMass, RestingEnergy, ActiveEnergy}

// Valid reports whether q is a known quantity type.
func (q QuantityType) Valid() bool {
	for _, t := range QuantityTypes {
		if t == q {
			return true
		}
	}
	return false
}

// Source records where a measurement value came from.
type Source string

const (
	SourceUserEntered Source = "userEntered"
	SourceHealth      Source = "health"
)

// Measurement is an optional value together with its source.
type Measurement struct {
	Value  *float64 `json:"value,omitempty"`
	Source Source   `json:"source"`
}

// Health returns a health-sourced measurement without a value yet.
func Health() Measurement {
	return Measurement{Source: SourceHealth}
}

// Manual returns a user-entered measurement holding v.
func Manual(v float64) Measurement {
	return Measurement{Value: &v, Source: SourceUserEntered}
}

// IsHealth reports whether the measurement is populated from the health provider.
func (m Measurement) IsHealth() bool { return m.Source == SourceHealth }

// Equal compares value presence, value and source.
func (m Measurement) Equal(o Measurement) bool {
	if m.Source != o.Source {
		return false
	}
	if m.Value == nil || o.Value == nil {
		return m.Value == nil && o.Value == nil
	}
	return *m.Value == *o.Value
}

// WithValue returns a copy of m holding v.
func (m Measurement) WithValue(v float64) Measurement {
	m.Value = &v
	return m
}

// Biometrics is the snapshot of measurement inputs for one calendar day.
type Biometrics struct {
	Date          time.Time   `json:"date"`
	Weight        Measurement `json:"weight"`
	Height        Measurement `json:"height"`
	LeanBodyMass  Measurement `json:"leanBodyMass"`
	RestingEnergy Measurement `json:"restingEnergy"`
	ActiveEnergy  Measurement `json:"activeEnergy"`
}

// Get returns the measurement for q.
func (b Biometrics) Get(q QuantityType) Measurement {
	switch q {
	case Weight:
		return b.Weight
	case Height:
		return b.Height
	case LeanBodyMass:
		return b.LeanBodyMass
	case RestingEnergy:
		return b.RestingEnergy
	case ActiveEnergy:
		return b.ActiveEnergy
	}
	return Measurement{}
}

// With returns a copy of b with the measurement for q replaced.
func (b Biometrics) With(q QuantityType, m Measurement) Biometrics {
	switch q {
	case Weight:
		b.Weight = m
	case Height:
		b.Height = m
	case LeanBodyMass:
		b.LeanBodyMass = m
	case RestingEnergy:
		b.RestingEnergy = m
	case ActiveEnergy:
		b.ActiveEnergy = m
	}
	return b
}

// UsesHealth reports whether any measurement is sourced from the health provider.
func (b Biometrics) UsesHealth() bool {
	for _, q := range QuantityTypes {
		if b.Get(q).IsHealth() {
			return true
		}
	}
	return false
}

// HealthTypes returns the quantity types marked as health-sourced.
func (b Biometrics) HealthTypes() []QuantityType {
	var out []QuantityType
	for _, q := range QuantityTypes {
		if b.Get(q).IsHealth() {
			out = append(out, q)
		}
	}
	return out
}

// Equal is structural equality over the date and every measurement.
func (b Biometrics) Equal(o Biometrics) bool {
	return b.Date.Equal(o.Date) && b.Matches(o)
}

// Matches compares every measurement value and source, ignoring the date.
func (b Biometrics) Matches(o Biometrics) bool {
	for _, q := range QuantityTypes {
		if !b.Get(q).Equal(o.Get(q)) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy so callers can't alias measurement values.
func (b Biometrics) Clone() Biometrics {
	for _, q := range QuantityTypes {
		m := b.Get(q)
		if m.Value != nil {
			b = b.With(q, m.WithValue(*m.Value))
		}
	}
	return b
}

// QueryMode selects how the health provider aggregates samples.
type QueryMode string

const (
	// QueryLatest asks for the most recent sample at or before the instant.
	QueryLatest QueryMode = "latest"
	// QueryDayAverage asks for the average over the calendar day of the instant.
	QueryDayAverage QueryMode = "dayAverage"
)

// HealthProvider is the port to the platform health data source. ok is false
// when no sample exists for the query.
type HealthProvider interface {
	Sample(ctx context.Context, q QuantityType, mode QueryMode, at time.Time) (value float64, ok bool, err error)
}

package domain

import (
	"context"
	"errors"
	"time"
)

// DayLayout is the storage key format for a local calendar day.
const DayLayout = "2006-01-02"

var (
	// ErrProviderQuery indicates that health data was unavailable, denied or timed out.
	ErrProviderQuery = errors.New("health provider query failed")
	// ErrPersistence indicates a read or write error against the store.
	ErrPersistence = errors.New("persistence failure")
	// ErrSerialization indicates malformed stored biometrics, plan or settings data.
	ErrSerialization = errors.New("serialization failure")
	// ErrNotFound indicates that the requested day has no record.
	ErrNotFound = errors.New("not found")
)

// Day aggregates a calendar date with its biometrics and plan.
type Day struct {
	Date       time.Time   `json:"date"`
	Biometrics *Biometrics `json:"biometrics,omitempty"`
	Plan       *Plan       `json:"plan,omitempty"`
}

// Key returns the storage key of the day.
func (d Day) Key() string { return DayKey(d.Date) }

// DayKey formats t as a local calendar day.
func DayKey(t time.Time) string {
	return t.In(time.Local).Format(DayLayout)
}

// ParseDay parses a calendar day key as local midnight.
func ParseDay(key string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, key, time.Local)
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// DayRepository is the port for per-day persistence. Getters return nil
// without error when the day has no value.
type DayRepository interface {
	Biometrics(ctx context.Context, date time.Time) (*Biometrics, error)
	SetBiometrics(ctx context.Context, b Biometrics, date time.Time) error
	Plan(ctx context.Context, date time.Time) (*Plan, error)
	SetPlan(ctx context.Context, p Plan, date time.Time) error
	Day(ctx context.Context, date time.Time) (*Day, error)
	// DaysWithBiometrics returns every day holding biometrics, most recent first.
	DaysWithBiometrics(ctx context.Context) ([]Day, error)
	// DaysWithPlans returns every day on or after from holding a plan, oldest first.
	DaysWithPlans(ctx context.Context, from time.Time) ([]Day, error)
}

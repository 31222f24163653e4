package app

import (
	"context"
	"sync"
	"time"

	"biometrics/internal/domain"
)

// CurrentBiometrics is the live editing context for today. It is owned by the
// caller and passed to the reconciler explicitly.
type CurrentBiometrics struct {
	mu sync.RWMutex
	b  domain.Biometrics
}

// NewCurrentBiometrics wraps b as the current context.
func NewCurrentBiometrics(b domain.Biometrics) *CurrentBiometrics {
	return &CurrentBiometrics{b: b.Clone()}
}

// Snapshot returns a copy of the current biometrics.
func (c *CurrentBiometrics) Snapshot() domain.Biometrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.b.Clone()
}

// Replace swaps the current biometrics for b.
func (c *CurrentBiometrics) Replace(b domain.Biometrics) {
	c.mu.Lock()
	c.b = b.Clone()
	c.mu.Unlock()
}

// DefaultBiometrics marks every quantity as health-sourced with no value yet.
func DefaultBiometrics(now time.Time) domain.Biometrics {
	b := domain.Biometrics{Date: now}
	for _, q := range domain.QuantityTypes {
		b = b.With(q, domain.Health())
	}
	return b
}

// LoadCurrentBiometrics seeds the current context from today's stored
// biometrics, else the most recent stored snapshot, else DefaultBiometrics.
func LoadCurrentBiometrics(ctx context.Context, days domain.DayRepository, now time.Time) (*CurrentBiometrics, error) {
	b, err := days.Biometrics(ctx, now)
	if err != nil {
		return nil, err
	}
	if b != nil {
		return NewCurrentBiometrics(*b), nil
	}

	all, err := days.DaysWithBiometrics(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > 0 && all[0].Biometrics != nil {
		latest := *all[0].Biometrics
		latest.Date = now
		return NewCurrentBiometrics(latest), nil
	}
	return NewCurrentBiometrics(DefaultBiometrics(now)), nil
}

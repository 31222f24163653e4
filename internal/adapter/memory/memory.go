// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"biometrics/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	days     map[string]domain.Day
	settings *domain.Settings
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		days: make(map[string]domain.Day),
	}
}

// Ensure interfaces are met.
var _ domain.DayRepository = (*DB)(nil)
var _ domain.SettingsRepository = (*DB)(nil)

// --- DayRepository ---

// Biometrics returns the biometrics stored for the day of date.
func (db *DB) Biometrics(ctx context.Context, date time.Time) (*domain.Biometrics, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	d, ok := db.days[domain.DayKey(date)]
	if !ok || d.Biometrics == nil {
		return nil, nil
	}
	b := d.Biometrics.Clone()
	return &b, nil
}

// SetBiometrics stores b against the day of date, creating the day if needed.
func (db *DB) SetBiometrics(ctx context.Context, b domain.Biometrics, date time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	d := db.day(date)
	b = b.Clone()
	d.Biometrics = &b
	db.days[d.Key()] = d
	return nil
}

// Plan returns the plan stored for the day of date.
func (db *DB) Plan(ctx context.Context, date time.Time) (*domain.Plan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	d, ok := db.days[domain.DayKey(date)]
	if !ok || d.Plan == nil {
		return nil, nil
	}
	p := *d.Plan
	return &p, nil
}

// SetPlan stores p against the day of date, creating the day if needed.
func (db *DB) SetPlan(ctx context.Context, p domain.Plan, date time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	d := db.day(date)
	d.Plan = &p
	db.days[d.Key()] = d
	return nil
}

// Day returns a copy of the day of date, or nil if nothing was stored.
func (db *DB) Day(ctx context.Context, date time.Time) (*domain.Day, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	d, ok := db.days[domain.DayKey(date)]
	if !ok {
		return nil, nil
	}
	c := copyDay(d)
	return &c, nil
}

// DaysWithBiometrics lists days holding biometrics, most recent first.
func (db *DB) DaysWithBiometrics(ctx context.Context) ([]domain.Day, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Day, 0, len(db.days))
	for _, d := range db.days {
		if d.Biometrics != nil {
			result = append(result, copyDay(d))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

// DaysWithPlans lists days on or after from holding a plan, oldest first.
func (db *DB) DaysWithPlans(ctx context.Context, from time.Time) ([]domain.Day, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	start := domain.StartOfDay(from)
	var result []domain.Day
	for _, d := range db.days {
		if d.Plan != nil && !d.Date.Before(start) {
			result = append(result, copyDay(d))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// day returns the stored day for date or a fresh one. Callers hold mu.
func (db *DB) day(date time.Time) domain.Day {
	if d, ok := db.days[domain.DayKey(date)]; ok {
		return d
	}
	return domain.Day{Date: domain.StartOfDay(date)}
}

func copyDay(d domain.Day) domain.Day {
	if d.Biometrics != nil {
		b := d.Biometrics.Clone()
		d.Biometrics = &b
	}
	if d.Plan != nil {
		p := *d.Plan
		d.Plan = &p
	}
	return d
}

// --- SettingsRepository ---

// LoadSettings returns the stored settings, or the defaults if none were saved.
func (db *DB) LoadSettings(ctx context.Context) (domain.Settings, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.settings == nil {
		return domain.DefaultSettings(), nil
	}
	return db.settings.Clone(), nil
}

// SaveSettings replaces the stored settings.
func (db *DB) SaveSettings(ctx context.Context, s domain.Settings) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	c := s.Clone()
	db.settings = &c
	return nil
}

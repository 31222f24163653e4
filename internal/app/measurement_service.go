package app

import (
	"context"
	"errors"
	"fmt"

	"biometrics/internal/domain"
)

// MeasurementService encapsulates manual edits of the current biometrics.
type MeasurementService struct {
	rec      *Reconciler
	cur      *CurrentBiometrics
	settings *SettingsStore
}

// NewMeasurementService creates a MeasurementService editing cur through rec.
// Units default to the ones configured in settings.
func NewMeasurementService(rec *Reconciler, cur *CurrentBiometrics, settings *SettingsStore) *MeasurementService {
	return &MeasurementService{rec: rec, cur: cur, settings: settings}
}

// Current returns the live biometrics snapshot.
func (s *MeasurementService) Current() domain.Biometrics {
	return s.cur.Snapshot()
}

// Record validates and stores a user-entered value for q. An empty unit means
// the display unit from settings.
func (s *MeasurementService) Record(ctx context.Context, q domain.QuantityType, value float64, unit string) (domain.Biometrics, error) {
	if !q.Valid() {
		return domain.Biometrics{}, fmt.Errorf("unknown quantity %q", q)
	}
	if value <= 0 {
		return domain.Biometrics{}, errors.New("value must be > 0")
	}
	if unit == "" {
		unit = s.settings.UnitFor(q)
	}
	if !domain.ValidUnit(q, unit) {
		return domain.Biometrics{}, fmt.Errorf("unit %q is not valid for %s", unit, q)
	}
	stored := domain.Convert(q, value, unit, domain.StorageUnit(q))
	return s.rec.UpdateCurrent(ctx, s.cur, q, domain.Manual(stored))
}

// UseHealth hands q back to the health provider. The last known value is
// kept until the next sync replaces it.
func (s *MeasurementService) UseHealth(ctx context.Context, q domain.QuantityType) (domain.Biometrics, error) {
	if !q.Valid() {
		return domain.Biometrics{}, fmt.Errorf("unknown quantity %q", q)
	}
	m := s.cur.Snapshot().Get(q)
	m.Source = domain.SourceHealth
	return s.rec.UpdateCurrent(ctx, s.cur, q, m)
}

package app

import (
	"errors"
	"fmt"
	"time"

	"biometrics/internal/domain"
)

// SampleRecorder accepts raw health samples, e.g. the in-memory provider.
type SampleRecorder interface {
	Add(q domain.QuantityType, value float64, at time.Time)
}

// SampleService feeds readings into a local health provider.
type SampleService struct {
	rec SampleRecorder
	now func() time.Time
}

// NewSampleService creates a SampleService writing to rec.
func NewSampleService(rec SampleRecorder, opts ...Option) *SampleService {
	o := buildOptions(opts)
	return &SampleService{rec: rec, now: o.now}
}

// RecordSample validates a reading and records it in storage units. A zero
// at means now; readings from the future are rejected.
func (s *SampleService) RecordSample(q domain.QuantityType, value float64, unit string, at time.Time) (time.Time, error) {
	if !q.Valid() {
		return at, fmt.Errorf("unknown quantity %q", q)
	}
	if value < 0 {
		return at, errors.New("value must be >= 0")
	}
	if unit == "" {
		unit = domain.StorageUnit(q)
	}
	if !domain.ValidUnit(q, unit) {
		return at, fmt.Errorf("unit %q is not valid for %s", unit, q)
	}
	now := s.now()
	if at.IsZero() {
		at = now
	}
	if at.After(now.Add(time.Minute)) {
		return at, errors.New("sample time is in the future")
	}
	s.rec.Add(q, domain.Convert(q, value, unit, domain.StorageUnit(q)), at)
	return at, nil
}

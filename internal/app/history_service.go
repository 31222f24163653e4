package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"biometrics/internal/domain"
)

// HistoryService encapsulates biometrics history retrieval use cases.
type HistoryService struct {
	days domain.DayRepository
	now  func() time.Time
}

// NewHistoryService creates a HistoryService backed by the given repository.
func NewHistoryService(days domain.DayRepository, opts ...Option) *HistoryService {
	o := buildOptions(opts)
	return &HistoryService{days: days, now: o.now}
}

// DayPoint is a single day returned by GetDaily.
type DayPoint struct {
	Day    string                              `json:"day"`
	Values map[domain.QuantityType]*ValuePoint `json:"values"`
	Plan   *domain.Plan                        `json:"plan,omitempty"`
}

// ValuePoint is one measurement converted to a display unit.
type ValuePoint struct {
	Value  float64       `json:"value"`
	Unit   string        `json:"unit"`
	Source domain.Source `json:"source"`
}

// GetDaily returns per-day biometrics for the last days days, oldest first,
// with values converted to the units configured in settings.
func (s *HistoryService) GetDaily(ctx context.Context, days int, settings domain.Settings) ([]DayPoint, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, errors.New("days must be > 0")
	}
	if days > 366 {
		days = 366
	}

	today := domain.StartOfDay(s.now())
	points := make([]DayPoint, 0, days)

	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)

		day, err := s.days.Day(ctx, d)
		if err != nil {
			return nil, err
		}

		p := DayPoint{Day: domain.DayKey(d), Values: map[domain.QuantityType]*ValuePoint{}}
		if day != nil {
			p.Plan = day.Plan
			if day.Biometrics != nil {
				p.Values = DisplayValues(*day.Biometrics, settings)
			}
		}
		points = append(points, p)
	}
	return points, nil
}

// GetDay returns the stored record for date, or domain.ErrNotFound.
func (s *HistoryService) GetDay(ctx context.Context, date time.Time) (*domain.Day, error) {
	day, err := s.days.Day(ctx, date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, domain.DayKey(date))
	}
	return day, nil
}

// DisplayValues converts every present measurement of b to the units
// configured in settings.
func DisplayValues(b domain.Biometrics, settings domain.Settings) map[domain.QuantityType]*ValuePoint {
	out := make(map[domain.QuantityType]*ValuePoint, len(domain.QuantityTypes))
	for _, q := range domain.QuantityTypes {
		m := b.Get(q)
		if m.Value == nil {
			continue
		}
		unit := settings.UnitFor(q)
		out[q] = &ValuePoint{
			Value:  domain.Convert(q, *m.Value, domain.StorageUnit(q), unit),
			Unit:   unit,
			Source: m.Source,
		}
	}
	return out
}

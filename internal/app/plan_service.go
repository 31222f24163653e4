package app

import (
	"context"
	"fmt"
	"time"

	"biometrics/internal/domain"

	"github.com/moby/locker"
	"github.com/sirupsen/logrus"
)

// PlanService recomputes and persists plans derived from biometrics.
type PlanService struct {
	days     domain.DayRepository
	events   domain.Publisher
	locks    *locker.Locker
	now      func() time.Time
	log      *logrus.Entry
	observer Observer
}

// NewPlanService creates a PlanService backed by the given repository and bus.
func NewPlanService(days domain.DayRepository, events domain.Publisher, opts ...Option) *PlanService {
	o := buildOptions(opts)
	return &PlanService{
		days:     days,
		events:   events,
		locks:    o.locks,
		now:      o.now,
		log:      o.log.WithField("component", "plans"),
		observer: o.observer,
	}
}

// lockDay serializes work on one calendar day and returns the unlock func.
func (s *PlanService) lockDay(date time.Time) func() {
	key := domain.DayKey(date)
	s.locks.Lock(key)
	return func() { _ = s.locks.Unlock(key) }
}

// UpdatePlans recomputes every plan from today onward that depends on
// biometrics, persisting and announcing only the plans that changed.
func (s *PlanService) UpdatePlans(ctx context.Context, b domain.Biometrics) error {
	days, err := s.days.DaysWithPlans(ctx, domain.StartOfDay(s.now()))
	if err != nil {
		return err
	}
	for _, day := range days {
		if day.Plan == nil || !day.Plan.UsesBiometrics() {
			continue
		}
		if err := s.updateDay(ctx, day.Date, *day.Plan, b); err != nil {
			return fmt.Errorf("update plan %s: %w", day.Key(), err)
		}
	}
	return nil
}

func (s *PlanService) updateDay(ctx context.Context, date time.Time, plan domain.Plan, b domain.Biometrics) error {
	unlock := s.lockDay(date)
	defer unlock()

	updated := plan.Updated(b)
	if updated.Equal(plan) {
		return nil
	}
	if err := s.days.SetPlan(ctx, updated, date); err != nil {
		return err
	}
	s.publishPlan(date, updated)
	return nil
}

// AssignPlan stores p for date after computing its targets. Today and future
// days are computed from the current context; past days from their stored
// biometrics.
func (s *PlanService) AssignPlan(ctx context.Context, date time.Time, p domain.Plan, cur *CurrentBiometrics) (domain.Plan, error) {
	unlock := s.lockDay(date)
	defer unlock()

	if !date.Before(domain.StartOfDay(s.now())) {
		p = p.Updated(cur.Snapshot())
	} else {
		b, err := s.days.Biometrics(ctx, date)
		if err != nil {
			return p, err
		}
		if b != nil {
			p = p.Updated(*b)
		}
	}

	if err := s.days.SetPlan(ctx, p, date); err != nil {
		return p, err
	}
	s.publishPlan(date, p)
	return p, nil
}

func (s *PlanService) publishPlan(date time.Time, p domain.Plan) {
	s.events.Publish(domain.PlanUpdated{Date: domain.StartOfDay(date), Plan: p})
	s.observer.PlanUpdated()
	s.log.WithField("day", domain.DayKey(date)).Debug("plan updated")
}

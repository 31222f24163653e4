package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"biometrics/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Reconciler keeps persisted biometrics and their dependent plans in step
// with the health provider: today eagerly, qualifying past days only when
// their values actually changed.
type Reconciler struct {
	days     domain.DayRepository
	health   domain.HealthProvider
	events   domain.Publisher
	plans    *PlanService
	now      func() time.Time
	log      *logrus.Entry
	observer Observer
	flight   singleflight.Group
}

// NewReconciler creates a Reconciler. The plan service's per-day locks are
// shared so a day is never reconciled and replanned concurrently.
func NewReconciler(days domain.DayRepository, health domain.HealthProvider, events domain.Publisher, plans *PlanService, opts ...Option) *Reconciler {
	o := buildOptions(opts)
	return &Reconciler{
		days:     days,
		health:   health,
		events:   events,
		plans:    plans,
		now:      o.now,
		log:      o.log.WithField("component", "reconciler"),
		observer: o.observer,
	}
}

// Sync reconciles the current day and then past days. Concurrent callers
// share a single in-flight run, which uses the first caller's cur. The run
// is detached from caller cancellation; a cancelled caller stops waiting
// and gets ctx.Err() while the run completes for the others.
func (r *Reconciler) Sync(ctx context.Context, cur *CurrentBiometrics) error {
	ch := r.flight.DoChan("sync", func() (any, error) {
		runCtx := context.WithoutCancel(ctx)
		start := time.Now()
		err := r.ReconcileCurrent(runCtx, cur)
		if err == nil {
			err = r.ReconcilePast(runCtx)
		}
		r.observer.SyncCompleted(time.Since(start), err)
		if err != nil {
			r.log.WithError(err).Error("sync failed")
		} else {
			r.log.WithField("took", time.Since(start)).Info("sync finished")
		}
		return nil, err
	})

	select {
	case res := <-ch:
		if res.Shared {
			r.log.Debug("joined in-flight sync")
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReconcileCurrent refreshes the current context for now, persists it against
// today and announces it. It always writes and notifies, even when nothing
// changed, then recomputes dependent plans.
func (r *Reconciler) ReconcileCurrent(ctx context.Context, cur *CurrentBiometrics) error {
	now := r.now()

	b, err := r.withDay(now, func() (domain.Biometrics, error) {
		b := cur.Snapshot()
		b.Date = now
		b, err := FillHealthValues(ctx, r.health, b, domain.QueryLatest, now)
		if err != nil {
			return b, err
		}
		return b, r.saveCurrent(ctx, cur, b, now)
	})
	if err != nil {
		return fmt.Errorf("reconcile current: %w", err)
	}
	return r.plans.UpdatePlans(ctx, b)
}

// UpdateCurrent records a manual edit of one quantity in the current context
// and persists it the same way ReconcileCurrent does.
func (r *Reconciler) UpdateCurrent(ctx context.Context, cur *CurrentBiometrics, q domain.QuantityType, m domain.Measurement) (domain.Biometrics, error) {
	now := r.now()

	b, err := r.withDay(now, func() (domain.Biometrics, error) {
		b := cur.Snapshot().With(q, m)
		b.Date = now
		return b, r.saveCurrent(ctx, cur, b, now)
	})
	if err != nil {
		return b, err
	}
	return b, r.plans.UpdatePlans(ctx, b)
}

func (r *Reconciler) withDay(date time.Time, fn func() (domain.Biometrics, error)) (domain.Biometrics, error) {
	unlock := r.plans.lockDay(date)
	defer unlock()
	return fn()
}

func (r *Reconciler) saveCurrent(ctx context.Context, cur *CurrentBiometrics, b domain.Biometrics, now time.Time) error {
	if err := r.days.SetBiometrics(ctx, b, now); err != nil {
		return err
	}
	cur.Replace(b)
	r.events.Publish(domain.BiometricsSaved{IsCurrent: true, Biometrics: b.Clone()})
	return nil
}

// ReconcilePast refreshes every qualifying past day, most recent first. The
// first failure aborts the batch; days already written stay committed.
// Cancellation is honoured between days.
func (r *Reconciler) ReconcilePast(ctx context.Context) error {
	days, err := r.PastDaysUsingHealth(ctx)
	if err != nil {
		return fmt.Errorf("reconcile past: %w", err)
	}
	r.log.WithField("days", len(days)).Debug("reconciling past days")

	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome, err := r.reconcileDay(ctx, day)
		r.observer.DayReconciled(outcome)
		if err != nil {
			return fmt.Errorf("reconcile %s: %w", day.Key(), err)
		}
	}
	return nil
}

// PastDaysUsingHealth returns the days before today whose biometrics use
// health values and whose plan depends on one of them, most recent first.
func (r *Reconciler) PastDaysUsingHealth(ctx context.Context) ([]domain.Day, error) {
	all, err := r.days.DaysWithBiometrics(ctx)
	if err != nil {
		return nil, err
	}
	today := domain.StartOfDay(r.now())

	var out []domain.Day
	for _, day := range all {
		if isPastCandidate(day, today) {
			out = append(out, day)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Day) int {
		return b.Date.Compare(a.Date)
	})
	return out, nil
}

func isPastCandidate(day domain.Day, today time.Time) bool {
	if !domain.StartOfDay(day.Date).Before(today) {
		return false
	}
	if day.Biometrics == nil || !day.Biometrics.UsesHealth() {
		return false
	}
	return day.Plan != nil && day.Plan.UsesHealthValues(*day.Biometrics)
}

// reconcileDay reloads the day under its lock so edits made since the
// candidate query are not overwritten.
func (r *Reconciler) reconcileDay(ctx context.Context, candidate domain.Day) (Outcome, error) {
	unlock := r.plans.lockDay(candidate.Date)
	defer unlock()

	log := r.log.WithField("day", candidate.Key())
	day, err := r.days.Day(ctx, candidate.Date)
	if err != nil {
		return OutcomeFailed, err
	}
	if day == nil || !isPastCandidate(*day, domain.StartOfDay(r.now())) {
		log.Debug("day no longer qualifies")
		return OutcomeSkipped, nil
	}
	date := domain.StartOfDay(candidate.Date)
	original := *day.Biometrics

	refreshed := original.Clone()
	refreshed.Date = date
	refreshed, err = FillHealthValues(ctx, r.health, refreshed, domain.QueryDayAverage, date)
	if err != nil {
		return OutcomeFailed, err
	}

	// A snapshot dated anywhere on its own day needs no date correction.
	if refreshed.Matches(original) && domain.DayKey(original.Date) == candidate.Key() {
		log.Debug("biometrics unchanged")
		return OutcomeUnchanged, nil
	}

	if err := r.days.SetBiometrics(ctx, refreshed, date); err != nil {
		return OutcomeFailed, err
	}
	r.events.Publish(domain.BiometricsSaved{IsCurrent: false, Biometrics: refreshed.Clone()})
	log.Debug("biometrics updated")

	plan := *day.Plan
	updated := plan.Updated(refreshed)
	if updated.Equal(plan) {
		return OutcomeUpdated, nil
	}
	if err := r.days.SetPlan(ctx, updated, date); err != nil {
		return OutcomeFailed, err
	}
	r.plans.publishPlan(date, updated)
	return OutcomeUpdated, nil
}

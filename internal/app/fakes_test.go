package app_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"biometrics/internal/app"
	"biometrics/internal/domain"
)

// fakeDays is a map-backed day repository that logs every write.
type fakeDays struct {
	mu   sync.Mutex
	days map[string]domain.Day
	ops  []string

	setBiometricsErr error
	setPlanErr       error
	queryErr         error
}

func newFakeDays(days ...domain.Day) *fakeDays {
	f := &fakeDays{days: map[string]domain.Day{}}
	for _, d := range days {
		f.days[d.Key()] = d
	}
	return f
}

func (f *fakeDays) Biometrics(_ context.Context, date time.Time) (*domain.Biometrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.days[domain.DayKey(date)]; ok && d.Biometrics != nil {
		b := d.Biometrics.Clone()
		return &b, nil
	}
	return nil, nil
}

func (f *fakeDays) SetBiometrics(_ context.Context, b domain.Biometrics, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := domain.DayKey(date)
	f.ops = append(f.ops, "setBiometrics "+key)
	if f.setBiometricsErr != nil {
		return f.setBiometricsErr
	}
	d := f.days[key]
	d.Date = domain.StartOfDay(date)
	b = b.Clone()
	d.Biometrics = &b
	f.days[key] = d
	return nil
}

func (f *fakeDays) Plan(_ context.Context, date time.Time) (*domain.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.days[domain.DayKey(date)]; ok && d.Plan != nil {
		p := *d.Plan
		return &p, nil
	}
	return nil, nil
}

func (f *fakeDays) SetPlan(_ context.Context, p domain.Plan, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := domain.DayKey(date)
	f.ops = append(f.ops, "setPlan "+key)
	if f.setPlanErr != nil {
		return f.setPlanErr
	}
	d := f.days[key]
	d.Date = domain.StartOfDay(date)
	d.Plan = &p
	f.days[key] = d
	return nil
}

func (f *fakeDays) Day(_ context.Context, date time.Time) (*domain.Day, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.days[domain.DayKey(date)]; ok {
		return &d, nil
	}
	return nil, nil
}

func (f *fakeDays) DaysWithBiometrics(_ context.Context) ([]domain.Day, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []domain.Day
	for _, d := range f.days {
		if d.Biometrics != nil {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeDays) DaysWithPlans(_ context.Context, from time.Time) ([]domain.Day, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Day
	for _, d := range f.days {
		if d.Plan != nil && !d.Date.Before(from) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeDays) get(key string) domain.Day {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.days[key]
}

func (f *fakeDays) writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

// fakeHealth answers from a table keyed by quantity and day, logging queries.
type fakeHealth struct {
	mu       sync.Mutex
	values   map[string]float64
	calls    []string
	sampleFn func(ctx context.Context, q domain.QuantityType, mode domain.QueryMode, at time.Time) (float64, bool, error)
}

func newFakeHealth() *fakeHealth {
	return &fakeHealth{values: map[string]float64{}}
}

func (h *fakeHealth) set(q domain.QuantityType, day string, v float64) {
	h.values[fmt.Sprintf("%s %s", q, day)] = v
}

func (h *fakeHealth) Sample(ctx context.Context, q domain.QuantityType, mode domain.QueryMode, at time.Time) (float64, bool, error) {
	h.mu.Lock()
	h.calls = append(h.calls, fmt.Sprintf("%s %s %s", mode, q, domain.DayKey(at)))
	fn := h.sampleFn
	v, ok := h.values[fmt.Sprintf("%s %s", q, domain.DayKey(at))]
	h.mu.Unlock()
	if fn != nil {
		return fn(ctx, q, mode, at)
	}
	return v, ok, nil
}

func (h *fakeHealth) queries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

// recorder is a Publisher that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Publish(e domain.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) all() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

type fakeObserver struct {
	mu       sync.Mutex
	outcomes []app.Outcome
	plans    int
	syncs    []error
}

func (o *fakeObserver) DayReconciled(out app.Outcome) {
	o.mu.Lock()
	o.outcomes = append(o.outcomes, out)
	o.mu.Unlock()
}

func (o *fakeObserver) PlanUpdated() {
	o.mu.Lock()
	o.plans++
	o.mu.Unlock()
}

func (o *fakeObserver) SyncCompleted(_ time.Duration, err error) {
	o.mu.Lock()
	o.syncs = append(o.syncs, err)
	o.mu.Unlock()
}

// fixture wires a reconciler around the fakes with a fixed clock.
type fixture struct {
	now      time.Time
	days     *fakeDays
	health   *fakeHealth
	events   *recorder
	observer *fakeObserver
	plans    *app.PlanService
	rec      *app.Reconciler
}

func newFixture(days ...domain.Day) *fixture {
	f := &fixture{
		now:      time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local),
		days:     newFakeDays(days...),
		health:   newFakeHealth(),
		events:   &recorder{},
		observer: &fakeObserver{},
	}
	clock := app.WithClock(func() time.Time { return f.now })
	f.plans = app.NewPlanService(f.days, f.events, clock, app.WithObserver(f.observer))
	f.rec = app.NewReconciler(f.days, f.health, f.events, f.plans, clock, app.WithObserver(f.observer))
	return f
}

func day(key string) time.Time {
	d, err := domain.ParseDay(key)
	if err != nil {
		panic(err)
	}
	return d
}

func proteinPlan() *domain.Plan {
	return &domain.Plan{
		Name:          "protein",
		EnergyBasis:   domain.EnergyFixed,
		EnergyKcal:    2000,
		ProteinBasis:  domain.ProteinWeight,
		ProteinPerKg:  2,
		EnergyTarget:  2000,
		ProteinTarget: 160,
	}
}

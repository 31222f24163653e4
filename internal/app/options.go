package app

import (
	"time"

	"github.com/moby/locker"
	"github.com/sirupsen/logrus"
)

// Outcome labels the result of reconciling one day.
type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFailed    Outcome = "failed"
	// OutcomeSkipped is a day that stopped qualifying before its lock was taken.
	OutcomeSkipped Outcome = "skipped"
)

// Observer receives reconciliation progress, e.g. for metrics.
type Observer interface {
	DayReconciled(o Outcome)
	PlanUpdated()
	SyncCompleted(d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) DayReconciled(Outcome)              {}
func (nopObserver) PlanUpdated()                       {}
func (nopObserver) SyncCompleted(time.Duration, error) {}

type options struct {
	now      func() time.Time
	log      *logrus.Entry
	observer Observer
	locks    *locker.Locker
}

// Option configures the services in this package.
type Option func(*options)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the log entry services log through.
func WithLogger(l *logrus.Entry) Option {
	return func(o *options) { o.log = l }
}

// WithObserver registers an observer for reconciliation progress.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithLocker shares a per-day locker between services.
func WithLocker(l *locker.Locker) Option {
	return func(o *options) { o.locks = l }
}

func buildOptions(opts []Option) options {
	o := options{
		now:      time.Now,
		log:      logrus.NewEntry(logrus.StandardLogger()),
		observer: nopObserver{},
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.locks == nil {
		o.locks = locker.New()
	}
	return o
}

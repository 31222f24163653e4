package app

import (
	"context"
	"errors"
	"sync"

	"biometrics/internal/domain"

	"github.com/sirupsen/logrus"
)

// SettingsLoader fetches the stored settings.
type SettingsLoader func(ctx context.Context) (domain.Settings, error)

// SettingsSaver persists settings.
type SettingsSaver func(ctx context.Context, s domain.Settings) error

// SettingsStore holds the live user settings. The loader runs once in the
// background at construction; every change is saved asynchronously. Saves
// are sequenced so the most recent value is always the last one persisted.
type SettingsStore struct {
	ctx  context.Context
	load SettingsLoader
	save SettingsSaver
	log  *logrus.Entry

	mu       sync.RWMutex
	settings domain.Settings
	version  uint64

	loaded  chan struct{}
	loadErr error

	saveMu sync.Mutex
	saved  uint64
	wg     sync.WaitGroup
	errMu  sync.Mutex
	errs   []error
}

// NewSettingsStore starts with the default settings and kicks off load. A nil
// loader or saver disables that side. ctx bounds the background calls.
func NewSettingsStore(ctx context.Context, load SettingsLoader, save SettingsSaver, opts ...Option) *SettingsStore {
	o := buildOptions(opts)
	s := &SettingsStore{
		ctx:      ctx,
		load:     load,
		save:     save,
		log:      o.log.WithField("component", "settings"),
		settings: domain.DefaultSettings(),
		loaded:   make(chan struct{}),
	}
	if load == nil {
		close(s.loaded)
		return s
	}
	go s.fetch()
	return s
}

func (s *SettingsStore) fetch() {
	defer close(s.loaded)
	v, err := s.load(s.ctx)
	if err != nil {
		s.loadErr = err
		s.log.WithError(err).Warn("load settings failed, keeping defaults")
		return
	}
	s.mu.Lock()
	s.settings = v.Clone()
	s.version++
	s.mu.Unlock()
}

// Wait blocks until the initial load resolved and returns its error.
func (s *SettingsStore) Wait(ctx context.Context) error {
	select {
	case <-s.loaded:
		return s.loadErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Settings returns a copy of the live settings.
func (s *SettingsStore) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

// Set replaces the live settings and saves them when they changed.
func (s *SettingsStore) Set(next domain.Settings) {
	next = next.Clone()

	s.mu.Lock()
	prev := s.settings
	s.settings = next
	if prev.Equal(next) {
		s.mu.Unlock()
		return
	}
	s.version++
	v := s.version
	s.mu.Unlock()

	if s.save == nil {
		return
	}
	s.wg.Add(1)
	go s.persist(v, next)
}

// Update applies fn to a copy of the live settings and stores the result.
func (s *SettingsStore) Update(fn func(*domain.Settings)) {
	next := s.Settings()
	fn(&next)
	s.Set(next)
}

func (s *SettingsStore) persist(v uint64, value domain.Settings) {
	defer s.wg.Done()

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	stale := v < s.version
	s.mu.RUnlock()
	if stale || v <= s.saved {
		return
	}

	if err := s.save(s.ctx, value); err != nil {
		s.log.WithError(err).Error("save settings failed")
		s.errMu.Lock()
		s.errs = append(s.errs, err)
		s.errMu.Unlock()
		return
	}
	s.saved = v
}

// Flush waits for in-flight saves and returns their errors, if any.
func (s *SettingsStore) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.errMu.Lock()
	defer s.errMu.Unlock()
	err := errors.Join(s.errs...)
	s.errs = nil
	return err
}

func (s *SettingsStore) EnergyUnit() string { return s.Settings().EnergyUnit }

func (s *SettingsStore) SetEnergyUnit(u string) {
	s.Update(func(st *domain.Settings) { st.EnergyUnit = u })
}

func (s *SettingsStore) HeightUnit() string { return s.Settings().HeightUnit }

func (s *SettingsStore) SetHeightUnit(u string) {
	s.Update(func(st *domain.Settings) { st.HeightUnit = u })
}

func (s *SettingsStore) BodyMassUnit() string { return s.Settings().BodyMassUnit }

func (s *SettingsStore) SetBodyMassUnit(u string) {
	s.Update(func(st *domain.Settings) { st.BodyMassUnit = u })
}

func (s *SettingsStore) MetricType() domain.GoalMetricType { return s.Settings().MetricType }

func (s *SettingsStore) SetMetricType(m domain.GoalMetricType) {
	s.Update(func(st *domain.Settings) { st.MetricType = m })
}

func (s *SettingsStore) ExpandedMicroGroups() []string { return s.Settings().ExpandedMicroGroups }

func (s *SettingsStore) SetExpandedMicroGroups(groups []string) {
	s.Update(func(st *domain.Settings) { st.ExpandedMicroGroups = groups })
}

// UnitFor returns the display unit configured for q.
func (s *SettingsStore) UnitFor(q domain.QuantityType) string {
	return s.Settings().UnitFor(q)
}

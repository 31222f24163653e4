package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"biometrics/internal/adapter/events"
	"biometrics/internal/adapter/healthapi"
	adapthttp "biometrics/internal/adapter/http"
	"biometrics/internal/adapter/memory"
	"biometrics/internal/adapter/postgres"
	"biometrics/internal/adapter/sqlite"
	"biometrics/internal/app"
	"biometrics/internal/config"
	"biometrics/internal/domain"
	"biometrics/internal/metrics"

	"github.com/moby/locker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

type repository interface {
	domain.DayRepository
	domain.SettingsRepository
}

// application holds the wired services shared by serve and sync.
type application struct {
	cfg      config.Config
	log      *logrus.Entry
	registry *prometheus.Registry
	bus      *events.Events
	current  *app.CurrentBiometrics
	rec      *app.Reconciler
	plans    *app.PlanService
	history  *app.HistoryService
	settings *app.SettingsStore
	measure  *app.MeasurementService
	samples  *app.SampleService
	closers  []func() error
}

func (a *application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func openRepository(cfg config.Config) (repository, func() error, error) {
	switch cfg.Store {
	case config.StorePostgres:
		s, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("db open: %w", err)
		}
		return s, s.Close, nil
	case config.StoreSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("db open: %w", err)
		}
		return s, s.Close, nil
	}
	return memory.New(), func() error { return nil }, nil
}

func newApplication(ctx context.Context, cfg config.Config) (*application, error) {
	log := logrus.NewEntry(logrus.StandardLogger())
	a := &application{cfg: cfg, log: log, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeRepo)

	var health domain.HealthProvider
	if cfg.HealthAPIURL != "" {
		client, err := healthapi.New(ctx, healthapi.Config{
			BaseURL:      cfg.HealthAPIURL,
			TokenURL:     cfg.HealthTokenURL,
			ClientID:     cfg.HealthClientID,
			ClientSecret: cfg.HealthClientSecret,
		})
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		health = client
	} else {
		samples := memory.NewHealthSamples()
		a.samples = app.NewSampleService(samples)
		health = samples
		log.Warn("HEALTH_API_URL not set, using in-memory health samples")
	}

	a.bus = events.New()
	a.closers = append(a.closers, func() error { a.bus.Close(); return nil })

	opts := []app.Option{
		app.WithLogger(log),
		app.WithObserver(metrics.New(a.registry)),
		app.WithLocker(locker.New()),
	}
	a.plans = app.NewPlanService(repo, a.bus, opts...)
	a.rec = app.NewReconciler(repo, health, a.bus, a.plans, opts...)
	a.history = app.NewHistoryService(repo, opts...)

	// Saves outlive the command context so a shutdown still flushes them.
	a.settings = app.NewSettingsStore(context.WithoutCancel(ctx), repo.LoadSettings, repo.SaveSettings, opts...)
	if err := a.settings.Wait(ctx); err != nil {
		log.WithError(err).Warn("using default settings")
	}

	a.current, err = app.LoadCurrentBiometrics(ctx, repo, time.Now())
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("load current biometrics: %w", err)
	}
	a.measure = app.NewMeasurementService(a.rec, a.current, a.settings)
	return a, nil
}

func (a *application) authService(ctx context.Context) (*app.AuthService, error) {
	var verifier app.TokenVerifier
	if a.cfg.OIDCIssuer != "" {
		v, err := adapthttp.NewOIDCVerifier(ctx, a.cfg.OIDCIssuer, a.cfg.OIDCClientID)
		if err != nil {
			return nil, err
		}
		verifier = v
	}
	return app.NewAuthService(a.cfg.APIKeyHash, verifier), nil
}

// Package sqlstore implements the day and settings repositories over
// database/sql. The postgres and sqlite adapters share it and differ only
// in their Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"biometrics/internal/domain"
)

// Dialect captures the SQL differences between drivers.
type Dialect struct {
	Name string
	// Migrations run in order on every Open.
	Migrations []string
	// Rebind rewrites $N placeholders when the driver needs another style.
	Rebind func(query string) string
}

// Postgres is the dialect for lib/pq.
var Postgres = Dialect{
	Name: "postgres",
	Migrations: []string{
		"CREATE TABLE IF NOT EXISTS days (day TEXT PRIMARY KEY, biometrics JSONB, plan JSONB, updated_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_days_biometrics ON days(day) WHERE biometrics IS NOT NULL;",
		"CREATE INDEX IF NOT EXISTS idx_days_plan ON days(day) WHERE plan IS NOT NULL;",
		"CREATE TABLE IF NOT EXISTS settings (id INTEGER PRIMARY KEY CHECK (id = 1), data JSONB NOT NULL, updated_at TIMESTAMPTZ NOT NULL);",
	},
}

// SQLite is the dialect for modernc.org/sqlite.
var SQLite = Dialect{
	Name: "sqlite",
	Migrations: []string{
		"PRAGMA journal_mode=WAL;",
		"CREATE TABLE IF NOT EXISTS days (day TEXT PRIMARY KEY, biometrics TEXT, plan TEXT, updated_at TIMESTAMP NOT NULL);",
		"CREATE TABLE IF NOT EXISTS settings (id INTEGER PRIMARY KEY CHECK (id = 1), data TEXT NOT NULL, updated_at TIMESTAMP NOT NULL);",
	},
	Rebind: func(q string) string { return strings.ReplaceAll(q, "$", "?") },
}

// Store implements domain.DayRepository and domain.SettingsRepository.
type Store struct {
	sql     *sql.DB
	dialect Dialect
}

var _ domain.DayRepository = (*Store)(nil)
var _ domain.SettingsRepository = (*Store)(nil)

// New wraps db. Call Migrate before use.
func New(db *sql.DB, d Dialect) *Store {
	return &Store{sql: db, dialect: d}
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.sql }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.sql.Close()
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.Migrations {
		if _, err := s.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", s.dialect.Name, err)
		}
	}
	return nil
}

func (s *Store) q(query string) string {
	if s.dialect.Rebind == nil {
		return query
	}
	return s.dialect.Rebind(query)
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
}

func serialization(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrSerialization, op, err)
}

// --- DayRepository ---

// Biometrics returns the biometrics stored for the day of date.
func (s *Store) Biometrics(ctx context.Context, date time.Time) (*domain.Biometrics, error) {
	var raw []byte
	err := s.sql.QueryRowContext(ctx,
		s.q("SELECT biometrics FROM days WHERE day=$1;"), domain.DayKey(date),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("get biometrics", err)
	}
	return decodeBiometrics(raw)
}

// SetBiometrics upserts b into the day of date.
func (s *Store) SetBiometrics(ctx context.Context, b domain.Biometrics, date time.Time) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return serialization("encode biometrics", err)
	}
	_, err = s.sql.ExecContext(ctx,
		s.q("INSERT INTO days(day, biometrics, updated_at) VALUES($1, $2, $3) "+
			"ON CONFLICT(day) DO UPDATE SET biometrics=excluded.biometrics, updated_at=excluded.updated_at;"),
		domain.DayKey(date), string(raw), time.Now().UTC(),
	)
	if err != nil {
		return persistence("set biometrics", err)
	}
	return nil
}

// Plan returns the plan stored for the day of date.
func (s *Store) Plan(ctx context.Context, date time.Time) (*domain.Plan, error) {
	var raw []byte
	err := s.sql.QueryRowContext(ctx,
		s.q("SELECT plan FROM days WHERE day=$1;"), domain.DayKey(date),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("get plan", err)
	}
	return decodePlan(raw)
}

// SetPlan upserts p into the day of date.
func (s *Store) SetPlan(ctx context.Context, p domain.Plan, date time.Time) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return serialization("encode plan", err)
	}
	_, err = s.sql.ExecContext(ctx,
		s.q("INSERT INTO days(day, plan, updated_at) VALUES($1, $2, $3) "+
			"ON CONFLICT(day) DO UPDATE SET plan=excluded.plan, updated_at=excluded.updated_at;"),
		domain.DayKey(date), string(raw), time.Now().UTC(),
	)
	if err != nil {
		return persistence("set plan", err)
	}
	return nil
}

// Day returns the day of date, or nil if it has no row.
func (s *Store) Day(ctx context.Context, date time.Time) (*domain.Day, error) {
	row := s.sql.QueryRowContext(ctx,
		s.q("SELECT day, biometrics, plan FROM days WHERE day=$1;"), domain.DayKey(date))
	d, err := scanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DaysWithBiometrics lists days holding biometrics, most recent first.
func (s *Store) DaysWithBiometrics(ctx context.Context) ([]domain.Day, error) {
	return s.listDays(ctx,
		"SELECT day, biometrics, plan FROM days WHERE biometrics IS NOT NULL ORDER BY day DESC;")
}

// DaysWithPlans lists days on or after from holding a plan, oldest first.
func (s *Store) DaysWithPlans(ctx context.Context, from time.Time) ([]domain.Day, error) {
	return s.listDays(ctx,
		"SELECT day, biometrics, plan FROM days WHERE plan IS NOT NULL AND day >= $1 ORDER BY day ASC;",
		domain.DayKey(from))
}

func (s *Store) listDays(ctx context.Context, query string, args ...any) ([]domain.Day, error) {
	rows, err := s.sql.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, persistence("list days", err)
	}
	defer rows.Close()

	var out []domain.Day
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list days", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDay(row scanner) (domain.Day, error) {
	var (
		key       string
		bio, plan []byte
	)
	if err := row.Scan(&key, &bio, &plan); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Day{}, err
		}
		return domain.Day{}, persistence("scan day", err)
	}
	date, err := domain.ParseDay(key)
	if err != nil {
		return domain.Day{}, serialization("parse day "+key, err)
	}
	d := domain.Day{Date: date}
	if d.Biometrics, err = decodeBiometrics(bio); err != nil {
		return domain.Day{}, err
	}
	if d.Plan, err = decodePlan(plan); err != nil {
		return domain.Day{}, err
	}
	return d, nil
}

func decodeBiometrics(raw []byte) (*domain.Biometrics, error) {
	if raw == nil {
		return nil, nil
	}
	var b domain.Biometrics
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, serialization("decode biometrics", err)
	}
	b.Date = b.Date.In(time.Local)
	return &b, nil
}

func decodePlan(raw []byte) (*domain.Plan, error) {
	if raw == nil {
		return nil, nil
	}
	var p domain.Plan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, serialization("decode plan", err)
	}
	return &p, nil
}

// --- SettingsRepository ---

// LoadSettings returns the stored settings, or the defaults if none were saved.
func (s *Store) LoadSettings(ctx context.Context) (domain.Settings, error) {
	var raw []byte
	err := s.sql.QueryRowContext(ctx, s.q("SELECT data FROM settings WHERE id=1;")).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, persistence("load settings", err)
	}
	st := domain.DefaultSettings()
	if err := json.Unmarshal(raw, &st); err != nil {
		return domain.Settings{}, serialization("decode settings", err)
	}
	return st, nil
}

// SaveSettings replaces the stored settings.
func (s *Store) SaveSettings(ctx context.Context, st domain.Settings) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return serialization("encode settings", err)
	}
	_, err = s.sql.ExecContext(ctx,
		s.q("INSERT INTO settings(id, data, updated_at) VALUES(1, $1, $2) "+
			"ON CONFLICT(id) DO UPDATE SET data=excluded.data, updated_at=excluded.updated_at;"),
		string(raw), time.Now().UTC(),
	)
	if err != nil {
		return persistence("save settings", err)
	}
	return nil
}

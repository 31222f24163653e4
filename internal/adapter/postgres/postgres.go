// Package postgres opens the PostgreSQL-backed store.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"biometrics/internal/adapter/sqlstore"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*sqlstore.Store, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	store := sqlstore.New(s, sqlstore.Postgres)
	if err := store.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return store, nil
}

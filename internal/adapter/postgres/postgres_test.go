package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"biometrics/internal/domain"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/skip"
)

// TestOpen runs against a live server when BIOMETRICS_TEST_DATABASE_URL is set.
func TestOpen(t *testing.T) {
	dsn := os.Getenv("BIOMETRICS_TEST_DATABASE_URL")
	skip.If(t, dsn == "", "BIOMETRICS_TEST_DATABASE_URL not set")

	s, err := Open(dsn)
	assert.NilError(t, err)
	defer s.Close()

	ctx := context.Background()
	day := time.Date(1999, 1, 2, 0, 0, 0, 0, time.Local)
	t.Cleanup(func() {
		_, _ = s.DB().ExecContext(ctx, "DELETE FROM days WHERE day=$1;", domain.DayKey(day))
	})

	p := domain.Plan{Name: "it", EnergyBasis: domain.EnergyFixed, EnergyKcal: 1500, EnergyTarget: 1500}
	assert.NilError(t, s.SetPlan(ctx, p, day))
	got, err := s.Plan(ctx, day)
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(*got, p))
}

func TestOpenInvalidDSN(t *testing.T) {
	_, err := Open("postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	assert.Check(t, err != nil)
}

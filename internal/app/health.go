package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"biometrics/internal/domain"
)

// FillHealthValues refreshes every health-sourced measurement of b from the
// provider. User-entered measurements are never touched and a quantity the
// provider has no sample for keeps its previous value. On error b is
// returned unchanged.
func FillHealthValues(ctx context.Context, p domain.HealthProvider, b domain.Biometrics, mode domain.QueryMode, at time.Time) (domain.Biometrics, error) {
	out := b.Clone()
	for _, q := range b.HealthTypes() {
		v, ok, err := p.Sample(ctx, q, mode, at)
		if err != nil {
			if errors.Is(err, domain.ErrProviderQuery) {
				return b, fmt.Errorf("sample %s: %w", q, err)
			}
			return b, fmt.Errorf("%w: sample %s: %w", domain.ErrProviderQuery, q, err)
		}
		if !ok {
			continue
		}
		out = out.With(q, out.Get(q).WithValue(v))
	}
	return out, nil
}

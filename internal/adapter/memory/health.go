package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"biometrics/internal/domain"
)

// Sample is one recorded health measurement in storage units.
type Sample struct {
	Type  domain.QuantityType `json:"type"`
	Value float64             `json:"value"`
	At    time.Time           `json:"at"`
}

// HealthSamples is an in-memory health provider answering from recorded samples.
type HealthSamples struct {
	mu      sync.Mutex
	samples map[domain.QuantityType][]Sample
}

// NewHealthSamples creates an empty sample store.
func NewHealthSamples() *HealthSamples {
	return &HealthSamples{samples: make(map[domain.QuantityType][]Sample)}
}

var _ domain.HealthProvider = (*HealthSamples)(nil)

// Add records a sample, keeping each type's samples ordered by time.
func (h *HealthSamples) Add(q domain.QuantityType, value float64, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := append(h.samples[q], Sample{Type: q, Value: value, At: at})
	sort.SliceStable(list, func(i, j int) bool { return list[i].At.Before(list[j].At) })
	h.samples[q] = list
}

// Sample answers QueryLatest with the most recent sample at or before at,
// and QueryDayAverage with the mean of the samples on at's calendar day.
func (h *HealthSamples) Sample(ctx context.Context, q domain.QuantityType, mode domain.QueryMode, at time.Time) (float64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.samples[q]
	switch mode {
	case domain.QueryDayAverage:
		start := domain.StartOfDay(at)
		end := start.AddDate(0, 0, 1)
		var sum float64
		var n int
		for _, s := range list {
			if !s.At.Before(start) && s.At.Before(end) {
				sum += s.Value
				n++
			}
		}
		if n == 0 {
			return 0, false, nil
		}
		return sum / float64(n), true, nil
	default:
		for i := len(list) - 1; i >= 0; i-- {
			if !list[i].At.After(at) {
				return list[i].Value, true, nil
			}
		}
		return 0, false, nil
	}
}

package geocode

import (
	"context"
	"fmt"
	"geodistance-service/internal/domain"
	"sync/atomic"
)

// MockGeocoder answers from a fixed address table. Used by tests and offline runs.
type MockGeocoder struct {
	name  string
	m     map[string]domain.Coordinates
	calls atomic.Int64
}

func NewMockGeocoder(name string, known map[string]domain.Coordinates) *MockGeocoder {
	m := make(map[string]domain.Coordinates, len(known))
	for addr, c := range known {
		m[normalize(addr)] = c
	}
	return &MockGeocoder{name: name, m: m}
}

func (p *MockGeocoder) Name() string { return p.name }

func (p *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	p.calls.Add(1)

	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, err
	}

	c, ok := p.m[normalize(address)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("%s: %q: %w", p.name, address, domain.ErrAddressNotFound)
	}

	return c, nil
}

// Calls reports how many lookups reached the mock.
func (p *MockGeocoder) Calls() int64 {
	return p.calls.Load()
}

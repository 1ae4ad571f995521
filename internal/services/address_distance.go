package services

import (
	"context"
	"errors"
	"fmt"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/platform/obs"
	"geodistance-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// AddressDistance is the outcome of a distance lookup between two addresses.
type AddressDistance struct {
	From     domain.Coordinates
	To       domain.Coordinates
	Provider string
	Result   *domain.DistanceResult
}

// AddressService resolves addresses through a named geocoder and measures
// the distance between them.
type AddressService struct {
	distances       *DistanceService
	geocoders       map[string]ports.Geocoder
	defaultProvider string
}

func NewAddressService(
	distances *DistanceService,
	geocoders map[string]ports.Geocoder,
	defaultProvider string,
) *AddressService {
	return &AddressService{
		distances:       distances,
		geocoders:       geocoders,
		defaultProvider: defaultProvider,
	}
}

func (s *AddressService) geocoder(provider string) (ports.Geocoder, error) {
	if provider == "" {
		provider = s.defaultProvider
	}
	g, ok := s.geocoders[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, provider)
	}
	return g, nil
}

// Geocode resolves a single address. An empty provider uses the default.
func (s *AddressService) Geocode(ctx context.Context, address, provider string) (domain.Coordinates, error) {
	g, err := s.geocoder(provider)
	if err != nil {
		return domain.Coordinates{}, err
	}
	return g.Geocode(ctx, address)
}

// Distance geocodes both addresses concurrently and computes the distance
// between the results. The first lookup error cancels the other.
func (s *AddressService) Distance(
	ctx context.Context,
	from, to, provider string,
	unit domain.Unit,
	alg domain.Algorithm,
) (_ *AddressDistance, err error) {
	defer obs.Time(ctx, "address.Distance")(&err)

	if from == "" || to == "" {
		return nil, errors.New("address distance: both addresses must be non-empty")
	}

	g, err := s.geocoder(provider)
	if err != nil {
		return nil, err
	}

	var a, b domain.Coordinates

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		c, err := g.Geocode(egCtx, from)
		if err != nil {
			return fmt.Errorf("address distance: geocode %q: %w", from, err)
		}
		a = c
		return nil
	})
	eg.Go(func() error {
		c, err := g.Geocode(egCtx, to)
		if err != nil {
			return fmt.Errorf("address distance: geocode %q: %w", to, err)
		}
		b = c
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	r, err := s.distances.Compute(ctx, a, b, unit, alg)
	if err != nil {
		return nil, err
	}

	return &AddressDistance{From: a, To: b, Provider: g.Name(), Result: r}, nil
}

package geocode

import (
	"context"
	"errors"
	"fmt"
	"geodistance-service/internal/adapters/cache"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/platform/obs"
	"geodistance-service/internal/ports"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedGeocoder fronts a provider with an in-memory LRU and an optional
// persistent cache. Concurrent lookups of the same address share one
// provider call.
//
// The shared call is detached from the cancellation of whichever caller
// started it and is bounded by the settings timeout instead. A caller whose
// own context ends stops waiting without affecting the others.
type CachedGeocoder struct {
	coder    ports.Geocoder
	memory   *cache.LRU[string, domain.Coordinates]
	store    ports.GeocodeCache
	settings ports.Settings
	group    singleflight.Group
}

// A nil store disables the persistent tier. A nil settings bounds shared
// lookups by the default timeout.
func NewCachedGeocoder(
	coder ports.Geocoder,
	store ports.GeocodeCache,
	settings ports.Settings,
	capacity int,
) *CachedGeocoder {
	return &CachedGeocoder{
		coder:    coder,
		memory:   cache.NewLRU[string, domain.Coordinates]("geocode_"+coder.Name(), capacity),
		store:    store,
		settings: settings,
	}
}

func (c *CachedGeocoder) timeout() time.Duration {
	if c.settings != nil {
		if t := c.settings.Timeout(); t > 0 {
			return t
		}
	}
	return defaultTimeout
}

func (c *CachedGeocoder) Name() string {
	return c.coder.Name()
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	if coords, ok := c.memory.Get(norm); ok {
		return coords, nil
	}

	ch := c.group.DoChan(norm, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout())
		defer cancel()
		return c.resolve(shared, norm)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.Coordinates{}, res.Err
		}
		return res.Val.(domain.Coordinates), nil
	case <-ctx.Done():
		return domain.Coordinates{}, ctx.Err()
	}
}

func (c *CachedGeocoder) resolve(ctx context.Context, norm string) (domain.Coordinates, error) {
	provider := c.coder.Name()

	// Check the persistent cache before issuing external API calls.
	if c.store != nil {
		hits, err := c.store.GetMany(ctx, provider, []string{norm})
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("%s: get geocode cache: %w", provider, err)
		}
		if coords, ok := hits[norm]; ok {
			return c.memory.Put(norm, coords), nil
		}
	}

	coords, err := c.coder.Geocode(ctx, norm)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if c.store != nil {
		if err := c.store.PutMany(ctx, provider, map[string]domain.Coordinates{norm: coords}); err != nil {
			obs.FromContext(ctx).Warn("geocode cache write failed",
				zap.String("provider", provider),
				zap.Error(err),
			)
		}
	}

	return c.memory.Put(norm, coords), nil
}

package geo

import (
	"context"
	"encoding/json"
	"time"

	"sjsage522/listingworker/logger"
	"sjsage522/listingworker/services/cache"
)

// CachedGeocoder remembers successful lookups of another Geocoder.
// Failures and empty results are not cached.
type CachedGeocoder struct {
	next   Geocoder
	cache  cache.CacheService
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedGeocoder wraps next with cache
func NewCachedGeocoder(next Geocoder, c cache.CacheService, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger.ForCache(),
	}
}

// Geocode serves address from the cache, falling back to the wrapped geocoder
func (g *CachedGeocoder) Geocode(ctx context.Context, address string) ([]Coordinates, error) {
	key := cache.Key("geocode", address)

	if data, err := g.cache.Get(key); err == nil {
		var coords []Coordinates
		if err := json.Unmarshal(data, &coords); err == nil && len(coords) > 0 {
			return coords, nil
		}
	}

	coords, err := g.next.Geocode(ctx, address)
	if err != nil || len(coords) == 0 {
		return coords, err
	}

	data, err := json.Marshal(coords)
	if err == nil {
		err = g.cache.Set(key, data, g.ttl)
	}
	if err != nil {
		g.logger.Debug().Err(err).Str("address", address).Msg("Failed to cache geocode result")
	}
	return coords, nil
}

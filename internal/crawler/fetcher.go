package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"sjsage522/listingworker/helpers"
	"sjsage522/listingworker/logger"
	apperrors "sjsage522/listingworker/pkg/errors"
	"sjsage522/listingworker/services/cache"
)

// HTTPFetcher fetches pages over plain HTTP. Requests are spaced by a
// minimum interval and suspended for a block window after the site
// answers "too many requests".
type HTTPFetcher struct {
	provider  string
	cacheSvc  cache.CacheService
	cacheKey  string
	blockTime time.Duration
	limiter   *rate.Limiter
	get       func(ctx context.Context, url string) ([]byte, error)
	logger    *logger.Logger
}

// NewHTTPFetcher creates a fetcher for provider. cacheSvc may be nil, which
// disables the block window.
func NewHTTPFetcher(provider string, cacheSvc cache.CacheService, blockTime, interval time.Duration) *HTTPFetcher {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &HTTPFetcher{
		provider:  provider,
		cacheSvc:  cacheSvc,
		cacheKey:  provider + "_rate_limited",
		blockTime: blockTime,
		limiter:   rate.NewLimiter(limit, 1),
		get:       helpers.FetchWithRandomHeaders,
		logger:    logger.ForCache(),
	}
}

// Fetch returns the UTF-8 body of url
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.blocked() {
		return nil, apperrors.NewRateLimit(f.provider, f.blockTime)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for request slot: %w", err)
	}

	body, err := f.get(ctx, url)
	if err != nil {
		if errors.Is(err, helpers.ErrRateLimited) && f.cacheSvc != nil && f.blockTime > 0 {
			// Set rate limiting cache
			value := []byte(fmt.Sprintf("%d", f.blockTime/time.Second))
			if setErr := f.cacheSvc.Set(f.cacheKey, value, f.blockTime); setErr != nil {
				f.logger.WithError(setErr).Debug().Str("key", f.cacheKey).Msg("Failed to set rate limit block")
			}
		}
		return nil, err
	}
	return body, nil
}

// blocked reports whether the block window of an earlier "too many
// requests" answer is still open
func (f *HTTPFetcher) blocked() bool {
	if f.cacheSvc == nil {
		return false
	}
	_, err := f.cacheSvc.Get(f.cacheKey)
	return err == nil
}

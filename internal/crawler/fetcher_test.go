package crawler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/listingworker/helpers"
	"sjsage522/listingworker/logger"
	apperrors "sjsage522/listingworker/pkg/errors"
)

func TestHTTPFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(resultsPage(1, 2)))
	}))
	defer server.Close()

	f := NewHTTPFetcher(Provider, NewMockCacheService(), time.Minute, 0)
	body, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	page, err := ParsePage(body)
	require.NoError(t, err)
	assert.Equal(t, []string{listingURL(1), listingURL(2)}, DiscoverLinks(page.Links))
}

func TestHTTPFetcherNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	f := NewHTTPFetcher(Provider, nil, time.Minute, 0)
	_, err := f.Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, helpers.ErrPageNotFound)
}

func TestHTTPFetcherRateLimitBlock(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	cacheSvc := NewMockCacheService()
	f := NewHTTPFetcher(Provider, cacheSvc, 500*time.Second, 0)

	_, err := f.Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, helpers.ErrRateLimited)

	value, err := cacheSvc.Get(Provider + "_rate_limited")
	require.NoError(t, err)
	assert.Equal(t, "500", string(value))

	// the block window keeps further requests off the server
	_, err = f.Fetch(context.Background(), server.URL)
	var scraperErr *apperrors.ScraperError
	require.True(t, errors.As(err, &scraperErr))
	assert.Equal(t, apperrors.ErrorTypeRateLimit, scraperErr.Type)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestHTTPFetcherRateLimitBlockCacheDown(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	cacheSvc := NewMockCacheService()
	cacheSvc.setErr = errors.New("memcache: no servers configured or available")
	var buf bytes.Buffer
	f := NewHTTPFetcher(Provider, cacheSvc, 500*time.Second, 0)
	f.logger = logger.New(&buf)

	_, err := f.Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, helpers.ErrRateLimited)
	assert.Contains(t, buf.String(), "Failed to set rate limit block")
	assert.Contains(t, buf.String(), "no servers configured or available")
	assert.Contains(t, buf.String(), Provider+"_rate_limited")
}

func TestHTTPFetcherInterval(t *testing.T) {
	calls := 0
	f := NewHTTPFetcher(Provider, nil, 0, 50*time.Millisecond)
	f.get = func(ctx context.Context, url string) ([]byte, error) {
		calls++
		return []byte("ok"), nil
	}

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), "https://www.immobiliare.it/")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	assert.Equal(t, 3, calls)
}

func TestHTTPFetcherCanceled(t *testing.T) {
	f := NewHTTPFetcher(Provider, nil, 0, time.Hour)
	f.get = func(ctx context.Context, url string) ([]byte, error) {
		return []byte("ok"), nil
	}

	// first request consumes the only token
	_, err := f.Fetch(context.Background(), "https://www.immobiliare.it/")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = f.Fetch(ctx, "https://www.immobiliare.it/")
	assert.Error(t, err)
}

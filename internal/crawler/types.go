package crawler

import (
	"context"

	"sjsage522/listingworker/internal/listing"
)

// Crawler interface defines the contract for all listing crawlers
type Crawler interface {
	// GetAllListings discovers listing pages and extracts a record from each.
	// limit caps the number of discovered URLs, 0 means no limit.
	GetAllListings(ctx context.Context, limit int) ([]listing.Record, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string

	// GetProvider returns the provider name for the crawler
	GetProvider() string
}

// Fetcher retrieves the raw body of a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// Page is the text and anchor targets of a fetched page
type Page struct {
	Text  string
	Links []string
}

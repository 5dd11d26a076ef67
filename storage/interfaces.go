// Package storage persists listing records.
package storage

import (
	"context"

	"sjsage522/listingworker/internal/listing"
)

// ListingWriter is a destination for scraped listing records
type ListingWriter interface {
	Write(ctx context.Context, records []listing.Record) error
	Close() error
}

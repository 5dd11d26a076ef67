// Package geo resolves listing addresses to coordinates.
package geo

import (
	"context"
	"errors"
	"strings"

	"sjsage522/listingworker/logger"
)

// ErrNoResults is returned when a geocoder finds no candidate for an address
var ErrNoResults = errors.New("no geocoding results")

// Coordinates is a latitude/longitude pair. The zero value means unknown.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether c is the unknown position
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// Geocoder looks up candidate coordinates for a free-form address
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]Coordinates, error)
}

// GeocoderFunc adapts a function to the Geocoder interface
type GeocoderFunc func(ctx context.Context, address string) ([]Coordinates, error)

// Geocode calls f
func (f GeocoderFunc) Geocode(ctx context.Context, address string) ([]Coordinates, error) {
	return f(ctx, address)
}

// Enricher attaches coordinates to listing addresses of one city
type Enricher struct {
	geocoder Geocoder
	city     string
	logger   *logger.Logger
}

// NewEnricher creates an enricher. A nil log uses the geocoder component logger.
func NewEnricher(g Geocoder, city string, log *logger.Logger) *Enricher {
	if log == nil {
		log = logger.ForGeocoder()
	}
	return &Enricher{geocoder: g, city: city, logger: log}
}

// Enrich geocodes "address city" and returns the first candidate.
// Every failure degrades to the zero Coordinates and is logged as a warning.
func (e *Enricher) Enrich(ctx context.Context, address string) Coordinates {
	query := strings.TrimSpace(address + " " + e.city)

	results, err := e.geocoder.Geocode(ctx, query)
	if err == nil && len(results) == 0 {
		err = ErrNoResults
	}
	if err != nil {
		e.logger.Warn().
			Err(err).
			Str("address", query).
			Msg("Geolocation failed, using zero coordinates")
		return Coordinates{}
	}

	return results[0]
}

package geo

import (
	"context"

	"googlemaps.github.io/maps"

	apperrors "sjsage522/listingworker/pkg/errors"
)

// GoogleGeocoder implements Geocoder with the Google Maps geocoding API
type GoogleGeocoder struct {
	client *maps.Client
	region string
}

// NewGoogleGeocoder creates a geocoder authenticated with apiKey.
// Extra options are passed to the maps client.
func NewGoogleGeocoder(apiKey string, opts ...maps.ClientOption) (*GoogleGeocoder, error) {
	options := append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(options...)
	if err != nil {
		return nil, apperrors.NewConfiguration("failed to create google maps client", err)
	}
	return &GoogleGeocoder{client: client, region: "it"}, nil
}

// Geocode returns every candidate location for address
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) ([]Coordinates, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: address,
		Region:  g.region,
	})
	if err != nil {
		return nil, apperrors.NewGeocode("google", "geocode request failed", err)
	}

	coords := make([]Coordinates, 0, len(results))
	for _, r := range results {
		coords = append(coords, Coordinates{
			Lat: r.Geometry.Location.Lat,
			Lng: r.Geometry.Location.Lng,
		})
	}
	return coords, nil
}

package listing

import (
	"context"
	"time"

	"sjsage522/listingworker/helpers"
	"sjsage522/listingworker/internal/geo"
	"sjsage522/listingworker/logger"
)

// Extractor builds Records from listing page text
type Extractor struct {
	enricher *geo.Enricher
	logger   *logger.Logger
	now      func() time.Time
}

// NewExtractor creates an extractor. enricher may be nil when geolocation
// is never requested.
func NewExtractor(enricher *geo.Enricher, log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.ForScraper("listing")
	}
	return &Extractor{
		enricher: enricher,
		logger:   log,
		now:      time.Now,
	}
}

// Extract normalizes text and runs every field extractor on it.
// Fields that cannot be extracted hold their sentinel. Coordinates are
// looked up only when enrichGeo is set and an address was found.
func (e *Extractor) Extract(ctx context.Context, url, text string, enrichGeo bool) Record {
	text = Normalize(text)
	log := e.logger.WithField("url", url)

	record := Record{URL: url, ScrapedAt: e.now()}
	if id, err := helpers.ListingID(url); err == nil {
		record.ID = id
	}

	var miss Miss
	record.Cost, miss = ExtractPrice(text)
	if miss != MissNone {
		log.Info().Str("reason", miss.String()).Msg("Price not found")
	}

	record.Floor, record.IsTopFloor = ExtractFloor(text)

	record.Area, miss = ExtractArea(text)
	if miss != MissNone {
		log.Info().Str("reason", miss.String()).Msg("Area not available")
	}

	record.EnergyRating, miss = ExtractEnergyRating(text)
	if miss != MissNone {
		log.Info().Str("reason", miss.String()).Msg("Energy rating not available")
	}

	record.ParkingSpots, miss = ExtractParking(text)
	if miss == MissOnRequest {
		log.Info().Msg("Parking available on request")
	}

	record.Address = ExtractAddress(text)
	record.PricePerArea = PricePerArea(record.Cost, record.Area)

	if enrichGeo && e.enricher != nil {
		if address, ok := record.Address.Get(); ok {
			c := e.enricher.Enrich(ctx, address)
			record.Latitude, record.Longitude = c.Lat, c.Lng
		}
	}

	if ev := log.Debug(); ev.Enabled() {
		ev.Msg(record.String())
	}
	return record
}

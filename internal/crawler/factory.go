package crawler

import (
	"io"

	"sjsage522/listingworker/config"
	"sjsage522/listingworker/helpers"
	"sjsage522/listingworker/internal/geo"
	"sjsage522/listingworker/internal/listing"
	"sjsage522/listingworker/internal/search"
	"sjsage522/listingworker/logger"
	"sjsage522/listingworker/services/cache"
)

// NewFetcher creates the fetcher selected by cfg.FetchMode.
// The returned closer releases browser resources and is never nil.
func NewFetcher(cfg *config.Config, cacheSvc cache.CacheService) (Fetcher, io.Closer) {
	if cfg.FetchMode == config.FetchModeChrome {
		f := NewChromeFetcher("", cfg.RequestInterval)
		return f, f
	}
	return NewHTTPFetcher(Provider, cacheSvc, cfg.RateLimitBlock, cfg.RequestInterval), nopCloser{}
}

// CreateCrawlers creates one scraper per configured search zone.
// geocoder may be nil when geolocation enrichment is off.
func CreateCrawlers(cfg *config.Config, fetcher Fetcher, geocoder geo.Geocoder, journal helpers.Journal) []Crawler {
	var enricher *geo.Enricher
	if cfg.EnrichGeolocation && geocoder != nil {
		enricher = geo.NewEnricher(geocoder, cfg.SearchCity, nil)
	}

	opts := search.Options{
		MinPrice: cfg.MinPrice,
		MaxPrice: cfg.MaxPrice,
		MinArea:  cfg.MinArea,
		MaxArea:  cfg.MaxArea,
	}

	crawlers := make([]Crawler, 0, len(cfg.SearchZones))
	for _, zone := range cfg.SearchZones {
		query := search.New(cfg.SearchBaseURL, cfg.SearchCity, zone, opts)
		scraper := NewScraper(ScraperConfig{
			Query:      query,
			MaxPages:   cfg.MaxPages,
			Multipages: cfg.EnableMultipages,
			EnrichGeo:  enricher != nil,
			Fetcher:    fetcher,
			Extractor:  listing.NewExtractor(enricher, logger.ForScraper(Provider+"-"+zone)),
			Journal:    journal,
		})
		crawlers = append(crawlers, scraper)
	}

	logger.Info("Created %d crawlers", len(crawlers))
	for i, c := range crawlers {
		logger.Debug("Crawler %d: %s with URL %s", i, c.GetName(), c.(*Scraper).query.URL())
	}

	return crawlers
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

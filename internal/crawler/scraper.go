package crawler

import (
	"context"
	"fmt"

	"sjsage522/listingworker/helpers"
	"sjsage522/listingworker/internal/listing"
	"sjsage522/listingworker/internal/search"
	"sjsage522/listingworker/logger"
	apperrors "sjsage522/listingworker/pkg/errors"
)

// Provider is the listing site crawled
const Provider = "immobiliare"

// Scraper crawls one search and extracts every listing it finds
type Scraper struct {
	name      string
	query     search.Query
	maxPages  int
	enrichGeo bool
	fetcher   Fetcher
	paginator *Paginator
	extractor *listing.Extractor
	journal   helpers.Journal
	logger    *logger.Logger
}

// ScraperConfig contains configuration for a scraper
type ScraperConfig struct {
	Query      search.Query
	MaxPages   int
	Multipages bool
	EnrichGeo  bool
	Fetcher    Fetcher
	Extractor  *listing.Extractor
	Journal    helpers.Journal
}

// NewScraper creates a scraper for one search
func NewScraper(cfg ScraperConfig) *Scraper {
	name := Provider + "-" + cfg.Query.Zone
	log := logger.ForScraper(name)

	journal := cfg.Journal
	if journal == nil {
		journal = helpers.NopJournal{}
	}
	extractor := cfg.Extractor
	if extractor == nil {
		extractor = listing.NewExtractor(nil, log)
	}

	return &Scraper{
		name:      name,
		query:     cfg.Query,
		maxPages:  cfg.MaxPages,
		enrichGeo: cfg.EnrichGeo,
		fetcher:   cfg.Fetcher,
		paginator: NewPaginator(cfg.Fetcher, cfg.Multipages, log),
		extractor: extractor,
		journal:   journal,
		logger:    log,
	}
}

// GetName returns the scraper's name
func (s *Scraper) GetName() string {
	return s.name
}

// GetProvider returns the provider name
func (s *Scraper) GetProvider() string {
	return Provider
}

// GetAllListings discovers the listing URLs of the search and extracts a
// record from each, in discovery order. A listing that cannot be fetched is
// logged, journaled and skipped. Only a discovery failure is returned.
func (s *Scraper) GetAllListings(ctx context.Context, limit int) ([]listing.Record, error) {
	searchURL := s.query.URL()
	s.logger.Info().Str("search_url", searchURL).Msg("Discovering listings")

	urls, err := s.paginator.DiscoverAllListingURLs(ctx, searchURL, s.maxPages, limit)
	if err != nil {
		return nil, apperrors.NewNetwork(s.name, "listing discovery failed", err)
	}
	urls = dedupe(urls)
	s.logger.Info().Int("count", len(urls)).Msg("Listing URLs discovered")

	records := make([]listing.Record, 0, len(urls))
	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		record, err := s.ScrapeListing(ctx, url)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("offending_url", url).
				Msg("Skipping listing")
			s.journal.Record(url, err)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// ScrapeListing fetches one listing page and extracts its record
func (s *Scraper) ScrapeListing(ctx context.Context, url string) (listing.Record, error) {
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return listing.Record{}, err
	}
	page, err := ParsePage(body)
	if err != nil {
		return listing.Record{}, apperrors.NewParsing(s.name, fmt.Sprintf("parse %s", url), err)
	}
	return s.extractor.Extract(ctx, url, page.Text, s.enrichGeo), nil
}

// dedupe drops repeated URLs, keeping the first occurrence
func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := urls[:0:0]
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

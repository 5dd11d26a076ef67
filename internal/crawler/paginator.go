package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sjsage522/listingworker/helpers"
	"sjsage522/listingworker/internal/listing"
	"sjsage522/listingworker/internal/search"
	"sjsage522/listingworker/logger"
)

// Paginator walks the result pages of a search and collects listing URLs
type Paginator struct {
	fetcher    Fetcher
	multipages bool
	logger     *logger.Logger
}

// NewPaginator creates a paginator. With multipages off only the first
// results page is read.
func NewPaginator(fetcher Fetcher, multipages bool, log *logger.Logger) *Paginator {
	if log == nil {
		log = logger.ForScraper("paginator")
	}
	return &Paginator{fetcher: fetcher, multipages: multipages, logger: log}
}

// DiscoverAllListingURLs returns listing URLs in page then document order.
// Pages 2 to maxPages-1 are tried after the first one. Iteration ends at a
// not found page. With limit > 0 the result holds at most limit URLs and no
// page is fetched once limit URLs are known. A failing fetch aborts discovery.
func (p *Paginator) DiscoverAllListingURLs(ctx context.Context, baseURL string, maxPages, limit int) ([]string, error) {
	page, err := p.fetchPage(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	urls := DiscoverLinks(page.Links)
	p.logger.Debug().Str("page_url", baseURL).Int("links", len(urls)).Msg("Results page parsed")
	if limitReached(urls, limit) {
		return urls[:limit], nil
	}
	if !p.multipages {
		return urls, nil
	}

	for i := 2; i < maxPages; i++ {
		pageURL := search.PageURL(baseURL, i)

		page, err := p.fetchPage(ctx, pageURL)
		if errors.Is(err, helpers.ErrPageNotFound) {
			p.logger.Debug().Str("page_url", pageURL).Msg("No more results pages")
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.Contains(listing.Normalize(page.Text), EndOfResultsMarker) {
			p.logger.Debug().Str("page_url", pageURL).Msg("No more results pages")
			break
		}

		links := DiscoverLinks(page.Links)
		urls = append(urls, links...)
		p.logger.Debug().Str("page_url", pageURL).Int("links", len(links)).Msg("Results page parsed")
		if limitReached(urls, limit) {
			return urls[:limit], nil
		}
	}

	return urls, nil
}

func (p *Paginator) fetchPage(ctx context.Context, pageURL string) (*Page, error) {
	body, err := p.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch results page %s: %w", pageURL, err)
	}
	return ParsePage(body)
}

func limitReached(urls []string, limit int) bool {
	return limit > 0 && len(urls) >= limit
}

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"

	"sjsage522/listingworker/internal/crawler"
	"sjsage522/listingworker/internal/listing"
	"sjsage522/listingworker/logger"
	apperrors "sjsage522/listingworker/pkg/errors"
	"sjsage522/listingworker/services/publisher"
	"sjsage522/listingworker/storage"
)

// Worker handles the crawling, publishing and storing process
type Worker struct {
	crawlers      []crawler.Crawler
	publisher     publisher.Publisher
	writers       []storage.ListingWriter
	logger        *logger.Logger
	limit         int
	crawlInterval time.Duration
	newRunID      func() string
}

// Message is the payload published for every listing
type Message struct {
	RunID    string `json:"run_id"`
	Provider string `json:"provider"`
	listing.Record
}

// Summary describes one run
type Summary struct {
	RunID     string
	Listings  int
	Published int
	Failed    int
}

// NewWorker creates a new worker. A zero crawlInterval makes Start run once.
func NewWorker(
	crawlers []crawler.Crawler,
	pub publisher.Publisher,
	writers []storage.ListingWriter,
	limit int,
	crawlInterval time.Duration,
) *Worker {
	return &Worker{
		crawlers:      crawlers,
		publisher:     pub,
		writers:       writers,
		logger:        logger.ForWorker(),
		limit:         limit,
		crawlInterval: crawlInterval,
		newRunID:      uuid.NewString,
	}
}

// Start runs the crawlers, then repeats every crawl interval until ctx is done
func (w *Worker) Start(ctx context.Context) {
	for {
		start := time.Now()
		summary := w.RunOnce(ctx)
		w.logger.Info().
			Str("run_id", summary.RunID).
			Int("listings", summary.Listings).
			Int("published", summary.Published).
			Int("failed_crawlers", summary.Failed).
			Dur("elapsed", time.Since(start)).
			Msg("Crawl finished")

		if w.crawlInterval <= 0 {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.crawlInterval):
		}
	}
}

// RunOnce runs every crawler in turn, publishes each listing and hands the
// whole batch to the storage writers. Crawlers run sequentially since they
// share one fetcher and its request pacing.
func (w *Worker) RunOnce(ctx context.Context) Summary {
	summary := Summary{RunID: w.newRunID()}
	log := w.logger.WithField("run_id", summary.RunID)

	var batch []listing.Record
	for _, c := range w.crawlers {
		if ctx.Err() != nil {
			break
		}

		records, err := c.GetAllListings(ctx, w.limit)
		if err != nil {
			summary.Failed++
			log.WithError(err).Error().
				Str("crawler", c.GetName()).
				Bool("retryable", retryable(err)).
				Msg("Crawler failed")
		}

		summary.Published += w.publish(log, summary.RunID, c, records)
		batch = append(batch, records...)
	}
	summary.Listings = len(batch)

	w.store(ctx, log, batch)

	// Trim all streams after crawling
	if w.publisher != nil {
		if err := w.publisher.TrimStreams(); err != nil {
			log.Error().Err(apperrors.NewPublisher("redis", "stream trimming failed", err)).Msg("Stream trimming failed")
		}
	}

	return summary
}

// publish sends every record of a crawler and returns how many were sent
func (w *Worker) publish(log *logger.Logger, runID string, c crawler.Crawler, records []listing.Record) int {
	if w.publisher == nil {
		return 0
	}

	published := 0
	for i, record := range records {
		data, err := json.Marshal(Message{RunID: runID, Provider: c.GetProvider(), Record: record})
		if err != nil {
			log.Error().Err(err).Str("url", record.URL).Msg("Failed to encode listing")
			continue
		}

		key := record.ID
		if key == "" {
			key = record.URL
		}
		if err := w.publisher.Publish(key, data); err != nil {
			log.Error().Err(apperrors.NewPublisher("redis", "publish failed", err)).Str("url", record.URL).Msg("Failed to publish listing")
			continue
		}
		published++

		// Log only the first listing for each crawler
		if i == 0 && os.Getenv("LISTING_ENVIRONMENT") != "production" {
			log.Debug().Str("crawler", c.GetName()).RawJSON("listing", data).Msg("Crawled listing")
		}
	}
	return published
}

func (w *Worker) store(ctx context.Context, log *logger.Logger, batch []listing.Record) {
	if len(batch) == 0 {
		return
	}
	for _, writer := range w.writers {
		if err := writer.Write(ctx, batch); err != nil {
			log.Error().Err(apperrors.NewStorage("storage", "failed to store listings", err)).Msg("Storage write failed")
		}
	}
}

// retryable reports whether err is a ScraperError a later run may not hit again
func retryable(err error) bool {
	var scraperErr *apperrors.ScraperError
	return errors.As(err, &scraperErr) && scraperErr.IsRetryable()
}

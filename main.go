package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/listingworker/config"
	"sjsage522/listingworker/helpers"
	"sjsage522/listingworker/internal/crawler"
	"sjsage522/listingworker/internal/geo"
	"sjsage522/listingworker/logger"
	"sjsage522/listingworker/services/cache"
	"sjsage522/listingworker/services/publisher"
	"sjsage522/listingworker/services/worker"
	"sjsage522/listingworker/storage"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("city", cfg.SearchCity).
		Strs("zones", cfg.SearchZones).
		Str("fetch_mode", cfg.FetchMode).
		Bool("geolocation", cfg.EnrichGeolocation).
		Dur("crawl_interval", cfg.CrawlInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Create crawlers
	crawlers := crawler.CreateCrawlers(cfg, services.Fetcher, services.Geocoder, services.Journal)
	if len(crawlers) == 0 {
		log.Fatal().Msg("No crawlers were created")
	}

	// Create and start worker
	w := worker.NewWorker(
		crawlers,
		services.Publisher,
		services.Writers,
		cfg.ListingLimit,
		cfg.CrawlInterval,
	)

	// Start worker in a goroutine
	workerDone := make(chan struct{})
	go func() {
		log.Info().Msg("Starting listing worker")
		w.Start(ctx)
		close(workerDone)
	}()

	// Wait for shutdown signal or worker exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case <-workerDone:
		log.Info().Msg("Worker exited normally")
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Fetcher   crawler.Fetcher
	Geocoder  geo.Geocoder
	Journal   helpers.Journal
	Writers   []storage.ListingWriter

	closers []io.Closer
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	for _, w := range s.Writers {
		if err := w.Close(); err != nil {
			logger.LogError("storage", err, "Failed to close writer")
		}
	}
	for _, c := range s.closers {
		c.Close()
	}
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{Journal: helpers.NopJournal{}}

	// Initialize cache service
	if cfg.MemcacheAddr != "" {
		memcacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := memcacheService.Ping(); err != nil {
			logger.ForCache().Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache unavailable, using in-process cache")
			services.Cache = cache.NewMemoryCache()
		} else {
			services.Cache = memcacheService
			logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
		}
	} else {
		services.Cache = cache.NewMemoryCache()
	}

	// Initialize publisher
	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		if err := redisPublisher.Ping(); err != nil {
			logger.ForPublisher().Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis is not reachable, publishing will fail until it is")
		}
		services.Publisher = redisPublisher

		logger.Info("Publishing to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	// Initialize fetcher
	fetcher, closer := crawler.NewFetcher(cfg, services.Cache)
	services.Fetcher = fetcher
	services.closers = append(services.closers, closer)

	// Initialize geocoder
	if cfg.EnrichGeolocation {
		google, err := geo.NewGoogleGeocoder(cfg.GoogleMapsKey)
		if err != nil {
			services.Cleanup()
			return nil, err
		}
		services.Geocoder = geo.NewCachedGeocoder(google, services.Cache, cfg.GeocodeCacheTTL)
		logger.ForGeocoder().Info().Msg("Geolocation enrichment enabled")
	} else {
		logger.ForGeocoder().Info().Msg("Geolocation enrichment disabled")
	}

	// Initialize storage sinks
	if cfg.CSVOutputPath != "" {
		csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
		if err != nil {
			services.Cleanup()
			return nil, err
		}
		services.Writers = append(services.Writers, csvWriter)
		logger.ForStorage().Info().Str("path", cfg.CSVOutputPath).Msg("Writing listings to CSV")
	}
	if cfg.PostgresDSN != "" {
		pgWriter, err := storage.NewPostgresWriter(ctx, cfg.PostgresDSN)
		if err != nil {
			services.Cleanup()
			return nil, err
		}
		services.Writers = append(services.Writers, pgWriter)
		logger.ForStorage().Info().Msg("Writing listings to PostgreSQL")
	}

	if cfg.JournalPath != "" {
		services.Journal = helpers.NewFileJournal(cfg.JournalPath)
	}

	return services, nil
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "sjsage522/listingworker/pkg/errors"
)

// Fetch modes
const (
	FetchModeHTTP   = "http"
	FetchModeChrome = "chrome"
)

// Config represents the application configuration
type Config struct {
	// Search configuration
	SearchBaseURL string
	SearchCity    string
	SearchZones   []string
	MinPrice      int
	MaxPrice      int
	MinArea       int
	MaxArea       int

	// Crawl configuration
	MaxPages         int
	ListingLimit     int
	EnableMultipages bool
	FetchMode        string
	RequestInterval  time.Duration
	RateLimitBlock   time.Duration
	CrawlInterval    time.Duration

	// Geolocation enrichment
	EnrichGeolocation bool
	GoogleMapsKey     string
	GeocodeCacheTTL   time.Duration

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// Storage sinks, disabled when empty
	CSVOutputPath string
	PostgresDSN   string

	// File receiving listing URLs that failed to fetch, disabled when empty
	JournalPath string

	// Environment
	Environment string
	ConfigFile  string
}

// LoadConfig loads the configuration from environment variables with defaults.
// When LISTING_CONFIG_FILE names a YAML file its values override the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		SearchBaseURL: getEnv("SEARCH_BASE_URL", "https://www.immobiliare.it"),
		SearchCity:    getEnv("SEARCH_CITY", "milano"),
		SearchZones:   splitList(getEnv("SEARCH_ZONES", "farini")),
		MinPrice:      getEnvInt("SEARCH_MIN_PRICE", 0),
		MaxPrice:      getEnvInt("SEARCH_MAX_PRICE", 0),
		MinArea:       getEnvInt("SEARCH_MIN_AREA", 0),
		MaxArea:       getEnvInt("SEARCH_MAX_AREA", 0),

		MaxPages:         getEnvInt("MAX_PAGES", 100),
		ListingLimit:     getEnvInt("LISTING_LIMIT", 0),
		EnableMultipages: getEnvBool("ENABLE_MULTIPAGES", true),
		FetchMode:        strings.ToLower(getEnv("FETCH_MODE", FetchModeHTTP)),
		RequestInterval:  time.Duration(getEnvInt("REQUEST_INTERVAL_MS", 1)) * time.Millisecond,
		RateLimitBlock:   time.Duration(getEnvInt("RATE_LIMIT_BLOCK_SECONDS", 500)) * time.Second,
		CrawlInterval:    time.Duration(getEnvInt("CRAWL_INTERVAL_SECONDS", 0)) * time.Second,

		EnrichGeolocation: getEnvBool("ENRICH_GEOLOCATION", false),
		GoogleMapsKey:     getEnv("GOOGLE_MAPS_KEY", ""),
		GeocodeCacheTTL:   time.Duration(getEnvInt("GEOCODE_CACHE_TTL_SECONDS", 86400)) * time.Second,

		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "listings"),
		RedisStreamCount:     getEnvInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 1000),

		MemcacheAddr: getEnv("MEMCACHE_ADDR", "localhost:11211"),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", ""),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		JournalPath:   getEnv("OFFENDING_URLS_PATH", ""),

		Environment: getEnv("LISTING_ENVIRONMENT", "development"),
		ConfigFile:  getEnv("LISTING_CONFIG_FILE", ""),
	}

	if cfg.ConfigFile != "" {
		fc, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return nil, apperrors.NewConfiguration("failed to load config file "+cfg.ConfigFile, err)
		}
		fc.Apply(cfg)
	}

	return cfg, nil
}

// Validate checks the configuration for values the scraper cannot run with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SearchCity) == "" {
		return apperrors.NewConfiguration("SEARCH_CITY must not be empty", nil)
	}
	if len(c.SearchZones) == 0 {
		return apperrors.NewConfiguration("SEARCH_ZONES must name at least one zone", nil)
	}
	if c.MaxPages < 1 {
		return apperrors.NewConfiguration("MAX_PAGES must be at least 1", nil)
	}
	if c.ListingLimit < 0 {
		return apperrors.NewConfiguration("LISTING_LIMIT must not be negative", nil)
	}
	if c.MinPrice > 0 && c.MaxPrice > 0 && c.MinPrice > c.MaxPrice {
		return apperrors.NewConfiguration("SEARCH_MIN_PRICE is greater than SEARCH_MAX_PRICE", nil)
	}
	if c.MinArea > 0 && c.MaxArea > 0 && c.MinArea > c.MaxArea {
		return apperrors.NewConfiguration("SEARCH_MIN_AREA is greater than SEARCH_MAX_AREA", nil)
	}
	if c.EnrichGeolocation && c.GoogleMapsKey == "" {
		return apperrors.NewConfiguration("GOOGLE_MAPS_KEY is required when ENRICH_GEOLOCATION is on", nil)
	}
	if c.FetchMode != FetchModeHTTP && c.FetchMode != FetchModeChrome {
		return apperrors.NewConfiguration("unknown FETCH_MODE "+c.FetchMode, nil)
	}
	if c.RedisStreamCount < 1 {
		return apperrors.NewConfiguration("REDIS_STREAM_COUNT must be at least 1", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

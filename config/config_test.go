package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "milano", config.SearchCity)
	assert.Equal(t, []string{"farini"}, config.SearchZones)
	assert.Equal(t, 100, config.MaxPages)
	assert.Equal(t, 0, config.ListingLimit)
	assert.True(t, config.EnableMultipages)
	assert.False(t, config.EnrichGeolocation)
	assert.Equal(t, time.Millisecond, config.RequestInterval)
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisStreamCount)
	assert.Equal(t, "localhost:11211", config.MemcacheAddr)
	assert.Equal(t, time.Duration(0), config.CrawlInterval)
	assert.NoError(t, config.Validate())

	// Test with environment variables
	t.Setenv("SEARCH_CITY", "torino")
	t.Setenv("SEARCH_ZONES", "centro, crocetta ,")
	t.Setenv("SEARCH_MAX_PRICE", "600000")
	t.Setenv("MAX_PAGES", "5")
	t.Setenv("LISTING_LIMIT", "20")
	t.Setenv("ENABLE_MULTIPAGES", "false")
	t.Setenv("REDIS_DB", "1")
	t.Setenv("CRAWL_INTERVAL_SECONDS", "30")

	config, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "torino", config.SearchCity)
	assert.Equal(t, []string{"centro", "crocetta"}, config.SearchZones)
	assert.Equal(t, 600000, config.MaxPrice)
	assert.Equal(t, 5, config.MaxPages)
	assert.Equal(t, 20, config.ListingLimit)
	assert.False(t, config.EnableMultipages)
	assert.Equal(t, 1, config.RedisDB)
	assert.Equal(t, 30*time.Second, config.CrawlInterval)
}

func TestLoadConfigIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_PAGES", "many")
	t.Setenv("ENABLE_MULTIPAGES", "perhaps")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 100, config.MaxPages)
	assert.True(t, config.EnableMultipages)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c, err := LoadConfig()
		require.NoError(t, err)
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"empty city", func(c *Config) { c.SearchCity = " " }, false},
		{"no zones", func(c *Config) { c.SearchZones = nil }, false},
		{"zero pages", func(c *Config) { c.MaxPages = 0 }, false},
		{"negative limit", func(c *Config) { c.ListingLimit = -1 }, false},
		{"inverted price", func(c *Config) { c.MinPrice, c.MaxPrice = 500000, 200000 }, false},
		{"inverted area", func(c *Config) { c.MinArea, c.MaxArea = 150, 60 }, false},
		{"geo without key", func(c *Config) { c.EnrichGeolocation = true }, false},
		{"geo with key", func(c *Config) { c.EnrichGeolocation, c.GoogleMapsKey = true, "k" }, true},
		{"bad fetch mode", func(c *Config) { c.FetchMode = "carrier-pigeon" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			if tt.ok {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}

func TestLoadConfigFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing.yaml")
	yamlBody := `
search:
  city: roma
  zones: [prati, trastevere]
  minPrice: 200000
crawl:
  maxPages: 3
  multipages: false
geolocation:
  enable: true
  key: secret
output:
  csv: out/listings.csv
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))
	t.Setenv("LISTING_CONFIG_FILE", path)
	t.Setenv("SEARCH_CITY", "napoli")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "roma", config.SearchCity)
	assert.Equal(t, []string{"prati", "trastevere"}, config.SearchZones)
	assert.Equal(t, 200000, config.MinPrice)
	assert.Equal(t, 0, config.MaxPrice)
	assert.Equal(t, 3, config.MaxPages)
	assert.False(t, config.EnableMultipages)
	assert.True(t, config.EnrichGeolocation)
	assert.Equal(t, "secret", config.GoogleMapsKey)
	assert.Equal(t, "out/listings.csv", config.CSVOutputPath)
	assert.NoError(t, config.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("LISTING_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

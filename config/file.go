package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML overlay. Only fields present in the file
// override the environment-derived configuration.
type FileConfig struct {
	Search struct {
		BaseURL  string   `yaml:"baseURL"`
		City     string   `yaml:"city"`
		Zones    []string `yaml:"zones"`
		MinPrice *int     `yaml:"minPrice"`
		MaxPrice *int     `yaml:"maxPrice"`
		MinArea  *int     `yaml:"minArea"`
		MaxArea  *int     `yaml:"maxArea"`
	} `yaml:"search"`

	Crawl struct {
		MaxPages   *int   `yaml:"maxPages"`
		Limit      *int   `yaml:"limit"`
		Multipages *bool  `yaml:"multipages"`
		FetchMode  string `yaml:"fetchMode"`
	} `yaml:"crawl"`

	Geolocation struct {
		Enable *bool  `yaml:"enable"`
		Key    string `yaml:"key"`
	} `yaml:"geolocation"`

	Output struct {
		CSV      string `yaml:"csv"`
		Postgres string `yaml:"postgres"`
	} `yaml:"output"`
}

// LoadFile reads and decodes a YAML overlay file
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &fc, nil
}

// Apply overrides cfg with every value set in the file
func (fc *FileConfig) Apply(cfg *Config) {
	if fc.Search.BaseURL != "" {
		cfg.SearchBaseURL = fc.Search.BaseURL
	}
	if fc.Search.City != "" {
		cfg.SearchCity = fc.Search.City
	}
	if len(fc.Search.Zones) > 0 {
		cfg.SearchZones = fc.Search.Zones
	}
	setInt(&cfg.MinPrice, fc.Search.MinPrice)
	setInt(&cfg.MaxPrice, fc.Search.MaxPrice)
	setInt(&cfg.MinArea, fc.Search.MinArea)
	setInt(&cfg.MaxArea, fc.Search.MaxArea)

	setInt(&cfg.MaxPages, fc.Crawl.MaxPages)
	setInt(&cfg.ListingLimit, fc.Crawl.Limit)
	if fc.Crawl.Multipages != nil {
		cfg.EnableMultipages = *fc.Crawl.Multipages
	}
	if fc.Crawl.FetchMode != "" {
		cfg.FetchMode = fc.Crawl.FetchMode
	}

	if fc.Geolocation.Enable != nil {
		cfg.EnrichGeolocation = *fc.Geolocation.Enable
	}
	if fc.Geolocation.Key != "" {
		cfg.GoogleMapsKey = fc.Geolocation.Key
	}

	if fc.Output.CSV != "" {
		cfg.CSVOutputPath = fc.Output.CSV
	}
	if fc.Output.Postgres != "" {
		cfg.PostgresDSN = fc.Output.Postgres
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"sjsage522/listingworker/internal/listing"
)

var csvHeader = []string{
	"url", "id", "address", "cost", "price_per_area", "floor", "is_top_floor",
	"energy_rating", "area", "parking_spots", "latitude", "longitude", "scraped_at",
}

// CSVWriter appends listing records to a CSV file. Fields without a value
// are written as empty cells. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter opens the CSV file at path for appending, creating it and
// its directory when missing. The header row is written to new files only.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("csv: open file %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: stat file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
		w.Flush()
	}

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per record
func (c *CSVWriter) Write(ctx context.Context, records []listing.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		if err := c.writer.Write(csvRow(r)); err != nil {
			return fmt.Errorf("csv: write row %s: %w", r.URL, err)
		}
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the file
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer.Flush()
	return c.file.Close()
}

func csvRow(r listing.Record) []string {
	return []string{
		r.URL,
		r.ID,
		cell(r.Address),
		cell(r.Cost),
		cell(r.PricePerArea),
		cell(r.Floor),
		strconv.FormatBool(r.IsTopFloor),
		cell(r.EnergyRating),
		cell(r.Area),
		cell(r.ParkingSpots),
		strconv.FormatFloat(r.Latitude, 'f', -1, 64),
		strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		r.ScrapedAt.Format(time.RFC3339),
	}
}

func cell[T any](f listing.Field[T]) string {
	if !f.OK() {
		return ""
	}
	return f.String()
}

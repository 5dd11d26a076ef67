package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"sjsage522/listingworker/internal/listing"
)

// PostgresWriter upserts listing records into PostgreSQL, keyed by URL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 3; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			url            TEXT             PRIMARY KEY,
			listing_id     TEXT             NOT NULL DEFAULT '',
			address        TEXT,
			cost           BIGINT,
			price_per_area DOUBLE PRECISION,
			floor          INTEGER,
			is_top_floor   BOOLEAN          NOT NULL DEFAULT FALSE,
			energy_rating  VARCHAR(2),
			area           INTEGER,
			parking_spots  INTEGER,
			latitude       DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude      DOUBLE PRECISION NOT NULL DEFAULT 0,
			scraped_at     TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);

		ALTER TABLE listings ALTER COLUMN cost TYPE BIGINT;

		CREATE INDEX IF NOT EXISTS idx_listings_cost ON listings(cost);
		CREATE INDEX IF NOT EXISTS idx_listings_area ON listings(area);
	`)
	return err
}

// Write upserts records in batches. When a URL repeats the last record wins.
func (pw *PostgresWriter) Write(ctx context.Context, records []listing.Record) error {
	records = lastByURL(records)

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := pw.upsertBatch(ctx, records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

const upsertColumns = 13

func (pw *PostgresWriter) upsertBatch(ctx context.Context, batch []listing.Record) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*upsertColumns)

	for idx, r := range batch {
		placeholders := make([]string, upsertColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", idx*upsertColumns+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			r.URL, r.ID, nullString(r.Address), nullInt(r.Cost), nullFloat(r.PricePerArea),
			nullInt(r.Floor), r.IsTopFloor, nullString(r.EnergyRating), nullInt(r.Area),
			nullInt(r.ParkingSpots), r.Latitude, r.Longitude, r.ScrapedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (url, listing_id, address, cost, price_per_area, floor, is_top_floor,
			energy_rating, area, parking_spots, latitude, longitude, scraped_at)
		VALUES %s
		ON CONFLICT (url) DO UPDATE SET
			listing_id = EXCLUDED.listing_id,
			address = EXCLUDED.address,
			cost = EXCLUDED.cost,
			price_per_area = EXCLUDED.price_per_area,
			floor = EXCLUDED.floor,
			is_top_floor = EXCLUDED.is_top_floor,
			energy_rating = EXCLUDED.energy_rating,
			area = EXCLUDED.area,
			parking_spots = EXCLUDED.parking_spots,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			scraped_at = EXCLUDED.scraped_at
	`, strings.Join(valueStrings, ","))

	if _, err := pw.db.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: upsert: %w", err)
	}
	return nil
}

// Close closes the database connection
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// lastByURL keeps the last record of each URL, in first-seen order.
// A single upsert statement cannot touch the same row twice.
func lastByURL(records []listing.Record) []listing.Record {
	index := make(map[string]int, len(records))
	out := make([]listing.Record, 0, len(records))
	for _, r := range records {
		if i, ok := index[r.URL]; ok {
			out[i] = r
			continue
		}
		index[r.URL] = len(out)
		out = append(out, r)
	}
	return out
}

func nullInt(f listing.Field[int]) sql.NullInt64 {
	v, ok := f.Get()
	return sql.NullInt64{Int64: int64(v), Valid: ok}
}

func nullFloat(f listing.Field[float64]) sql.NullFloat64 {
	v, ok := f.Get()
	return sql.NullFloat64{Float64: v, Valid: ok}
}

func nullString(f listing.Field[string]) sql.NullString {
	v, ok := f.Get()
	return sql.NullString{String: v, Valid: ok}
}

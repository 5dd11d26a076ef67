package main

import (
	"context"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"sjsage522/listingworker/config"
	"sjsage522/listingworker/internal/crawler"
	"sjsage522/listingworker/internal/geo"
	"sjsage522/listingworker/services/publisher"
	"sjsage522/listingworker/services/worker"
	"sjsage522/listingworker/storage"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<!DOCTYPE html>
<html>
<head><title>%[1]s</title></head>
<body>
    <h1>%[1]s</h1>
    <div class="address">%[2]s, Milano</div>
    <div class="price">€ %[3]s</div>
    <ul class="features">
        <li>Superficie %[4]d m²</li>
        <li>%[5]s</li>
        <li>Classe energetica %[6]s 110,00 kWh/m² anno</li>
        <li>%[7]s</li>
    </ul>
</body>
</html>`

// newListingSite serves a three page search for milano/farini: two results
// pages followed by a not found page, plus the listing pages they link to
func newListingSite(t *testing.T) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/vendita-case/milano/farini/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Query().Get("pag") {
		case "":
			fmt.Fprintf(w, `<html><body><a href="%[1]s/annunci/101/">Trilocale</a><a href="%[1]s/annunci/101/">foto</a><a href="%[1]s/annunci/102/">Bilocale</a></body></html>`, server.URL)
		case "2":
			fmt.Fprintf(w, `<html><body><a href="%[1]s/annunci/103/">Attico</a><a href="%[1]s/agenzie/9/">Agenzia</a></body></html>`, server.URL)
		default:
			io.WriteString(w, `<html><body><h1>404 Not Found</h1></body></html>`)
		}
	})
	mux.HandleFunc("/annunci/101/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, listingHTML, "Trilocale", "via Farini 12", "420.000", 84, "Piano 3", "D", "Posti auto 1")
	})
	mux.HandleFunc("/annunci/102/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, listingHTML, "Bilocale", "viale Stelvio 40", "0.900", 55, "Piano terra", "B+", "Possibilità box auto")
	})
	mux.HandleFunc("/annunci/103/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	server = httptest.NewTLSServer(mux)
	return server
}

// tlsFetcher fetches from the test server, trusting its certificate
func tlsFetcher(server *httptest.Server) crawler.Fetcher {
	client := server.Client()
	return crawler.FetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
}

// MockPublisher collects published messages by key
type MockPublisher struct {
	mu       sync.Mutex
	messages map[string][]byte
}

var _ publisher.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(key string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[key] = append([]byte(nil), message...)
	return nil
}

func (m *MockPublisher) TrimStreams() error { return nil }

func (m *MockPublisher) Close() error { return nil }

func testConfig(server *httptest.Server, csvPath string) *config.Config {
	return &config.Config{
		SearchBaseURL:     server.URL,
		SearchCity:        "milano",
		SearchZones:       []string{"farini"},
		MaxPages:          10,
		EnableMultipages:  true,
		FetchMode:         config.FetchModeHTTP,
		EnrichGeolocation: true,
		GoogleMapsKey:     "unused",
		CSVOutputPath:     csvPath,
		RedisStreamCount:  1,
	}
}

func fakeGeocoder() geo.Geocoder {
	return geo.GeocoderFunc(func(ctx context.Context, address string) ([]geo.Coordinates, error) {
		if address == "via farini 12 milano" {
			return []geo.Coordinates{{Lat: 45.4842, Lng: 9.1821}}, nil
		}
		return nil, geo.ErrNoResults
	})
}

// TestIntegration runs one crawl end to end: discovery over several
// results pages, extraction, geolocation, publishing and CSV output
func TestIntegration(t *testing.T) {
	server := newListingSite(t)
	defer server.Close()

	csvPath := filepath.Join(t.TempDir(), "listings.csv")
	cfg := testConfig(server, csvPath)
	require.NoError(t, cfg.Validate())

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	require.NoError(t, err)

	pub := &MockPublisher{messages: make(map[string][]byte)}
	crawlers := crawler.CreateCrawlers(cfg, tlsFetcher(server), fakeGeocoder(), nil)
	w := worker.NewWorker(crawlers, pub, []storage.ListingWriter{csvWriter}, cfg.ListingLimit, 0)

	summary := w.RunOnce(context.Background())
	require.NoError(t, csvWriter.Close())

	assert.Equal(t, 2, summary.Listings)
	assert.Equal(t, 2, summary.Published)
	assert.Equal(t, 0, summary.Failed)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal(pub.messages["101"], &first))
	assert.Equal(t, float64(420000), first["cost"])
	assert.Equal(t, float64(84), first["area"])
	assert.Equal(t, 5000.0, first["price_per_area"])
	assert.Equal(t, float64(3), first["floor"])
	assert.Equal(t, "D", first["energy_rating"])
	assert.Equal(t, float64(1), first["parking_spots"])
	assert.Equal(t, "via farini 12", first["address"])
	assert.Equal(t, 45.4842, first["latitude"])

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal(pub.messages["102"], &second))
	assert.Nil(t, second["cost"], "a price below the minimum is not found")
	assert.Nil(t, second["price_per_area"])
	assert.Equal(t, float64(1), second["floor"])
	assert.Equal(t, "B+", second["energy_rating"])
	assert.Equal(t, float64(0), second["parking_spots"])
	assert.Equal(t, "viale stelvio 40", second["address"])
	assert.Equal(t, float64(0), second["latitude"], "a failed geocode yields zero coordinates")

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, server.URL+"/annunci/101/", rows[1][0])
	assert.Equal(t, server.URL+"/annunci/102/", rows[2][0])
	assert.Equal(t, "", rows[2][3])
}

// TestIntegrationRedis publishes a crawl to a real Redis stream
func TestIntegrationRedis(t *testing.T) {
	if os.Getenv("CI") != "" {
		t.Skip("Skipping integration test in CI environment")
	}

	ctx := context.Background()
	redisAddr := "localhost:6379"
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   0,
	})
	defer redisClient.Close()

	// Check if Redis is available by attempting a ping, skip test if not
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping integration test")
	}

	server := newListingSite(t)
	defer server.Close()

	stream := "test_listings"
	redisClient.Del(ctx, stream+":0")

	cfg := testConfig(server, "")
	cfg.EnrichGeolocation = false
	redisPublisher := publisher.NewRedisPublisher(ctx, redisAddr, 0, stream, 1, 100)
	defer redisPublisher.Close()

	crawlers := crawler.CreateCrawlers(cfg, tlsFetcher(server), nil, nil)
	summary := worker.NewWorker(crawlers, redisPublisher, nil, 0, 0).RunOnce(ctx)
	require.Equal(t, 2, summary.Published)

	entries, err := redisClient.XRange(ctx, stream+":0", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	encoded, ok := entries[0].Values["101"].(string)
	require.True(t, ok)
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	var msg worker.Message
	require.NoError(t, json.Unmarshal(decoded, &msg))
	assert.Equal(t, summary.RunID, msg.RunID)
	assert.Equal(t, server.URL+"/annunci/101/", msg.URL)
}

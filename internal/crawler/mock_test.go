package crawler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"sjsage522/listingworker/helpers"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache  map[string][]byte
	setErr error
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, &mockError{message: "cache miss"}
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

type mockError struct {
	message string
}

func (e *mockError) Error() string {
	return e.message
}

// MockFetcher serves canned bodies by URL. Unknown URLs answer 404.
type MockFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	errs   map[string]error
	called []string
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		pages: make(map[string]string),
		errs:  make(map[string]error),
	}
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called = append(m.called, url)

	if err, ok := m.errs[url]; ok {
		return nil, err
	}
	if body, ok := m.pages[url]; ok {
		return []byte(body), nil
	}
	return nil, fmt.Errorf("fetch %s: %w", url, helpers.ErrPageNotFound)
}

func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.called...)
}

type mockJournal struct {
	urls []string
}

func (j *mockJournal) Record(url string, err error) {
	j.urls = append(j.urls, url)
}

func listingURL(id int) string {
	return fmt.Sprintf("https://www.immobiliare.it/annunci/%d/", id)
}

// resultsPage renders a results page linking to the given listing ids,
// mixed with anchors that are not listings
func resultsPage(ids ...int) string {
	var b strings.Builder
	b.WriteString(`<html><head><title>Case in vendita</title></head><body>`)
	b.WriteString(`<a href="https://www.immobiliare.it/">Home</a>`)
	for _, id := range ids {
		fmt.Fprintf(&b, `<li><a href="%s">Trilocale</a></li>`, listingURL(id))
	}
	b.WriteString(`<a href="https://www.immobiliare.it/agenzie/123/">Agenzia</a>`)
	b.WriteString(`</body></html>`)
	return b.String()
}

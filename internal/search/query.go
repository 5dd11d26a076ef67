// Package search builds result-page URLs for a listing search.
package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultHost is the listing site searched when no host is configured
const DefaultHost = "https://www.immobiliare.it"

// Options enumerates the optional search bounds. A zero value leaves the
// bound out of the query.
type Options struct {
	MinPrice int // prezzoMinimo, in euro
	MaxPrice int // prezzoMassimo, in euro
	MinArea  int // superficieMinima, in square meters
	MaxArea  int // superficieMassima, in square meters
}

// Query is one search: a city zone plus optional bounds
type Query struct {
	Host    string
	City    string
	Zone    string
	Options Options
}

// New creates a query for zone in city
func New(host, city, zone string, opts Options) Query {
	if host == "" {
		host = DefaultHost
	}
	return Query{
		Host:    strings.TrimSuffix(host, "/"),
		City:    city,
		Zone:    zone,
		Options: opts,
	}
}

// URL returns the first results page, sorted by relevance
func (q Query) URL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/vendita-case/%s/%s/?criterio=rilevanza", q.Host, slug(q.City), slug(q.Zone))

	bounds := []struct {
		name  string
		value int
	}{
		{"prezzoMinimo", q.Options.MinPrice},
		{"prezzoMassimo", q.Options.MaxPrice},
		{"superficieMinima", q.Options.MinArea},
		{"superficieMassima", q.Options.MaxArea},
	}
	for _, bound := range bounds {
		if bound.value > 0 {
			b.WriteString("&" + bound.name + "=" + strconv.Itoa(bound.value))
		}
	}
	return b.String()
}

// PageURL returns the URL of results page n for a first-page URL
func PageURL(base string, n int) string {
	sep := "&"
	if !strings.Contains(base, "?") {
		sep = "?"
	}
	return base + sep + "pag=" + strconv.Itoa(n)
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	return url.PathEscape(s)
}

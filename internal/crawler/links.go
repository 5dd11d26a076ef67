package crawler

import (
	"regexp"
	"strings"
)

const (
	secureSchemeMarker = "https"
	listingPathMarker  = "annunci"
	// EndOfResultsMarker in a results page's normalized text ends pagination
	EndOfResultsMarker = "404 not found"
)

var listingIDSuffix = regexp.MustCompile(`\d+/$`)

// DiscoverLinks returns the anchors that point at listing detail pages,
// in the order given. Duplicates are kept.
func DiscoverLinks(anchors []string) []string {
	var links []string
	for _, href := range anchors {
		if !strings.Contains(href, secureSchemeMarker) {
			continue
		}
		if !strings.Contains(href, listingPathMarker) {
			continue
		}
		if !listingIDSuffix.MatchString(href) {
			continue
		}
		links = append(links, href)
	}
	return links
}

package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscoverLinks(t *testing.T) {
	anchors := []string{
		"https://www.immobiliare.it/annunci/98765432/",
		"http://www.immobiliare.it/annunci/11111111/",
		"/annunci/22222222/",
		"https://www.immobiliare.it/annunci/98765432",
		"https://www.immobiliare.it/agenzie/33333333/",
		"https://www.immobiliare.it/annunci/trilocale/",
		"https://www.immobiliare.it/annunci/12345678/",
		"https://www.immobiliare.it/annunci/98765432/",
		"",
	}

	got := DiscoverLinks(anchors)
	assert.Equal(t, []string{
		"https://www.immobiliare.it/annunci/98765432/",
		"https://www.immobiliare.it/annunci/12345678/",
		"https://www.immobiliare.it/annunci/98765432/",
	}, got)
}

func TestDiscoverLinksEmpty(t *testing.T) {
	assert.Empty(t, DiscoverLinks(nil))
	assert.Empty(t, DiscoverLinks([]string{"https://www.immobiliare.it/"}))
}

package helpers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offending_urls.log")
	journal := NewFileJournal(path)

	journal.Record("https://www.immobiliare.it/annunci/1/", errors.New("timeout"))
	journal.Record("https://www.immobiliare.it/annunci/2/", errors.New("status 500"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "annunci/1/ timeout")
	assert.Contains(t, lines[1], "annunci/2/ status 500")
}

func TestNopJournal(t *testing.T) {
	var j Journal = NopJournal{}
	j.Record("https://example.com", errors.New("ignored"))
}

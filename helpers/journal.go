package helpers

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Journal records listing URLs that could not be processed
type Journal interface {
	Record(url string, err error)
}

// FileJournal appends offending URLs to a file, one line per failure
type FileJournal struct {
	mu   sync.Mutex
	path string
}

// NewFileJournal creates a journal writing to path
func NewFileJournal(path string) *FileJournal {
	return &FileJournal{path: path}
}

// Record appends "[timestamp] url error" to the journal file.
// Failures to write are reported on stderr and otherwise ignored.
func (j *FileJournal) Record(url string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, fileErr := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if fileErr != nil {
		fmt.Fprintf(os.Stderr, "journal: open %s: %v\n", j.path, fileErr)
		return
	}
	defer f.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f, "[%s] %s %v\n", timestamp, url, err)
}

// NopJournal discards every record
type NopJournal struct{}

// Record implements Journal
func (NopJournal) Record(string, error) {}

// Package lastresults persists the rows of the most recent listing command
// (ls, children, backlinks...) so follow-up commands can refer to a row by
// its number.
package lastresults

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aidanlsb/gmedit/internal/atomicfile"
)

// Source identifies the command that produced the results.
type Source string

const (
	SourceList      Source = "ls"
	SourceChildren  Source = "children"
	SourceAncestors Source = "ancestors"
	SourceParents   Source = "parents"
	SourceBacklinks Source = "backlinks"
)

// Entry is one numbered row.
type Entry struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// LastResults stores the results of the most recent listing command.
// Persisted to .gmedit/last-results.json.
type LastResults struct {
	Source    Source    `json:"source"`
	Target    string    `json:"target,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Results   []Entry   `json:"results"`
}

// Errors
var (
	ErrNoLastResults    = errors.New("no last results available")
	ErrNumberOutOfRange = errors.New("result number out of range")
)

// Path returns the path to the last-results.json file.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, ".gmedit", "last-results.json")
}

// New builds a LastResults stamped with the current time.
func New(source Source, target string, results []Entry) *LastResults {
	if results == nil {
		results = []Entry{}
	}
	return &LastResults{
		Source:    source,
		Target:    target,
		Timestamp: time.Now(),
		Results:   results,
	}
}

// Write saves the last results to disk.
func Write(projectRoot string, lr *LastResults) error {
	if err := os.MkdirAll(filepath.Dir(Path(projectRoot)), 0755); err != nil {
		return fmt.Errorf("failed to create .gmedit directory: %w", err)
	}

	data, err := json.MarshalIndent(lr, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal last results: %w", err)
	}
	if err := atomicfile.WriteFile(Path(projectRoot), data, 0o644); err != nil {
		return fmt.Errorf("failed to write last results: %w", err)
	}
	return nil
}

// Read loads the last results from disk.
func Read(projectRoot string) (*LastResults, error) {
	data, err := os.ReadFile(Path(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoLastResults
		}
		return nil, fmt.Errorf("failed to read last results: %w", err)
	}

	var lr LastResults
	if err := json.Unmarshal(data, &lr); err != nil {
		return nil, fmt.Errorf("failed to parse last results: %w", err)
	}
	return &lr, nil
}

// Get returns row num (1-indexed).
func (lr *LastResults) Get(num int) (Entry, error) {
	if num < 1 || num > len(lr.Results) {
		return Entry{}, fmt.Errorf("%w: %d (valid range: 1-%d)", ErrNumberOutOfRange, num, len(lr.Results))
	}
	return lr.Results[num-1], nil
}

// ParseNumber reports whether ref is a row number such as "3". Resource names
// cannot start with a digit, so a number never shadows a name.
func ParseNumber(ref string) (int, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, false
	}
	for _, r := range ref {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, false
	}
	return n, true
}

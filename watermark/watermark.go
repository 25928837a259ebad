// Package watermark persists the cutoff timestamp separating already
// processed submissions from new ones across runs.
package watermark

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Store reads and writes a single watermark timestamp at a fixed path. The
// file holds one RFC3339 line and has exactly one writer: the store itself,
// invoked once at the end of a run.
type Store struct {
	path string
	log  *zap.Logger
}

// NewStore creates a store backed by the file at path.
func NewStore(path string, log *zap.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load returns the persisted watermark, or ok=false when there is none. A
// missing file means a first-ever run and is not logged; an unreadable or
// unparseable file is logged as a warning and likewise treated as absent,
// which triggers a full re-scan rather than an abort.
func (s *Store) Load() (t time.Time, ok bool) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return time.Time{}, false
	}
	if err != nil {
		s.log.Warn("failed to read watermark file, starting fresh scan",
			zap.String("path", s.path), zap.Error(err))
		return time.Time{}, false
	}

	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		s.log.Warn("invalid timestamp in watermark file, starting fresh scan",
			zap.String("path", s.path), zap.Error(err))
		return time.Time{}, false
	}

	return parsed, true
}

// Save overwrites the watermark file with t. Callers treat a failed save as
// an error condition to log, not a reason to abort: the solutions already
// written this run remain valid on disk.
func (s *Store) Save(t time.Time) error {
	data := []byte(t.Format(time.RFC3339) + "\n")
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write watermark file: %w", err)
	}
	return nil
}

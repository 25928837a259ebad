package scrape

import (
	"fmt"
	"time"
)

// DedupKey identifies a committed solution: one file exists per key.
type DedupKey struct {
	ProblemID string
	Language  string
}

// Policy decides when an already-seen key may be committed again.
type Policy int

const (
	// PolicyKeepNewest recommits a key only when a strictly newer
	// submission time is observed for it. This stays correct even if the
	// listing order is not strictly descending.
	PolicyKeepNewest Policy = iota

	// PolicyFirstSeen never recommits a key within a run. Equivalent to
	// PolicyKeepNewest when the listing is truly newest-first.
	PolicyFirstSeen
)

// ParsePolicy maps a config string to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "keep-newest":
		return PolicyKeepNewest, nil
	case "first-seen":
		return PolicyFirstSeen, nil
	default:
		return 0, fmt.Errorf("unknown dedup policy %q (want keep-newest or first-seen)", name)
	}
}

// Ledger tracks which (problem, language) pairs have been committed during
// the current run, with the submission time recorded per key so the
// keep-newest policy can compare. It is run-scoped and discarded at run end.
type Ledger struct {
	policy    Policy
	committed map[DedupKey]time.Time
}

// NewLedger creates an empty ledger with the given gating policy.
func NewLedger(policy Policy) *Ledger {
	return &Ledger{
		policy:    policy,
		committed: make(map[DedupKey]time.Time),
	}
}

// ShouldCommit reports whether a submission for key observed at t should be
// committed under the ledger's policy.
func (l *Ledger) ShouldCommit(key DedupKey, t time.Time) bool {
	recorded, seen := l.committed[key]
	if !seen {
		return true
	}
	if l.policy == PolicyFirstSeen {
		return false
	}
	return t.After(recorded)
}

// Commit records key as committed at t. Callers must only commit after the
// solution file is actually on disk; an uncommitted key is what makes a
// failed row retryable on the next run.
func (l *Ledger) Commit(key DedupKey, t time.Time) {
	l.committed[key] = t
}

// Len returns the number of committed keys.
func (l *Ledger) Len() int {
	return len(l.committed)
}

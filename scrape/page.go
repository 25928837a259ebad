// Package scrape implements the incremental scrape-and-dedupe engine: it
// walks the paginated submissions listing newest-first, stops at the
// watermark of the previous run, and commits each accepted solution to disk
// exactly once per (problem, language) pair.
package scrape

import "time"

// Row holds the already-extracted fields of one submission listing entry.
// Rows are ephemeral: they exist only while being classified, and all markup
// knowledge needed to produce them stays inside the page client.
type Row struct {
	TimeText      string // raw relative-time text, e.g. "2 hours ago"
	ProblemURL    string // absolute URL of the problem page
	SubmissionURL string // absolute URL of the submission detail page
	Status        string // free-form status, "Accepted" when eligible
	Language      string // lower-cased language tag
}

// PageClient is the navigation capability the engine drives. There is one
// mutable navigation context per run: a main listing document plus at most
// one secondary document (a problem or submission detail view). Whichever
// operation opens a secondary context owns closing it, on success and
// failure paths alike.
type PageClient interface {
	// Navigate loads url as the main context.
	Navigate(url string) error

	// WaitForContent blocks until selector matches in the main context
	// or the timeout elapses.
	WaitForContent(selector string, timeout time.Duration) error

	// Rows returns the submission rows of the main context in listing
	// order (newest first).
	Rows() ([]Row, error)

	// OpenSecondary loads url as a temporary secondary context.
	OpenSecondary(url string) error

	// CloseSecondary discards the secondary context and returns focus to
	// the main context.
	CloseSecondary() error

	// RestoreMain forces focus back to the main context regardless of
	// current state. A failure here means the navigation state is
	// corrupted and the run must abort.
	RestoreMain() error

	// Source returns the rendered content of the active context.
	Source() (string, error)

	// NextPage advances the main context to the next listing page,
	// returning false when there are no more pages.
	NextPage() (bool, error)
}

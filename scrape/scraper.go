package scrape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"leetsync/timeparse"
	"leetsync/watermark"
)

// acceptedStatus is the only status eligible for export.
const acceptedStatus = "Accepted"

// Options configures a Scraper.
type Options struct {
	// SubmissionsURL is the listing to walk.
	SubmissionsURL string

	// TableSelector is the element whose presence means the listing
	// finished loading.
	TableSelector string

	// WaitTimeout bounds the wait for the listing to load.
	WaitTimeout time.Duration

	// Languages is the set of language tags to export.
	Languages []string

	// Policy is the dedup gating policy.
	Policy Policy

	// Now supplies the clock; defaults to time.Now.
	Now func() time.Time
}

// Result summarizes a finished run.
type Result struct {
	RowsSeen       int
	SolutionsSaved int
	// Watermark is the timestamp persisted at run end, nil when no
	// watermark existed before and no row was observed.
	Watermark *time.Time
}

// Scraper drives the scan: it classifies each listing row in order, stops at
// the previous run's watermark, resolves and extracts eligible rows, and
// commits each solution at most once per (problem, language) key. It is
// strictly sequential and owns the run-scoped resolver cache and ledger.
type Scraper struct {
	client    PageClient
	resolver  *Resolver
	extractor *Extractor
	writer    *Writer
	ledger    *Ledger
	store     *watermark.Store
	log       *zap.Logger

	submissionsURL string
	tableSelector  string
	waitTimeout    time.Duration
	languages      map[string]bool
	now            func() time.Time
}

// NewScraper wires a scraper from its collaborators.
func NewScraper(client PageClient, writer *Writer, store *watermark.Store, log *zap.Logger, opts Options) *Scraper {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.WaitTimeout == 0 {
		opts.WaitTimeout = 15 * time.Second
	}

	languages := make(map[string]bool, len(opts.Languages))
	for _, lang := range opts.Languages {
		languages[lang] = true
	}

	return &Scraper{
		client:         client,
		resolver:       NewResolver(client, log),
		extractor:      NewExtractor(client, log),
		writer:         writer,
		ledger:         NewLedger(opts.Policy),
		store:          store,
		log:            log,
		submissionsURL: opts.SubmissionsURL,
		tableSelector:  opts.TableSelector,
		waitTimeout:    opts.WaitTimeout,
		languages:      languages,
		now:            opts.Now,
	}
}

// Run walks the submissions listing newest-first until the watermark cutoff,
// the end of the listing, or an unrecoverable navigation failure. On every
// termination path the watermark is persisted from the best timestamp
// observed, so partial progress survives an abort.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	prior, hasPrior := s.store.Load()
	if hasPrior {
		s.log.Info("loaded watermark from previous run", zap.Time("watermark", prior))
	} else {
		s.log.Info("no previous scrape state found, scanning all submissions")
	}

	var newest time.Time
	hasNewest := false

	defer func() {
		final, ok := prior, hasPrior
		if hasNewest && (!ok || newest.After(final)) {
			final, ok = newest, true
		}
		if !ok {
			return
		}
		if err := s.store.Save(final); err != nil {
			// Solutions already written this run stay valid on disk.
			s.log.Error("failed to persist watermark", zap.Error(err))
			return
		}
		s.log.Info("persisted watermark", zap.Time("watermark", final))
		result.Watermark = &final
	}()

	if err := s.client.Navigate(s.submissionsURL); err != nil {
		return result, fmt.Errorf("failed to open submissions listing: %w", err)
	}
	if err := s.client.WaitForContent(s.tableSelector, s.waitTimeout); err != nil {
		return result, fmt.Errorf("submissions listing did not load: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rows, err := s.client.Rows()
		if err != nil {
			return result, fmt.Errorf("failed to read submission rows: %w", err)
		}
		s.log.Debug("scanning listing page", zap.Int("rows", len(rows)))

		for _, row := range rows {
			result.RowsSeen++

			submittedAt, ok := timeparse.Parse(row.TimeText, s.now())
			if !ok {
				s.log.Warn("could not parse relative time, assuming just now",
					zap.String("text", row.TimeText))
			}

			// The listing is newest-first, so the first row at or
			// before the watermark means this and everything after
			// it was seen by a previous run.
			if hasPrior && !submittedAt.After(prior) {
				s.log.Info("reached previously scraped submissions, stopping")
				return result, nil
			}

			if !hasNewest || submittedAt.After(newest) {
				newest = submittedAt
				hasNewest = true
			}

			if row.Status != acceptedStatus || !s.languages[row.Language] {
				s.log.Debug("skipping ineligible submission",
					zap.String("status", row.Status),
					zap.String("language", row.Language))
				continue
			}

			if err := s.commitRow(row, submittedAt, result); err != nil {
				s.log.Error("error processing submission row", zap.Error(err))
				if restoreErr := s.client.RestoreMain(); restoreErr != nil {
					return result, fmt.Errorf("failed to restore listing context: %w", restoreErr)
				}
			}
		}

		more, err := s.client.NextPage()
		if err != nil {
			s.log.Info("pagination ended", zap.Error(err))
			break
		}
		if !more {
			s.log.Info("reached last page of submissions")
			break
		}
	}

	return result, nil
}

// commitRow resolves, gates, extracts, and writes a single eligible row. The
// ledger is only updated after a successful non-empty extraction and a
// successful write, which is what makes a failed row retryable next run.
// A returned error means navigation may be off the listing context; the
// caller restores it.
func (s *Scraper) commitRow(row Row, submittedAt time.Time, result *Result) error {
	identity, err := s.resolver.Resolve(row.ProblemURL)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			s.log.Warn("could not resolve problem identity, skipping row",
				zap.String("url", row.ProblemURL))
			return nil
		}
		return err
	}

	key := DedupKey{ProblemID: identity.ID, Language: row.Language}
	if !s.ledger.ShouldCommit(key, submittedAt) {
		s.log.Info("skipping duplicate submission",
			zap.String("problem", identity.ID),
			zap.String("language", row.Language))
		return nil
	}

	code, err := s.extractor.Extract(row.SubmissionURL)
	if err != nil {
		return err
	}
	if code == "" {
		// Not committed: a future run retries this submission.
		return nil
	}

	if err := s.writer.Write(identity.ID, identity.Title, row.Language, code); err != nil {
		// Not committed either; the row is lost for this run only.
		s.log.Error("failed to save solution", zap.Error(err))
		return nil
	}

	s.ledger.Commit(key, submittedAt)
	result.SolutionsSaved++
	return nil
}

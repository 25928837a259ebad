package scrape

import (
	"errors"
	"regexp"

	"go.uber.org/zap"
)

// ErrIdentityNotFound is returned when a problem page does not expose the
// numeric identifier and title the resolver looks for. The affected row is
// skipped; the run continues.
var ErrIdentityNotFound = errors.New("problem identity not found")

// Identity is the stable identity of a problem: a 4-digit zero-padded
// numeric identifier (for consistent filename sorting) and a display title.
type Identity struct {
	ID    string
	Title string
}

var (
	frontendIDPattern = regexp.MustCompile(`"questionFrontendId":"(\d+)"`)
	titlePattern      = regexp.MustCompile(`"title":"([^"]+)"`)
)

// Resolver maps problem page URLs to identities, memoized for the lifetime
// of one run. Problem pages are assumed immutable during a run, so entries
// are never invalidated.
type Resolver struct {
	client PageClient
	log    *zap.Logger
	cache  map[string]Identity
}

// NewResolver creates a resolver navigating through client.
func NewResolver(client PageClient, log *zap.Logger) *Resolver {
	return &Resolver{
		client: client,
		log:    log,
		cache:  make(map[string]Identity),
	}
}

// Resolve returns the identity of the problem at problemURL. It opens the
// problem page in a secondary context and always closes it before
// returning, so the caller's listing context is intact on every path.
func (r *Resolver) Resolve(problemURL string) (Identity, error) {
	if identity, ok := r.cache[problemURL]; ok {
		return identity, nil
	}

	if err := r.client.OpenSecondary(problemURL); err != nil {
		return Identity{}, err
	}
	defer func() {
		if err := r.client.CloseSecondary(); err != nil {
			r.log.Warn("failed to close problem page", zap.Error(err))
		}
	}()

	source, err := r.client.Source()
	if err != nil {
		return Identity{}, err
	}

	idMatch := frontendIDPattern.FindStringSubmatch(source)
	titleMatch := titlePattern.FindStringSubmatch(source)
	if idMatch == nil || titleMatch == nil {
		return Identity{}, ErrIdentityNotFound
	}

	identity := Identity{
		ID:    padID(idMatch[1]),
		Title: titleMatch[1],
	}
	r.cache[problemURL] = identity
	return identity, nil
}

// padID left-pads a numeric identifier with zeros to 4 digits.
func padID(id string) string {
	for len(id) < 4 {
		id = "0" + id
	}
	return id
}

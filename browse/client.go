// Package browse is the concrete page client: an HTTP session with a cookie
// jar plus goquery documents standing in for browser tabs. It holds one main
// document (the submissions listing) and at most one secondary document (a
// problem or submission detail view), and it is the only package that knows
// the listing's markup.
package browse

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"leetsync/auth"
	"leetsync/config"
	"leetsync/scrape"
)

const userAgent = "leetsync/1.0 (submission exporter)"

// ErrNoPage is returned when an operation needs a loaded page and none is.
var ErrNoPage = errors.New("no page loaded")

// ErrSecondaryOpen is returned when a secondary context is opened while one
// is already active. The engine is strictly sequential, so this indicates a
// caller that failed to close its context.
var ErrSecondaryOpen = errors.New("secondary context already open")

type page struct {
	url string
	doc *goquery.Document
	src string
}

// Client implements scrape.PageClient over plain HTTP.
type Client struct {
	http      *http.Client
	log       *zap.Logger
	selectors config.Selectors
	base      *url.URL

	main      *page
	secondary *page
}

// NewClient creates a client with a fresh cookie jar. baseURL anchors
// relative links found in documents.
func NewClient(baseURL string, selectors config.Selectors, log *zap.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		log:       log,
		selectors: selectors,
		base:      base,
	}, nil
}

// SetCookies seeds the session with authentication cookies.
func (c *Client) SetCookies(cookies []auth.Cookie) {
	seeded := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		seeded = append(seeded, &http.Cookie{
			Name:   ck.Name,
			Value:  ck.Value,
			Domain: strings.TrimPrefix(ck.Domain, "."),
			Path:   ck.Path,
			Secure: ck.Secure,
		})
	}
	c.http.Jar.SetCookies(c.base, seeded)
	c.log.Debug("seeded session cookies", zap.Int("count", len(seeded)))
}

// fetch performs an authenticated GET and parses the body.
func (c *Client) fetch(pageURL string) (*page, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error fetching %s: %d %s", pageURL, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	src := string(body)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return &page{url: pageURL, doc: doc, src: src}, nil
}

// resolveURL makes href absolute against the base URL.
func (c *Client) resolveURL(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return c.base.ResolveReference(ref).String()
}

// Navigate loads pageURL as the main context.
func (c *Client) Navigate(pageURL string) error {
	p, err := c.fetch(pageURL)
	if err != nil {
		return err
	}
	c.main = p
	c.log.Debug("navigated main context", zap.String("url", pageURL))
	return nil
}

// WaitForContent re-fetches the main context until selector matches or
// timeout elapses. This is the bounded wait primitive the engine relies on
// instead of its own timeout logic.
func (c *Client) WaitForContent(selector string, timeout time.Duration) error {
	if c.main == nil {
		return ErrNoPage
	}

	deadline := time.Now().Add(timeout)
	for {
		if c.main.doc.Find(selector).Length() > 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for %q in %s", selector, c.main.url)
		}
		time.Sleep(500 * time.Millisecond)

		p, err := c.fetch(c.main.url)
		if err != nil {
			return err
		}
		c.main = p
	}
}

// Rows extracts the submission rows of the main context in document order.
// Rows with fewer than five cells are skipped.
func (c *Client) Rows() ([]scrape.Row, error) {
	if c.main == nil {
		return nil, ErrNoPage
	}

	var rows []scrape.Row
	c.main.doc.Find(c.selectors.Row).Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 5 {
			c.log.Debug("skipping row with insufficient columns", zap.Int("index", i))
			return
		}

		problemHref, _ := cells.Eq(1).Find("a").First().Attr("href")
		submissionHref, _ := cells.Eq(2).Find("a").First().Attr("href")

		rows = append(rows, scrape.Row{
			TimeText:      strings.TrimSpace(cells.Eq(0).Text()),
			ProblemURL:    c.resolveURL(problemHref),
			SubmissionURL: c.resolveURL(submissionHref),
			Status:        strings.TrimSpace(cells.Eq(2).Text()),
			Language:      strings.ToLower(strings.TrimSpace(cells.Eq(4).Text())),
		})
	})

	return rows, nil
}

// OpenSecondary loads pageURL as the secondary context.
func (c *Client) OpenSecondary(pageURL string) error {
	if c.secondary != nil {
		return ErrSecondaryOpen
	}

	p, err := c.fetch(pageURL)
	if err != nil {
		return err
	}
	c.secondary = p
	c.log.Debug("opened secondary context", zap.String("url", pageURL))
	return nil
}

// CloseSecondary discards the secondary context.
func (c *Client) CloseSecondary() error {
	if c.secondary == nil {
		return errors.New("no secondary context open")
	}
	c.secondary = nil
	return nil
}

// RestoreMain drops any secondary context unconditionally. For an HTTP
// session this cannot fail; it exists so the engine can recover focus after
// a row-level error the same way a browser driver would.
func (c *Client) RestoreMain() error {
	c.secondary = nil
	return nil
}

// Source returns the rendered content of the active context: the secondary
// one when open, the main one otherwise.
func (c *Client) Source() (string, error) {
	if c.secondary != nil {
		return c.secondary.src, nil
	}
	if c.main == nil {
		return "", ErrNoPage
	}
	return c.main.src, nil
}

// NextPage follows the pager's "next" link in the main context. It returns
// false without error when the control is absent, disabled, or has no link.
func (c *Client) NextPage() (bool, error) {
	if c.main == nil {
		return false, ErrNoPage
	}

	next := c.main.doc.Find(c.selectors.NextPage).First()
	if next.Length() == 0 {
		return false, nil
	}
	if class, _ := next.Attr("class"); strings.Contains(class, "disabled") {
		return false, nil
	}

	href, ok := next.Find("a").First().Attr("href")
	if !ok {
		href, ok = next.Attr("href")
	}
	if !ok || href == "" {
		return false, nil
	}

	if err := c.Navigate(c.resolveURL(href)); err != nil {
		return false, err
	}
	return true, nil
}

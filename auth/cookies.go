// Package auth loads and persists the browser cookies used to authenticate
// the scraping session.
package auth

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// ErrNoCookies is returned when the cookie file yields no usable records.
// Authentication is a hard precondition, so callers abort before any
// listing navigation happens.
var ErrNoCookies = errors.New("no valid cookies available")

// Cookie is one authentication record. Name and Value are required; the
// remaining attributes are passed through to the page client's session.
type Cookie struct {
	Name    string `xml:"name"`
	Value   string `xml:"value"`
	Domain  string `xml:"domain"`
	Path    string `xml:"path"`
	Secure  bool   `xml:"secure"`
	Expires string `xml:"expires"`
}

type cookieFile struct {
	XMLName xml.Name `xml:"cookies"`
	Cookies []Cookie `xml:"cookie"`
}

// Load reads cookies from the XML file at path. Records missing a name or a
// value are skipped with a warning. An unreadable or unparseable file, or a
// file with zero usable records, is an error.
func Load(path string, log *zap.Logger) ([]Cookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookie file: %w", err)
	}

	var parsed cookieFile
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse cookie file: %w", err)
	}

	var cookies []Cookie
	for _, c := range parsed.Cookies {
		if c.Name == "" || c.Value == "" {
			log.Warn("skipping cookie with missing name or value",
				zap.String("name", c.Name))
			continue
		}
		if c.Path == "" {
			c.Path = "/"
		}
		cookies = append(cookies, c)
	}

	if len(cookies) == 0 {
		return nil, ErrNoCookies
	}
	return cookies, nil
}

// Save writes the cookie set to the XML file at path, overwriting any
// previous contents.
func Save(path string, cookies []Cookie) error {
	data, err := xml.MarshalIndent(cookieFile{Cookies: cookies}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}

	data = append([]byte(xml.Header), data...)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	return nil
}

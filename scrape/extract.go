package scrape

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// The submission detail page embeds the source text as an escaped
// single-quoted literal.
var submissionCodePattern = regexp.MustCompile(`(?s)submissionCode:\s*'(.*?)',\s*\n`)

// Extractor pulls the raw solution source out of submission detail pages.
type Extractor struct {
	client PageClient
	log    *zap.Logger
}

// NewExtractor creates an extractor navigating through client.
func NewExtractor(client PageClient, log *zap.Logger) *Extractor {
	return &Extractor{client: client, log: log}
}

// Extract opens the submission detail page in a secondary context, locates
// the embedded code literal, and returns the decoded, trimmed source text.
// A page without the literal yields an empty string and a warning, not an
// error: the caller leaves the ledger untouched so a future run retries the
// row. The secondary context is always closed before returning.
func (e *Extractor) Extract(submissionURL string) (string, error) {
	if err := e.client.OpenSecondary(submissionURL); err != nil {
		return "", err
	}
	defer func() {
		if err := e.client.CloseSecondary(); err != nil {
			e.log.Warn("failed to close submission page", zap.Error(err))
		}
	}()

	source, err := e.client.Source()
	if err != nil {
		return "", err
	}

	match := submissionCodePattern.FindStringSubmatch(source)
	if match == nil {
		e.log.Warn("submission code not found in page source",
			zap.String("url", submissionURL))
		return "", nil
	}

	return strings.TrimSpace(html.UnescapeString(decodeEscapes(match[1]))), nil
}

// decodeEscapes decodes the backslash escape sequences used in the embedded
// code literal: \n, \t, \r, \\, \', \", \uXXXX, and \xNN. Unknown or
// truncated sequences are passed through unchanged.
func decodeEscapes(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}

		switch s[i+1] {
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		case '\\':
			b.WriteByte('\\')
			i += 2
		case '\'':
			b.WriteByte('\'')
			i += 2
		case '"':
			b.WriteByte('"')
			i += 2
		case '/':
			b.WriteByte('/')
			i += 2
		case 'u':
			if i+6 <= len(s) {
				if v, err := strconv.ParseUint(s[i+2:i+6], 16, 32); err == nil {
					b.WriteRune(rune(v))
					i += 6
					continue
				}
			}
			b.WriteByte(s[i])
			i++
		case 'x':
			if i+4 <= len(s) {
				if v, err := strconv.ParseUint(s[i+2:i+4], 16, 16); err == nil {
					b.WriteRune(rune(v))
					i += 4
					continue
				}
			}
			b.WriteByte(s[i])
			i++
		default:
			b.WriteByte(s[i])
			i++
		}
	}

	return b.String()
}

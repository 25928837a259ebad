package scrape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestDecodeEscapes verifies the escape sequences the embedding uses
func TestDecodeEscapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"newline", `a\nb`, "a\nb"},
		{"tab", `a\tb`, "a\tb"},
		{"carriage return", `a\rb`, "a\rb"},
		{"backslash", `a\\b`, `a\b`},
		{"single quote", `it\'s`, "it's"},
		{"double quote", `say \"hi\"`, `say "hi"`},
		{"forward slash", `a\/b`, "a/b"},
		{"unicode", `x \u0026 y`, "x & y"},
		{"hex", `\x41\x42`, "AB"},
		{"unknown sequence passes through", `a\qb`, `a\qb`},
		{"truncated unicode passes through", `a\u00`, `a\u00`},
		{"trailing backslash", `a\`, `a\`},
		{"plain text", "no escapes", "no escapes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeEscapes(tt.in))
		})
	}
}

// TestExtractor_DecodesCode verifies literal location, decoding, trimming
func TestExtractor_DecodesCode(t *testing.T) {
	client := newFakeClient(nil)
	client.sources["s"] = submissionPage(`def f():\n    return a & b\n`)

	extractor := NewExtractor(client, zap.NewNop())
	code, err := extractor.Extract("s")

	require.NoError(t, err)
	assert.Equal(t, "def f():\n    return a & b", code)
	assert.False(t, client.secondaryOpen, "submission page should be closed before returning")
}

// TestExtractor_HTMLEntities verifies entity decoding after escapes
func TestExtractor_HTMLEntities(t *testing.T) {
	client := newFakeClient(nil)
	client.sources["s"] = submissionPage(`if (a &lt; b &amp;&amp; c &gt; d) {}`)

	extractor := NewExtractor(client, zap.NewNop())
	code, err := extractor.Extract("s")

	require.NoError(t, err)
	assert.Equal(t, "if (a < b && c > d) {}", code)
}

// TestExtractor_MissingLiteral verifies the non-fatal empty result
func TestExtractor_MissingLiteral(t *testing.T) {
	client := newFakeClient(nil)
	client.sources["s"] = "<html>no code embedded</html>"

	extractor := NewExtractor(client, zap.NewNop())
	code, err := extractor.Extract("s")

	require.NoError(t, err, "a missing literal is recoverable, not an error")
	assert.Empty(t, code)
	assert.False(t, client.secondaryOpen)
}

// TestExtractor_NavigationErrorPropagates verifies open failures bubble up
func TestExtractor_NavigationErrorPropagates(t *testing.T) {
	client := newFakeClient(nil)
	client.openErr["s"] = errors.New("boom")

	extractor := NewExtractor(client, zap.NewNop())
	_, err := extractor.Extract("s")

	assert.EqualError(t, err, "boom")
}

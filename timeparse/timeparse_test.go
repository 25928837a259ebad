package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestParse_SingleUnit verifies each supported unit converts correctly
func TestParse_SingleUnit(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		text    string
		minutes int
	}{
		{"1 minute ago", 1},
		{"5 minutes ago", 5},
		{"2 hours ago", 120},
		{"1 day ago", 1440},
		{"3 weeks ago", 30240},
		{"1 month ago", 43800},
		{"2 years ago", 1051200},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			parsed, ok := Parse(tt.text, now)
			assert.True(t, ok, "should parse %q", tt.text)
			expected := now.Add(-time.Duration(tt.minutes) * time.Minute)
			assert.WithinDuration(t, expected, parsed, time.Minute)
		})
	}
}

// TestParse_MultipleTokens verifies compound timestamps sum their tokens
func TestParse_MultipleTokens(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	parsed, ok := Parse("1 day 3 hours ago", now)
	assert.True(t, ok)
	assert.WithinDuration(t, now.Add(-1620*time.Minute), parsed, time.Minute)

	parsed, ok = Parse("1 month, 2 weeks ago", now)
	assert.True(t, ok)
	assert.WithinDuration(t, now.Add(-(43800+20160)*time.Minute), parsed, time.Minute)
}

// TestParse_IrregularWhitespace verifies NBSP and whitespace runs normalize
func TestParse_IrregularWhitespace(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	parsed, ok := Parse("2\u00a0hours   ago", now)
	assert.True(t, ok, "non-breaking spaces should normalize")
	assert.WithinDuration(t, now.Add(-120*time.Minute), parsed, time.Minute)

	parsed, ok = Parse("  3 \n days\t ago ", now)
	assert.True(t, ok)
	assert.WithinDuration(t, now.Add(-3*1440*time.Minute), parsed, time.Minute)
}

// TestParse_NoMatch verifies the "just now" fallback never raises
func TestParse_NoMatch(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	for _, text := range []string{"", "garbage", "yesterday", "5 fortnights ago"} {
		parsed, ok := Parse(text, now)
		assert.False(t, ok, "%q should signal the fallback", text)
		assert.Equal(t, now, parsed, "fallback should be the anchor time")
	}
}

// TestParse_Pluralization verifies singular and plural units both match
func TestParse_Pluralization(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	singular, ok := Parse("1 hour ago", now)
	assert.True(t, ok)
	plural, ok2 := Parse("1 hours ago", now)
	assert.True(t, ok2)
	assert.Equal(t, singular, plural)
}

// TestNormalize verifies whitespace normalization on its own
func TestNormalize(t *testing.T) {
	assert.Equal(t, "2 hours ago", Normalize("2\u00a0hours   ago"))
	assert.Equal(t, "a b c", Normalize("  a \t b \n c  "))
	assert.Equal(t, "", Normalize("   "))
}

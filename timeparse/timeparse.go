// Package timeparse converts the relative timestamps shown on submission
// listings ("2 hours ago", "1 month, 2 weeks ago") into absolute times.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Minutes per unit. Fixed approximations, not calendar-aware.
var unitMinutes = map[string]int{
	"minute": 1,
	"hour":   60,
	"day":    1440,
	"week":   10080,
	"month":  43800,
	"year":   525600,
}

var tokenPattern = regexp.MustCompile(`(\d+)\s+(minute|hour|day|week|month|year)s?`)

// Normalize replaces non-breaking spaces with ordinary spaces and collapses
// runs of whitespace to a single space.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.Join(strings.Fields(text), " ")
}

// Parse computes the absolute time referred to by a relative timestamp,
// anchored to now. Every "<integer> <unit>" token contributes its value
// times the unit's minute conversion to the total elapsed time.
//
// When no token matches, Parse returns now unchanged and ok=false so the
// caller can log the degenerate "just now" fallback. It never fails hard.
func Parse(text string, now time.Time) (t time.Time, ok bool) {
	normalized := Normalize(text)

	matches := tokenPattern.FindAllStringSubmatch(normalized, -1)
	if len(matches) == 0 {
		return now, false
	}

	totalMinutes := 0
	for _, match := range matches {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			// Unreachable given the pattern, but don't let a bad
			// token poison the sum.
			continue
		}
		totalMinutes += value * unitMinutes[match[2]]
	}

	return now.Add(-time.Duration(totalMinutes) * time.Minute), true
}

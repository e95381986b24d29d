// Package daterange normalizes the date window sent to the NLPearl API.
// The upstream expects plain calendar dates (YYYY-MM-DD) and requires
// both ends of the range.
package daterange

import (
	"strings"
	"time"
)

// DefaultWindow is how far back the default query range reaches.
const DefaultWindow = 30 * 24 * time.Hour

const layout = "2006-01-02"

// Default returns the default query range: the last 30 days ending today,
// both rendered as calendar dates.
func Default() (from, to string) {
	return defaultAt(time.Now())
}

func defaultAt(now time.Time) (from, to string) {
	return now.Add(-DefaultWindow).UTC().Format(layout), now.UTC().Format(layout)
}

// ToCalendarDate truncates a date-time string to its calendar date by
// taking the part before the first 'T'. Date-only inputs pass through
// unchanged; no timezone conversion is performed.
func ToCalendarDate(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

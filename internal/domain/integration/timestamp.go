package integration

import (
	"fmt"
	"strings"
	"time"
)

// Inventory timestamps arrive as ISO-8601 with either six or seven
// fractional-second digits plus a UTC offset, depending on which upstream
// subsystem produced the record. Both forms are normalized to exactly six
// digits before parsing; the offset is preserved.
const (
	timestampLayout       = "2006-01-02T15:04:05.000000Z07:00"
	timestampLayoutNoFrac = "2006-01-02T15:04:05Z07:00"
)

// NormalizeTimestamp rewrites the fractional-second part of s to exactly six
// digits, truncating extra precision and right-padding short fractions with
// zeros. A value without a fractional part is returned unchanged.
func NormalizeTimestamp(s string) string {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	end := dot + 1
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	frac := s[dot+1 : end]
	if len(frac) > 6 {
		frac = frac[:6]
	} else {
		frac += strings.Repeat("0", 6-len(frac))
	}
	return s[:dot+1] + frac + s[end:]
}

// ParseTimestamp parses an upstream last-modified or shipped timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrEmptyTimestamp
	}
	layout := timestampLayout
	if strings.IndexByte(s, '.') < 0 {
		layout = timestampLayoutNoFrac
	}
	t, err := time.Parse(layout, NormalizeTimestamp(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return t, nil
}

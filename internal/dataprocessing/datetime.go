package dataprocessing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "attendcli/internal/errors"
)

// dateTimePatterns is the ordered list of accepted timestamp layouts.
// First successful parse wins; the order matters because the looser
// month/day layouts would otherwise swallow full-date inputs.
var dateTimePatterns = []string{
	"2006/1/2 15:4",
	"2006-1-2 15:4",
	"2006/1/2 15:4:5",
	"2006-1-2 15:4:5",
	"1/2 15:4",
	"1-2 15:4",
}

// deviceTokenRe matches an embedded device/terminal code: a standalone
// alphanumeric token containing at least one letter, e.g. "FP01" or "T3".
var deviceTokenRe = regexp.MustCompile(`^[0-9A-Za-z]*[A-Za-z][0-9A-Za-z]*$`)

// meridiemMarkers are stripped before a final retry; some exports append
// them without the hour actually being 12-hour based.
var meridiemMarkers = []string{"上午", "下午"}

// ParseDateTime converts a raw timestamp string into a normalized instant.
// Device code tokens are stripped first. Failure is row-local: the caller
// drops the punch and continues.
func ParseDateTime(raw string) (time.Time, error) {
	cleaned := stripDeviceTokens(strings.TrimSpace(raw))

	if t, ok := tryPatterns(cleaned); ok {
		return t, nil
	}

	// Retry without 上午/下午 markers. Device exports carry these as
	// decoration on wall-clock hours, so no 12-hour adjustment is applied.
	stripped := cleaned
	for _, marker := range meridiemMarkers {
		stripped = strings.ReplaceAll(stripped, marker, "")
	}
	stripped = strings.TrimSpace(stripped)
	if stripped != cleaned {
		if t, ok := tryPatterns(stripped); ok {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%q: %w", raw, apperrors.ErrDateParse)
}

func tryPatterns(s string) (time.Time, bool) {
	for _, layout := range dateTimePatterns {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// stripDeviceTokens removes whitespace-delimited device code tokens while
// preserving everything else, including the single space between the date
// and time parts.
func stripDeviceTokens(s string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if deviceTokenRe.MatchString(f) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// calendarDateRe finds the first D/D/D-shaped substring in raw timestamp
// text. Grouping keys off this match, independent of which layout parsed
// the same string.
var calendarDateRe = regexp.MustCompile(`(\d{1,4})[/-](\d{1,2})[/-](\d{1,2})`)

// ExtractDate pulls the calendar date out of the raw datetime text. A punch
// with no extractable date is excluded from grouping; this is group-local
// and recoverable.
func ExtractDate(raw string) (time.Time, error) {
	m := calendarDateRe.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, fmt.Errorf("%q: %w", raw, apperrors.ErrDateExtraction)
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%q: %w", raw, apperrors.ErrDateExtraction)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

package dataprocessing

import (
	"math"
	"time"
)

// ComputeHours derives worked and overtime hours from the rounded check-in,
// the raw check-out and the inferred break length. The value stays
// unrounded here; two-decimal rounding happens only at presentation time.
//
// Actual hours can go negative when the 60-minute break floor exceeds a
// very short span. That value is reported as-is; clamping would silently
// hide the degenerate shift.
func ComputeHours(checkInRounded, checkOut time.Time, breakMinutes int, standardHours float64) (actual, overtime float64) {
	spanMinutes := checkOut.Sub(checkInRounded).Minutes()
	actual = (spanMinutes - float64(breakMinutes)) / 60

	overtime = math.Max(0, actual-standardHours)
	return actual, overtime
}

// Round2 rounds a float to two decimal places for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

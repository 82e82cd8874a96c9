package dataprocessing

import (
	"time"

	"attendcli/internal/config"
	"attendcli/pkg/contracts/domain"
)

// BreakWindow is an inferred rest interval. Minutes drive the hour
// arithmetic; the instants drive display, and the two can diverge when the
// minimum-duration floor kicks in.
type BreakWindow struct {
	Start   time.Time
	End     time.Time
	Minutes int
}

// Declared reports whether a break was found or synthesized.
func (b BreakWindow) Declared() bool {
	return b.Minutes > 0
}

// BreakEstimator infers a lunch/rest window from an ordered punch sequence.
// Punch logs rarely include an explicit lunch punch type, so break existence
// and length are inferred from timing patterns.
type BreakEstimator struct {
	minGapMinutes int
	maxGapMinutes int

	// candidate pairs must start inside this time-of-day window
	windowStartSec int
	windowEndSec   int
}

// NewBreakEstimator creates an estimator with the given gap bounds in
// minutes. The detection window is fixed at 10:30–14:30.
func NewBreakEstimator(minGapMinutes, maxGapMinutes int) *BreakEstimator {
	return &BreakEstimator{
		minGapMinutes:  minGapMinutes,
		maxGapMinutes:  maxGapMinutes,
		windowStartSec: secondsOfDay(config.BreakWindowStart),
		windowEndSec:   secondsOfDay(config.BreakWindowEnd),
	}
}

// DefaultBreakEstimator returns an estimator with the standard 30–120
// minute gap bounds.
func DefaultBreakEstimator() *BreakEstimator {
	return NewBreakEstimator(config.DefaultBreakMinGap, config.DefaultBreakMaxGap)
}

// Estimate scans the sorted punches of one employee-day for a break window.
// The first adjacent pair whose gap lies inside the configured bounds and
// whose leading punch falls inside the detection window wins. Break length
// is floored at 60 minutes even when the raw gap is shorter, while the end
// instant stays at the trailing punch. When no pair qualifies, a fixed
// 60-minute break is synthesized four hours after check-in, provided that
// still falls before check-out.
func (e *BreakEstimator) Estimate(punches []domain.NormalizedPunch, checkIn, checkOut time.Time) BreakWindow {
	for i := 0; i+1 < len(punches); i++ {
		lead := punches[i].Instant
		trail := punches[i+1].Instant

		gap := trail.Sub(lead).Minutes()
		if gap < float64(e.minGapMinutes) || gap > float64(e.maxGapMinutes) {
			continue
		}
		if !e.inWindow(lead) {
			continue
		}

		minutes := int(gap)
		if minutes < config.MinimumBreakMinutes {
			minutes = config.MinimumBreakMinutes
		}
		return BreakWindow{Start: lead, End: trail, Minutes: minutes}
	}

	// Fallback: synthesize a lunch break partway into a long unbroken span.
	start := checkIn.Add(config.FallbackBreakOffset)
	if start.Before(checkOut) {
		return BreakWindow{
			Start:   start,
			End:     start.Add(time.Duration(config.MinimumBreakMinutes) * time.Minute),
			Minutes: config.MinimumBreakMinutes,
		}
	}

	return BreakWindow{}
}

func (e *BreakEstimator) inWindow(t time.Time) bool {
	sec := t.Hour()*3600 + t.Minute()*60 + t.Second()
	return sec >= e.windowStartSec && sec <= e.windowEndSec
}

// secondsOfDay parses an "HH:MM" constant into seconds after midnight.
func secondsOfDay(hhmm string) int {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic("invalid break window constant: " + hhmm)
	}
	return t.Hour()*3600 + t.Minute()*60
}

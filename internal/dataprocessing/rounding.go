package dataprocessing

import (
	"time"

	"attendcli/pkg/contracts/domain"
)

// RoundCheckIn applies the check-in rounding policy against the employee's
// configured start-of-day:
//
//   - at or after the configured start: floor the minutes to zero. This is
//     deliberate truncation, not nearest-hour rounding.
//   - before the configured start with minutes on the clock: ceiling to the
//     next whole hour, so fractional early-arrival minutes are not credited.
//   - before the configured start exactly on the hour: unchanged.
//
// Check-out is never rounded anywhere in the pipeline.
func RoundCheckIn(checkIn time.Time, start domain.StartTime) time.Time {
	y, m, d := checkIn.Date()
	startInstant := time.Date(y, m, d, start.Hour, start.Minute, 0, 0, checkIn.Location())

	if !checkIn.Before(startInstant) {
		return time.Date(y, m, d, checkIn.Hour(), 0, 0, 0, checkIn.Location())
	}

	if checkIn.Minute() > 0 {
		return time.Date(y, m, d, checkIn.Hour()+1, 0, 0, 0, checkIn.Location())
	}

	return checkIn
}

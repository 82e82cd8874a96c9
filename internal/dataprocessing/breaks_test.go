package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"attendcli/pkg/contracts/domain"
)

func punchesAt(times ...string) []domain.NormalizedPunch {
	punches := make([]domain.NormalizedPunch, 0, len(times))
	for i, hm := range times {
		t, err := time.Parse("2006-01-02 15:04", "2024-01-15 "+hm)
		if err != nil {
			panic(err)
		}
		punches = append(punches, domain.NormalizedPunch{
			EmployeeID: "001",
			Instant:    t,
			Source:     domain.RawPunch{RowIndex: i},
		})
	}
	return punches
}

func at(hm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2024-01-15 "+hm)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBreakEstimatorDetection(t *testing.T) {
	estimator := DefaultBreakEstimator()

	tests := []struct {
		name        string
		punches     []domain.NormalizedPunch
		wantStart   string
		wantEnd     string
		wantMinutes int
	}{
		{
			name:        "classic lunch window",
			punches:     punchesAt("08:30", "12:00", "13:00", "17:30"),
			wantStart:   "12:00",
			wantEnd:     "13:00",
			wantMinutes: 60,
		},
		{
			name:        "short gap floored to sixty minutes",
			punches:     punchesAt("08:00", "11:50", "12:30", "18:00"),
			wantStart:   "11:50",
			wantEnd:     "12:30",
			wantMinutes: 60, // raw gap is 40, floor forces 60 while the end instant stays 12:30
		},
		{
			name:        "gap of exactly thirty minutes qualifies",
			punches:     punchesAt("08:00", "12:00", "12:30", "17:00"),
			wantStart:   "12:00",
			wantEnd:     "12:30",
			wantMinutes: 60,
		},
		{
			name:        "gap of exactly hundred twenty minutes qualifies",
			punches:     punchesAt("08:00", "12:00", "14:00", "18:00"),
			wantStart:   "12:00",
			wantEnd:     "14:00",
			wantMinutes: 120,
		},
		{
			name:        "window start boundary inclusive",
			punches:     punchesAt("08:00", "10:30", "11:30", "17:00"),
			wantStart:   "10:30",
			wantEnd:     "11:30",
			wantMinutes: 60,
		},
		{
			name:        "window end boundary inclusive",
			punches:     punchesAt("08:00", "14:30", "15:30", "19:00"),
			wantStart:   "14:30",
			wantEnd:     "15:30",
			wantMinutes: 60,
		},
		{
			name:        "first qualifying pair wins",
			punches:     punchesAt("08:00", "11:00", "12:00", "13:00", "17:30"),
			wantStart:   "11:00",
			wantEnd:     "12:00",
			wantMinutes: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkIn := tt.punches[0].Instant
			checkOut := tt.punches[len(tt.punches)-1].Instant

			brk := estimator.Estimate(tt.punches, checkIn, checkOut)
			assert.True(t, brk.Declared())
			assert.Equal(t, at(tt.wantStart), brk.Start)
			assert.Equal(t, at(tt.wantEnd), brk.End)
			assert.Equal(t, tt.wantMinutes, brk.Minutes)
		})
	}
}

func TestBreakEstimatorFallback(t *testing.T) {
	estimator := DefaultBreakEstimator()

	t.Run("synthetic break four hours after check-in", func(t *testing.T) {
		// Only two punches, gap far beyond the detection bound.
		punches := punchesAt("08:00", "18:00")
		brk := estimator.Estimate(punches, at("08:00"), at("18:00"))

		assert.True(t, brk.Declared())
		assert.Equal(t, at("12:00"), brk.Start)
		assert.Equal(t, at("13:00"), brk.End)
		assert.Equal(t, 60, brk.Minutes)
	})

	t.Run("no break when synthetic start reaches check-out", func(t *testing.T) {
		punches := punchesAt("08:00", "11:00")
		brk := estimator.Estimate(punches, at("08:00"), at("11:00"))

		assert.False(t, brk.Declared())
		assert.Equal(t, 0, brk.Minutes)
	})

	t.Run("no break when synthetic start equals check-out", func(t *testing.T) {
		punches := punchesAt("08:00", "12:00")
		brk := estimator.Estimate(punches, at("08:00"), at("12:00"))

		assert.False(t, brk.Declared())
	})
}

func TestBreakEstimatorRejectsOutsideWindow(t *testing.T) {
	estimator := DefaultBreakEstimator()

	// 09:00→10:00 gap qualifies on length but the lead punch is before
	// 10:30, so detection skips it; the fallback fires instead.
	punches := punchesAt("08:00", "09:00", "10:00", "18:00")
	brk := estimator.Estimate(punches, at("08:00"), at("18:00"))

	assert.True(t, brk.Declared())
	assert.Equal(t, at("12:00"), brk.Start)
	assert.Equal(t, 60, brk.Minutes)
}

func TestBreakEstimatorCustomBounds(t *testing.T) {
	estimator := NewBreakEstimator(45, 90)

	// 40-minute gap is below the custom minimum.
	punches := punchesAt("08:00", "12:00", "12:40", "17:30")
	brk := estimator.Estimate(punches, at("08:00"), at("17:30"))

	assert.Equal(t, at("12:00"), brk.Start)
	// Fallback break, not the 12:00 pair: start is check-in + 4h.
	assert.Equal(t, 60, brk.Minutes)
}

func TestBreakEstimatorEmptyAndSingle(t *testing.T) {
	estimator := DefaultBreakEstimator()

	brk := estimator.Estimate(nil, at("08:00"), at("08:00"))
	assert.False(t, brk.Declared())

	brk = estimator.Estimate(punchesAt("09:00"), at("09:00"), at("09:00"))
	assert.False(t, brk.Declared())
}

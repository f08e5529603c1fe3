//go:build unit

package rental_test

import (
	"testing"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/rental"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewPeriod(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		errIs error
	}{
		{name: "valid range", start: "2026-03-02", end: "2026-03-08"},
		{name: "end equal to start", start: "2026-03-02", end: "2026-03-02", errIs: rental.ErrEndNotAfterStart},
		{name: "end before start", start: "2026-03-08", end: "2026-03-02", errIs: rental.ErrEndNotAfterStart},
		{name: "30 day spread is the maximum", start: "2026-03-01", end: "2026-03-31"},
		{name: "31 day spread is too long", start: "2026-03-01", end: "2026-04-01", errIs: rental.ErrPeriodTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rental.NewPeriod(day(tt.start), day(tt.end))
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("time of day is truncated", func(t *testing.T) {
		start := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
		end := time.Date(2026, 3, 8, 0, 1, 0, 0, time.UTC)

		p, err := rental.NewPeriod(start, end)
		require.NoError(t, err)
		assert.Equal(t, 7, p.Days())
	})
}

func TestPeriodDays(t *testing.T) {
	p := mustPeriod(t, "2026-03-06", "2026-03-08") // Friday to Sunday
	assert.Equal(t, 3, p.Days())
}

func TestPeriodOverlaps(t *testing.T) {
	base := mustPeriod(t, "2026-03-10", "2026-03-15")

	tests := []struct {
		name  string
		other rental.Period
		want  bool
	}{
		{"identical range", mustPeriod(t, "2026-03-10", "2026-03-15"), true},
		{"fully inside", mustPeriod(t, "2026-03-11", "2026-03-14"), true},
		{"fully containing", mustPeriod(t, "2026-03-08", "2026-03-18"), true},
		{"overlapping the tail", mustPeriod(t, "2026-03-14", "2026-03-20"), true},
		{"starting on the end day conflicts", mustPeriod(t, "2026-03-15", "2026-03-20"), true},
		{"ending on the start day conflicts", mustPeriod(t, "2026-03-05", "2026-03-10"), true},
		{"strictly before", mustPeriod(t, "2026-03-01", "2026-03-09"), false},
		{"strictly after", mustPeriod(t, "2026-03-16", "2026-03-20"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestPeriodValidateStartsAfter(t *testing.T) {
	p := mustPeriod(t, "2026-03-10", "2026-03-15")

	assert.NoError(t, p.ValidateStartsAfter(day("2026-03-09")))
	assert.ErrorIs(t, p.ValidateStartsAfter(day("2026-03-10")), rental.ErrStartNotFuture)
	assert.ErrorIs(t, p.ValidateStartsAfter(day("2026-03-11")), rental.ErrStartNotFuture)

	// Same calendar day counts as not-future regardless of clock time.
	lateOnPreviousDay := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)
	assert.NoError(t, p.ValidateStartsAfter(lateOnPreviousDay))
}

func TestPeriodOverdueDays(t *testing.T) {
	p := mustPeriod(t, "2026-03-10", "2026-03-15")

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"on the end day", day("2026-03-15"), 0},
		{"one full day late", day("2026-03-16"), 1},
		{"partial day rounds up", time.Date(2026, 3, 16, 6, 0, 0, 0, time.UTC), 2},
		{"three full days late", day("2026-03-18"), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.OverdueDays(tt.now))
		})
	}
}

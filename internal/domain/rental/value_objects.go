package rental

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinRentalDays = 1
	MaxRentalDays = 30
)

var (
	ErrEndNotAfterStart = errors.New("end date must be after start date")
	ErrPeriodTooLong    = errors.New("rental period exceeds maximum duration")
	ErrStartNotFuture   = errors.New("start date must be in the future")
)

// Period is an inclusive date range. Both bounds are whole days; time of day
// carries no meaning for overlap.
type Period struct {
	start time.Time
	end   time.Time
}

func NewPeriod(start, end time.Time) (Period, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)

	if !end.After(start) {
		return Period{}, ErrEndNotAfterStart
	}

	// Maximum measured as end minus start, matching the booking rules: a
	// 30-day spread bills 31 inclusive days.
	if int(end.Sub(start).Hours()/24) > MaxRentalDays {
		return Period{}, ErrPeriodTooLong
	}
	return Period{start: start, end: end}, nil
}

func ReconstructPeriod(start, end time.Time) Period {
	return Period{start: truncateToDay(start), end: truncateToDay(end)}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (p Period) Start() time.Time {
	return p.start
}

func (p Period) End() time.Time {
	return p.end
}

// Days is the inclusive day count: a Friday-to-Sunday rental is 3 days.
func (p Period) Days() int {
	return int(p.end.Sub(p.start).Hours()/24) + 1
}

// Overlaps uses inclusive bounds on both sides: a rental ending on day X
// conflicts with one starting on day X.
func (p Period) Overlaps(other Period) bool {
	return !p.start.After(other.end) && !other.start.After(p.end)
}

func (p Period) Contains(day time.Time) bool {
	day = truncateToDay(day)
	return !day.Before(p.start) && !day.After(p.end)
}

// ValidateStartsAfter enforces that the period begins strictly after the
// reference day. Used at booking time; reconstructed historical periods are
// exempt.
func (p Period) ValidateStartsAfter(now time.Time) error {
	if !p.start.After(truncateToDay(now)) {
		return ErrStartNotFuture
	}
	return nil
}

func (p Period) HoursUntilStart(now time.Time) float64 {
	return p.start.Sub(now).Hours()
}

// OverdueDays counts started-but-unfinished days past the end date, rounded
// up. Zero when now is on or before the end date.
func (p Period) OverdueDays(now time.Time) int {
	if !now.After(p.end) {
		return 0
	}
	hours := now.Sub(p.end).Hours()
	days := int(hours / 24)
	if hours > float64(days)*24 {
		days++
	}
	return days
}

func (p Period) String() string {
	return fmt.Sprintf("[%s, %s]", p.start.Format(time.DateOnly), p.end.Format(time.DateOnly))
}

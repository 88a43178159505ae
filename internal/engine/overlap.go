// Package engine decides room availability, occupancy and stay prices from
// snapshots of rooms and reservations. It performs no I/O and keeps no state.
//
// All dates are calendar days. Values are normalised with Day before they are
// compared, so the time of day and location of an input never matter.
package engine

import (
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Day truncates t to its calendar day, as a UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights is the number of whole days from checkIn to checkOut. It is not positive for an invalid stay.
// Days are counted on Unix seconds; time.Duration saturates after about 292 years.
func Nights(checkIn, checkOut time.Time) int {
	return int((Day(checkOut).Unix() - Day(checkIn).Unix()) / secondsPerDay)
}

// DateRange is the half-open day interval [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange returns ErrInvalidDateRange unless end is after start.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: Day(start), End: Day(end)}
	if !r.End.After(r.Start) {
		return DateRange{}, ErrInvalidDateRange
	}

	return r, nil
}

// SingleDay is the range [day, day+1).
func SingleDay(day time.Time) DateRange {
	start := Day(day)

	return DateRange{Start: start, End: start.AddDate(0, 0, 1)}
}

// Overlaps reports whether the two ranges share at least one night.
// Ranges that only touch (one ends the day the other starts) do not overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

func (r DateRange) Nights() int {
	return Nights(r.Start, r.End)
}

// Contains reports whether day falls in [Start, End).
func (r DateRange) Contains(day time.Time) bool {
	d := Day(day)

	return !d.Before(r.Start) && d.Before(r.End)
}

// Overlaps tests [aStart, aEnd) against [bStart, bEnd).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) (bool, error) {
	a, err := NewDateRange(aStart, aEnd)
	if err != nil {
		return false, err
	}

	b, err := NewDateRange(bStart, bEnd)
	if err != nil {
		return false, err
	}

	return a.Overlaps(b), nil
}

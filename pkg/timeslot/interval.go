// Package timeslot provides the half-open time interval primitive the
// conflict engine is built on. An interval [Start, End) occupies every
// instant from Start up to but not including End, so a lesson ending
// exactly when another starts does not overlap it.
package timeslot

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// New builds the interval occupied by a booking starting at start and
// lasting d. Callers are expected to pass a non-negative duration.
func New(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

// FromMinutes builds the interval for a start instant and a duration
// expressed in whole minutes, the unit bookings are stored in.
func FromMinutes(start time.Time, minutes int) Interval {
	return New(start, time.Duration(minutes)*time.Minute)
}

// Overlaps reports whether the two half-open intervals share any instant.
// Identical intervals overlap, containment overlaps, and zero-gap
// adjacency (i.End == other.Start) does not.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether t falls inside the interval.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Widen grows the interval by pad on both ends. Used to build coarse
// scan windows around a candidate interval.
func (i Interval) Widen(pad time.Duration) Interval {
	return Interval{Start: i.Start.Add(-pad), End: i.End.Add(pad)}
}

// Overlaps is the free-function form of Interval.Overlaps for callers
// holding raw instants: startA < endB AND startB < endA.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

// Day returns the calendar-day interval [midnight, midnight+24h)
// containing t, in t's own location. No timezone normalization is
// performed; callers supply t in the store's clock convention.
func Day(t time.Time) Interval {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

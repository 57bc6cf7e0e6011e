package booking

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInterval = errors.New("interval start must be before end")

// Interval is a half-open time span [start, end).
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{start: start, end: end}, nil
}

// ReconstructInterval rebuilds a persisted interval without re-validation.
func ReconstructInterval(start, end time.Time) Interval {
	return Interval{start: start, end: end}
}

func (iv Interval) Start() time.Time {
	return iv.start
}

func (iv Interval) End() time.Time {
	return iv.end
}

func (iv Interval) Duration() time.Duration {
	return iv.end.Sub(iv.start)
}

func (iv Interval) IsZero() bool {
	return iv.start.IsZero() && iv.end.IsZero()
}

// Overlaps reports whether the two half-open intervals share at least one
// instant. Intervals that merely touch at an endpoint do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.start.Before(other.end) && iv.end.After(other.start)
}

func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.start) && t.Before(iv.end)
}

// Union widens the interval to cover both spans.
func (iv Interval) Union(other Interval) Interval {
	merged := iv
	if other.start.Before(merged.start) {
		merged.start = other.start
	}
	if other.end.After(merged.end) {
		merged.end = other.end
	}
	return merged
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s,%s)", iv.start.Format(time.RFC3339), iv.end.Format(time.RFC3339))
}

// ConflictsAny reports whether the candidate overlaps any of the existing
// intervals. Callers are expected to pass only non-canceled bookings.
func ConflictsAny(candidate Interval, existing []Interval) bool {
	for _, iv := range existing {
		if candidate.Overlaps(iv) {
			return true
		}
	}
	return false
}

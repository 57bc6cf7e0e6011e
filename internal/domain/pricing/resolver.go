package pricing

import (
	"strings"
	"time"
)

// Resolve returns the record whose validity window covers the given instant.
// Overlapping windows are not forbidden by the data model, so the winner is
// chosen deterministically: the record with the latest ValidFrom wins, equal
// ValidFrom broken by ascending record ID. The second return is false when no
// record covers the instant; callers must treat that as "price undefined",
// never as zero.
func Resolve(records []Record, at time.Time) (Record, bool) {
	var (
		winner Record
		found  bool
	)
	for _, r := range records {
		if !r.CoversAt(at) {
			continue
		}
		if !found || betterMatch(r, winner) {
			winner = r
			found = true
		}
	}
	return winner, found
}

func betterMatch(candidate, current Record) bool {
	if candidate.ValidFrom.After(current.ValidFrom) {
		return true
	}
	if candidate.ValidFrom.Equal(current.ValidFrom) {
		return strings.Compare(candidate.ID.String(), current.ID.String()) < 0
	}
	return false
}

// ResolveFor resolves against a resource's own timeline.
func ResolveFor(res PricedResource, at time.Time) (Record, bool) {
	return Resolve(res.PriceRecords(), at)
}

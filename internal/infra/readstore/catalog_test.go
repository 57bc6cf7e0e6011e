//go:build unit

package readstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The canceled filter has to apply before the outer join. Filtering in the
// LEFT JOIN's ON clause nulls the reservation columns but keeps the stay row,
// so a room whose only booking was canceled would still scan as occupied.
func TestOccupancyQueryFiltersCanceledBeforeJoin(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{name: "rooms", query: occupancyQuery("rooms", "hotel_id", "room_stays", "room_id")},
		{name: "seats", query: occupancyQuery("seats", "flight_id", "seat_assignments", "seat_id")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			filterAt := strings.Index(tc.query, "rv.canceled = false")
			joinAt := strings.Index(tc.query, ") b ON")
			require.NotEqual(t, -1, filterAt, "canceled filter missing")
			require.NotEqual(t, -1, joinAt, "derived-table join missing")
			assert.Less(t, filterAt, joinAt, "canceled filter must live inside the derived table, not the join condition")

			assert.NotContains(t, tc.query, "LEFT JOIN reservations", "reservations must be inner-joined inside the derived table")
			assert.Contains(t, tc.query, "JOIN reservations rv ON rv.id = s.reservation_id")
		})
	}
}

//go:build unit

package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zeroID = uuid.UUID{}

func newTestID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func day(d int) time.Time {
	return time.Date(2026, 7, d, 0, 0, 0, 0, time.UTC)
}

func TestNewInterval(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{
			name:  "valid interval",
			start: day(1),
			end:   day(5),
		},
		{
			name:    "start equals end",
			start:   day(1),
			end:     day(1),
			wantErr: ErrInvalidInterval,
		},
		{
			name:    "start after end",
			start:   day(5),
			end:     day(1),
			wantErr: ErrInvalidInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := NewInterval(tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, iv.Start())
			assert.Equal(t, tt.end, iv.End())
		})
	}
}

func TestIntervalOverlaps(t *testing.T) {
	base := ReconstructInterval(day(10), day(15))

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{name: "fully before", other: ReconstructInterval(day(1), day(5)), want: false},
		{name: "touching at start", other: ReconstructInterval(day(5), day(10)), want: false},
		{name: "overlapping start", other: ReconstructInterval(day(8), day(12)), want: true},
		{name: "contained", other: ReconstructInterval(day(11), day(13)), want: true},
		{name: "containing", other: ReconstructInterval(day(8), day(20)), want: true},
		{name: "overlapping end", other: ReconstructInterval(day(14), day(20)), want: true},
		{name: "touching at end", other: ReconstructInterval(day(15), day(20)), want: false},
		{name: "fully after", other: ReconstructInterval(day(20), day(25)), want: false},
		{name: "identical", other: base, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestIntervalContains(t *testing.T) {
	iv := ReconstructInterval(day(10), day(15))

	assert.True(t, iv.Contains(day(10)), "start is inside")
	assert.True(t, iv.Contains(day(12)))
	assert.False(t, iv.Contains(day(15)), "end is outside")
	assert.False(t, iv.Contains(day(9)))
}

func TestIntervalUnion(t *testing.T) {
	a := ReconstructInterval(day(10), day(15))
	b := ReconstructInterval(day(5), day(12))

	merged := a.Union(b)
	assert.Equal(t, day(5), merged.Start())
	assert.Equal(t, day(15), merged.End())

	// Union with a contained interval changes nothing.
	inner := ReconstructInterval(day(11), day(12))
	assert.Equal(t, a, a.Union(inner))
}

func TestConflictsAny(t *testing.T) {
	existing := []Interval{
		ReconstructInterval(day(1), day(5)),
		ReconstructInterval(day(10), day(15)),
	}

	assert.False(t, ConflictsAny(ReconstructInterval(day(5), day(10)), existing), "gap between bookings is free")
	assert.True(t, ConflictsAny(ReconstructInterval(day(4), day(6)), existing))
	assert.False(t, ConflictsAny(ReconstructInterval(day(20), day(25)), existing))
	assert.False(t, ConflictsAny(ReconstructInterval(day(1), day(5)), nil))
}

func TestBookingConstructors(t *testing.T) {
	iv := ReconstructInterval(day(1), day(5))

	t.Run("room stay", func(t *testing.T) {
		id := newTestID(t)
		b, err := NewRoomStay(id, iv)
		require.NoError(t, err)
		assert.Equal(t, KindRoom, b.Kind())
		assert.Equal(t, id, b.ResourceID())
	})

	t.Run("nil resource rejected", func(t *testing.T) {
		_, err := NewRoomStay(zeroID, iv)
		assert.ErrorIs(t, err, ErrNilResourceID)
	})

	t.Run("activity needs attendees", func(t *testing.T) {
		_, err := NewActivityAttendance(newTestID(t), iv, 0)
		assert.ErrorIs(t, err, ErrNoAttendees)

		b, err := NewActivityAttendance(newTestID(t), iv, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, b.Attendees())
	})
}

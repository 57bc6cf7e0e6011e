//go:build unit

package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(d int) time.Time {
	return time.Date(2026, 7, d, 12, 0, 0, 0, time.UTC)
}

func record(value int64, from time.Time, until *time.Time) Record {
	return Record{
		ID:         uuid.New(),
		Value:      decimal.NewFromInt(value),
		ValidFrom:  from,
		ValidUntil: until,
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestRecordCoversAt(t *testing.T) {
	until := at(20)
	bounded := record(100, at(10), &until)
	openEnded := record(100, at(10), nil)

	assert.False(t, bounded.CoversAt(at(9)))
	assert.True(t, bounded.CoversAt(at(10)), "valid_from is inclusive")
	assert.True(t, bounded.CoversAt(at(20)), "valid_until is inclusive")
	assert.False(t, bounded.CoversAt(at(21)))

	assert.True(t, openEnded.CoversAt(at(10)))
	assert.True(t, openEnded.CoversAt(at(25)), "nil valid_until never expires")
}

func TestResolve(t *testing.T) {
	t.Run("no covering record", func(t *testing.T) {
		records := []Record{record(100, at(10), ptr(at(15)))}
		_, ok := Resolve(records, at(20))
		assert.False(t, ok)
	})

	t.Run("empty timeline", func(t *testing.T) {
		_, ok := Resolve(nil, at(10))
		assert.False(t, ok)
	})

	t.Run("single covering record", func(t *testing.T) {
		records := []Record{record(100, at(10), nil)}
		rec, ok := Resolve(records, at(12))
		require.True(t, ok)
		assert.True(t, rec.Value.Equal(decimal.NewFromInt(100)))
	})

	t.Run("latest valid_from wins on overlap", func(t *testing.T) {
		older := record(100, at(1), nil)
		newer := record(150, at(10), nil)
		rec, ok := Resolve([]Record{older, newer}, at(12))
		require.True(t, ok)
		assert.Equal(t, newer.ID, rec.ID)

		// Order of the slice must not matter.
		rec, ok = Resolve([]Record{newer, older}, at(12))
		require.True(t, ok)
		assert.Equal(t, newer.ID, rec.ID)
	})

	t.Run("equal valid_from broken by ascending id", func(t *testing.T) {
		a := record(100, at(10), nil)
		b := record(150, at(10), nil)
		want := a
		if b.ID.String() < a.ID.String() {
			want = b
		}

		rec, ok := Resolve([]Record{a, b}, at(12))
		require.True(t, ok)
		assert.Equal(t, want.ID, rec.ID)

		rec, ok = Resolve([]Record{b, a}, at(12))
		require.True(t, ok)
		assert.Equal(t, want.ID, rec.ID)
	})

	t.Run("expired newer record loses to covering older one", func(t *testing.T) {
		expired := record(150, at(10), ptr(at(11)))
		open := record(100, at(1), nil)
		rec, ok := Resolve([]Record{expired, open}, at(12))
		require.True(t, ok)
		assert.Equal(t, open.ID, rec.ID)
	})
}

type timelineResource struct {
	id      uuid.UUID
	records []Record
}

func (r *timelineResource) ResourceID() uuid.UUID  { return r.id }
func (r *timelineResource) PriceRecords() []Record { return r.records }

func TestResolveFor(t *testing.T) {
	res := &timelineResource{
		id:      uuid.New(),
		records: []Record{record(100, at(10), nil)},
	}

	rec, ok := ResolveFor(res, at(12))
	require.True(t, ok)
	assert.True(t, rec.Value.Equal(decimal.NewFromInt(100)))

	_, ok = ResolveFor(res, at(5))
	assert.False(t, ok)
}

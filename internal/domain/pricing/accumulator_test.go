//go:build unit

package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelid/internal/pkg/errs"
)

func TestTotalOverRange(t *testing.T) {
	t.Run("price change mid-stay", func(t *testing.T) {
		// Day 1 priced at 80, days 2 through 7 at 120: 80 + 120*6 = 800.
		records := []Record{
			record(80, at(1), ptr(at(1))),
			record(120, at(2), nil),
		}

		total, err := TotalOverRange(records, at(1), at(7))
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(800)), "got %s", total)
	})

	t.Run("single day range", func(t *testing.T) {
		records := []Record{record(100, at(1), nil)}
		total, err := TotalOverRange(records, at(5), at(5))
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(100)))
	})

	t.Run("uncovered day fails", func(t *testing.T) {
		records := []Record{record(100, at(1), ptr(at(3)))}
		_, err := TotalOverRange(records, at(1), at(5))
		assert.ErrorIs(t, err, errs.ErrPriceUndefined)
	})

	t.Run("empty timeline fails", func(t *testing.T) {
		_, err := TotalOverRange(nil, at(1), at(2))
		assert.ErrorIs(t, err, errs.ErrPriceUndefined)
	})

	t.Run("fractional prices accumulate exactly", func(t *testing.T) {
		rec := Record{
			Value:     decimal.RequireFromString("99.95"),
			ValidFrom: at(1),
		}
		total, err := TotalOverRange([]Record{rec}, at(1), at(3))
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("299.85")), "got %s", total)
	})
}

func TestTotalOverRangeLenient(t *testing.T) {
	t.Run("gaps contribute zero", func(t *testing.T) {
		records := []Record{record(100, at(1), ptr(at(3)))}
		total := TotalOverRangeLenient(records, at(1), at(5))
		assert.True(t, total.Equal(decimal.NewFromInt(300)), "days 4 and 5 are free, got %s", total)
	})

	t.Run("fully uncovered range totals zero", func(t *testing.T) {
		total := TotalOverRangeLenient(nil, at(1), at(5))
		assert.True(t, total.IsZero())
	})
}

func TestTotalOverRangeDayWalk(t *testing.T) {
	// The walk steps calendar days, so a range of N days resolves N times
	// regardless of the hour component.
	records := []Record{record(10, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), nil)}

	start := time.Date(2026, 7, 1, 23, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 3, 23, 30, 0, 0, time.UTC)

	total, err := TotalOverRange(records, start, end)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(30)), "three calendar days, got %s", total)
}

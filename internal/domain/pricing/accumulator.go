package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"travelid/internal/pkg/errs"
)

// TotalOverRange walks the range one calendar day at a time, start through end
// inclusive, and sums the resolved price of each day. A day with no covering
// record fails with ErrPriceUndefined so a billing total can never silently
// lose a day.
func TotalOverRange(records []Record, start, end time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		rec, ok := Resolve(records, day)
		if !ok {
			return decimal.Zero, errs.Wrap(errs.ErrPriceUndefined, fmt.Sprintf("no price covers %s", day.Format("2006-01-02")))
		}
		total = total.Add(rec.Value)
	}
	return total, nil
}

// TotalOverRangeLenient sums the same way but lets uncovered days contribute
// zero. Only display paths (availability range quotes) may use it; billing
// goes through TotalOverRange.
func TotalOverRangeLenient(records []Record, start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if rec, ok := Resolve(records, day); ok {
			total = total.Add(rec.Value)
		}
	}
	return total
}

package response

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceResponse carries a resolved price; Value is null when no record covers
// the requested instant.
type PriceResponse struct {
	Value *decimal.Decimal `json:"value"`
}

type TotalPriceResponse struct {
	Total decimal.Decimal `json:"total"`
}

// PriceMapResponse maps resource ids to their current price; unpriced
// resources appear with a null value so clients can tell "unpriced" from
// "absent".
type PriceMapResponse struct {
	Prices map[uuid.UUID]*decimal.Decimal `json:"prices"`
}

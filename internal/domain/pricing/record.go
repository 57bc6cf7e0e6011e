package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is one entry of a resource's price timeline. ValidUntil is inclusive
// and nil means open-ended.
type Record struct {
	ID         uuid.UUID
	Value      decimal.Decimal
	ValidFrom  time.Time
	ValidUntil *time.Time
}

func (r Record) CoversAt(t time.Time) bool {
	if t.Before(r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && t.After(*r.ValidUntil) {
		return false
	}
	return true
}

// PricedResource is anything that carries a price timeline. Rooms, seats and
// activities all satisfy it so resolution is written once.
type PricedResource interface {
	ResourceID() uuid.UUID
	PriceRecords() []Record
}

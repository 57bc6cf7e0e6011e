package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount = errors.New("payment amount cannot be negative")
	ErrNilMethod      = errors.New("payment method cannot be nil")
)

// Payment is created once per reservation at confirmation time and is
// immutable afterward.
type Payment struct {
	id       uuid.UUID
	amount   decimal.Decimal
	paidAt   time.Time
	methodID uuid.UUID
}

func NewPayment(amount decimal.Decimal, methodID uuid.UUID, paidAt time.Time) (Payment, error) {
	if amount.IsNegative() {
		return Payment{}, ErrNegativeAmount
	}
	if methodID == uuid.Nil {
		return Payment{}, ErrNilMethod
	}
	return Payment{
		id:       uuid.New(),
		amount:   amount,
		paidAt:   paidAt,
		methodID: methodID,
	}, nil
}

func ReconstructPayment(id uuid.UUID, amount decimal.Decimal, methodID uuid.UUID, paidAt time.Time) Payment {
	return Payment{id: id, amount: amount, paidAt: paidAt, methodID: methodID}
}

func (p Payment) ID() uuid.UUID           { return p.id }
func (p Payment) Amount() decimal.Decimal { return p.amount }
func (p Payment) PaidAt() time.Time       { return p.paidAt }
func (p Payment) MethodID() uuid.UUID     { return p.methodID }

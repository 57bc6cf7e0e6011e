package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"travelid/internal/domain/booking"
)

// ReservationEvent is the broker payload emitted after a confirmed payment or
// a cancellation.
type ReservationEvent struct {
	ReservationID uuid.UUID        `json:"reservation_id"`
	UserID        uuid.UUID        `json:"user_id"`
	Start         time.Time        `json:"start"`
	End           time.Time        `json:"end"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// EventPublisher hands reservation lifecycle events to the message broker.
// Publishing is best effort: failures are logged by the implementation and
// never fail the booking.
type EventPublisher interface {
	ReservationConfirmed(ctx context.Context, evt ReservationEvent) error
	ReservationCanceled(ctx context.Context, evt ReservationEvent) error
}

// AvailabilityInvalidator drops cached availability listings for the catalog
// kinds a successful write touched.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, kinds ...booking.Kind)
}

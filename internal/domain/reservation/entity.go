package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"travelid/internal/domain/booking"
)

var (
	ErrInvalidEnvelope     = errors.New("reservation end must be after start")
	ErrReservationCanceled = errors.New("reservation is already canceled")
	ErrAlreadyPaid         = errors.New("reservation already has a payment")
)

// Reservation aggregates heterogeneous resource bookings (room stays, seat
// assignments, activity attendances) under one envelope owned by a user.
// Bookings are created only through the aggregate and become immutable once
// attached; cancellation is a terminal, idempotent transition.
type Reservation struct {
	id        uuid.UUID
	userID    uuid.UUID
	envelope  booking.Interval
	canceled  bool
	payment   *Payment
	bookings  []booking.Booking
	createdAt time.Time
	updatedAt time.Time
}

func NewReservation(userID uuid.UUID, start, end time.Time, now time.Time) (*Reservation, error) {
	envelope, err := booking.NewInterval(start, end)
	if err != nil {
		return nil, ErrInvalidEnvelope
	}
	return &Reservation{
		id:        uuid.New(),
		userID:    userID,
		envelope:  envelope,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructReservation(
	id, userID uuid.UUID,
	envelope booking.Interval,
	canceled bool,
	payment *Payment,
	bookings []booking.Booking,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:        id,
		userID:    userID,
		envelope:  envelope,
		canceled:  canceled,
		payment:   payment,
		bookings:  bookings,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Attach adds a booking and widens the envelope to cover it.
func (r *Reservation) Attach(b booking.Booking) error {
	if r.canceled {
		return ErrReservationCanceled
	}
	r.bookings = append(r.bookings, b)
	r.envelope = r.envelope.Union(b.Interval())
	return nil
}

// Cancel marks the reservation canceled. The first transition returns true;
// repeating it is a no-op, not an error.
func (r *Reservation) Cancel() bool {
	if r.canceled {
		return false
	}
	r.canceled = true
	return true
}

// AttachPayment records the one-and-only payment. A second attempt fails.
func (r *Reservation) AttachPayment(p Payment) error {
	if r.canceled {
		return ErrReservationCanceled
	}
	if r.payment != nil {
		return ErrAlreadyPaid
	}
	r.payment = &p
	return nil
}

// ActivityBookings returns the attendances whose capacity must be released on
// cancellation.
func (r *Reservation) ActivityBookings() []booking.Booking {
	var out []booking.Booking
	for _, b := range r.bookings {
		if b.Kind() == booking.KindActivity {
			out = append(out, b)
		}
	}
	return out
}

func (r *Reservation) ID() uuid.UUID              { return r.id }
func (r *Reservation) UserID() uuid.UUID          { return r.userID }
func (r *Reservation) Envelope() booking.Interval { return r.envelope }
func (r *Reservation) Start() time.Time           { return r.envelope.Start() }
func (r *Reservation) End() time.Time             { return r.envelope.End() }
func (r *Reservation) IsCanceled() bool           { return r.canceled }
func (r *Reservation) Payment() *Payment          { return r.payment }
func (r *Reservation) Bookings() []booking.Booking {
	return r.bookings
}
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }

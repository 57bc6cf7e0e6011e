package shared

import (
	"context"
	"time"

	"github.com/google/uuid"

	"travelid/internal/domain/booking"
	"travelid/internal/domain/catalog"
	"travelid/internal/domain/reservation"
	"travelid/internal/infra/db"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Reservations() ReservationRepository
	Bookings() BookingRepository
	Catalog() CatalogRepository
	Payments() PaymentRepository
	Reads() CommandReads
	DB() db.DBTX
}

type PaymentMethodSnapshot struct {
	ID   uuid.UUID
	Name string
}

type CommandReads interface {
	PaymentMethodByID(ctx context.Context, id uuid.UUID) (*PaymentMethodSnapshot, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) (uuid.UUID, error)
	// LockByID takes a row lock so attach/cancel/pay serialize per reservation,
	// then loads the full aggregate (payment, bookings) under that lock.
	LockByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	WidenEnvelope(ctx context.Context, id uuid.UUID, start, end time.Time) error
	// SetCanceled flips the flag; false means it was already canceled.
	SetCanceled(ctx context.Context, id uuid.UUID) (bool, error)
}

type BookingRepository interface {
	InsertRoomStay(ctx context.Context, reservationID, roomID uuid.UUID, stay booking.Interval) error
	InsertSeatAssignment(ctx context.Context, reservationID, seatID uuid.UUID, flight booking.Interval) error
	InsertActivityAttendance(ctx context.Context, reservationID, activityID uuid.UUID, slot booking.Interval, attendees int) error
	// OverlapExists checks the candidate against all non-canceled bookings of
	// the resource. Must run under the resource row lock to be race-free.
	OverlapExists(ctx context.Context, kind booking.Kind, resourceID uuid.UUID, candidate booking.Interval) (bool, error)
}

type CatalogRepository interface {
	// Lock* load the resource (with its price timeline) under FOR UPDATE so
	// concurrent attaches to the same resource serialize.
	LockRoom(ctx context.Context, id uuid.UUID) (*catalog.Room, error)
	LockSeat(ctx context.Context, id uuid.UUID) (*catalog.Seat, *catalog.Flight, error)
	LockActivity(ctx context.Context, id uuid.UUID) (*catalog.Activity, error)
	// AddAttendees increments the confirmed counter only when capacity allows;
	// check and increment are one atomic statement. False means full.
	AddAttendees(ctx context.Context, activityID uuid.UUID, n int) (bool, error)
	ReleaseAttendees(ctx context.Context, activityID uuid.UUID, n int) error
}

type PaymentRepository interface {
	// Create persists the payment and links it to the reservation; the link
	// update is guarded so a concurrent second payment loses.
	Create(ctx context.Context, reservationID uuid.UUID, p reservation.Payment) error
}

package booking

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNoAttendees   = errors.New("attendee count must be positive")
	ErrNilResourceID = errors.New("resource id cannot be nil")
)

type Kind string

const (
	KindRoom     Kind = "room"
	KindSeat     Kind = "seat"
	KindActivity Kind = "activity"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindRoom, KindSeat, KindActivity:
		return true
	default:
		return false
	}
}

// Booking is one resource attachment inside a reservation: a room stay, a
// seat assignment or an activity attendance. The kind discriminates the
// variant; attendees is meaningful only for activities.
type Booking struct {
	kind       Kind
	resourceID uuid.UUID
	interval   Interval
	attendees  int
}

func NewRoomStay(roomID uuid.UUID, stay Interval) (Booking, error) {
	if roomID == uuid.Nil {
		return Booking{}, ErrNilResourceID
	}
	return Booking{kind: KindRoom, resourceID: roomID, interval: stay}, nil
}

func NewSeatAssignment(seatID uuid.UUID, flight Interval) (Booking, error) {
	if seatID == uuid.Nil {
		return Booking{}, ErrNilResourceID
	}
	return Booking{kind: KindSeat, resourceID: seatID, interval: flight}, nil
}

func NewActivityAttendance(activityID uuid.UUID, slot Interval, attendees int) (Booking, error) {
	if activityID == uuid.Nil {
		return Booking{}, ErrNilResourceID
	}
	if attendees < 1 {
		return Booking{}, ErrNoAttendees
	}
	return Booking{kind: KindActivity, resourceID: activityID, interval: slot, attendees: attendees}, nil
}

// ReconstructBooking rebuilds a persisted booking without re-validation.
func ReconstructBooking(kind Kind, resourceID uuid.UUID, interval Interval, attendees int) Booking {
	return Booking{kind: kind, resourceID: resourceID, interval: interval, attendees: attendees}
}

func (b Booking) Kind() Kind            { return b.kind }
func (b Booking) ResourceID() uuid.UUID { return b.resourceID }
func (b Booking) Interval() Interval    { return b.interval }
func (b Booking) Attendees() int        { return b.attendees }

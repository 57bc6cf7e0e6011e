package catalog

import (
	"time"

	"github.com/google/uuid"

	"travelid/internal/domain/pricing"
)

// Bookable resources are thin data adapters over the relational catalog.
// Each variant carries its price timeline so pricing resolution stays a
// single generic function instead of one copy per kind.

type Room struct {
	ID       uuid.UUID
	HotelID  uuid.UUID
	Number   string
	Capacity int
	Prices   []pricing.Record
}

func (r *Room) ResourceID() uuid.UUID          { return r.ID }
func (r *Room) PriceRecords() []pricing.Record { return r.Prices }

type Seat struct {
	ID       uuid.UUID
	FlightID uuid.UUID
	Number   string
	Category string
	Prices   []pricing.Record
}

func (s *Seat) ResourceID() uuid.UUID          { return s.ID }
func (s *Seat) PriceRecords() []pricing.Record { return s.Prices }

type Activity struct {
	ID                 uuid.UUID
	Name               string
	Location           string
	StartTime          time.Time
	EndTime            time.Time
	MaxAttendees       int
	ConfirmedAttendees int
	Prices             []pricing.Record
}

func (a *Activity) ResourceID() uuid.UUID          { return a.ID }
func (a *Activity) PriceRecords() []pricing.Record { return a.Prices }

// HasCapacityFor reports whether n more attendees fit without exceeding the
// maximum.
func (a *Activity) HasCapacityFor(n int) bool {
	return a.ConfirmedAttendees+n <= a.MaxAttendees
}

// IsOpenAt mirrors the storefront listing rule: the activity has started or
// starts now, has not yet ended, and still has free places.
func (a *Activity) IsOpenAt(asOf time.Time) bool {
	return !a.StartTime.After(asOf) && a.EndTime.After(asOf) && a.ConfirmedAttendees < a.MaxAttendees
}

type Hotel struct {
	ID       uuid.UUID
	Name     string
	Location string
	Category int
}

type Flight struct {
	ID          uuid.UUID
	Origin      string
	Destination string
	Departure   time.Time
	Arrival     time.Time
}

// Window is the flight's occupancy interval used for seat conflict checks.
func (f *Flight) Window() (time.Time, time.Time) {
	return f.Departure, f.Arrival
}

// IsUpcoming reports whether the flight is still entirely in the future.
func (f *Flight) IsUpcoming(asOf time.Time) bool {
	return f.Departure.After(asOf) && f.Arrival.After(asOf)
}

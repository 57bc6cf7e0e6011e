package queries

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"travelid/internal/domain/booking"
	"travelid/internal/domain/catalog"
	"travelid/internal/domain/pricing"
	"travelid/internal/infra"
	"travelid/internal/pkg/errs"
)

// Occupancy rows as the read store returns them: each bookable child resource
// with the intervals of its non-canceled bookings.
type RoomOccupancy struct {
	RoomID uuid.UUID
	Stays  []booking.Interval
}

type HotelWithRooms struct {
	Hotel catalog.Hotel
	Rooms []RoomOccupancy
}

type SeatOccupancy struct {
	SeatID      uuid.UUID
	Assignments []booking.Interval
}

type FlightWithSeats struct {
	Flight catalog.Flight
	Seats  []SeatOccupancy
}

type CatalogReadStore interface {
	Hotels(ctx context.Context) ([]HotelWithRooms, error)
	Flights(ctx context.Context) ([]FlightWithSeats, error)
	Activities(ctx context.Context) ([]catalog.Activity, error)
	RoomWithPrices(ctx context.Context, roomID uuid.UUID) (*catalog.Room, error)
	RoomStays(ctx context.Context, roomID uuid.UUID) ([]booking.Interval, error)
}

// ResultCache is a read-through cache over listing results. Lookups and
// stores are best effort; a cold or down cache only costs a scan.
type ResultCache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, val any)
}

type AvailabilityQueries interface {
	AvailableHotels(ctx context.Context, window booking.Interval, page, size int) (Page[HotelListItem], error)
	AvailableFlights(ctx context.Context, asOf time.Time, page, size int) (Page[FlightListItem], error)
	AvailableActivities(ctx context.Context, asOf time.Time, page, size int) (Page[ActivityListItem], error)
	AvailableRoomRanges(ctx context.Context, roomID uuid.UUID, window booking.Interval) ([]RangeQuote, error)
}

type availabilityQueriesImpl struct {
	store CatalogReadStore
	cache ResultCache
}

func NewAvailabilityQueries(store CatalogReadStore, cache ResultCache) AvailabilityQueries {
	return &availabilityQueriesImpl{store: store, cache: cache}
}

// AvailableHotels keeps a hotel when at least one of its rooms has no stay
// overlapping the requested window.
func (q *availabilityQueriesImpl) AvailableHotels(ctx context.Context, window booking.Interval, page, size int) (Page[HotelListItem], error) {
	key := cacheKey("hotels", window.String(), page, size)
	var cached Page[HotelListItem]
	if q.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	hotels, err := q.store.Hotels(ctx)
	if err != nil {
		return Page[HotelListItem]{}, err
	}

	items := make([]HotelListItem, 0, len(hotels))
	for _, h := range hotels {
		free := 0
		for _, room := range h.Rooms {
			if !booking.ConflictsAny(window, room.Stays) {
				free++
			}
		}
		if free == 0 {
			continue
		}
		items = append(items, HotelListItem{
			ID:        h.Hotel.ID,
			Name:      h.Hotel.Name,
			Location:  h.Hotel.Location,
			Category:  h.Hotel.Category,
			FreeRooms: free,
		})
	}

	// Hotels carry no start date of their own; identifier order keeps
	// pagination deterministic.
	sort.Slice(items, func(i, j int) bool {
		return strings.Compare(items[i].ID.String(), items[j].ID.String()) < 0
	})

	result := paginate(items, page, size)
	q.cache.Set(ctx, key, result)
	return result, nil
}

// AvailableFlights lists flights still entirely in the future that have at
// least one seat free over the flight window (the two-level existence check).
func (q *availabilityQueriesImpl) AvailableFlights(ctx context.Context, asOf time.Time, page, size int) (Page[FlightListItem], error) {
	key := cacheKey("flights", asOf.Format(time.RFC3339), page, size)
	var cached Page[FlightListItem]
	if q.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	flights, err := q.store.Flights(ctx)
	if err != nil {
		return Page[FlightListItem]{}, err
	}

	items := make([]FlightListItem, 0, len(flights))
	for _, f := range flights {
		if !f.Flight.IsUpcoming(asOf) {
			continue
		}
		window := booking.ReconstructInterval(f.Flight.Departure, f.Flight.Arrival)
		free := 0
		for _, seat := range f.Seats {
			if !booking.ConflictsAny(window, seat.Assignments) {
				free++
			}
		}
		if free == 0 {
			continue
		}
		items = append(items, FlightListItem{
			ID:          f.Flight.ID,
			Origin:      f.Flight.Origin,
			Destination: f.Flight.Destination,
			Departure:   f.Flight.Departure,
			Arrival:     f.Flight.Arrival,
			FreeSeats:   free,
		})
	}

	sortByStart(items, func(it FlightListItem) (time.Time, uuid.UUID) { return it.Departure, it.ID })

	result := paginate(items, page, size)
	q.cache.Set(ctx, key, result)
	return result, nil
}

func (q *availabilityQueriesImpl) AvailableActivities(ctx context.Context, asOf time.Time, page, size int) (Page[ActivityListItem], error) {
	key := cacheKey("activities", asOf.Format(time.RFC3339), page, size)
	var cached Page[ActivityListItem]
	if q.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	activities, err := q.store.Activities(ctx)
	if err != nil {
		return Page[ActivityListItem]{}, err
	}

	items := make([]ActivityListItem, 0, len(activities))
	for _, a := range activities {
		if !a.IsOpenAt(asOf) {
			continue
		}
		items = append(items, ActivityListItem{
			ID:           a.ID,
			Name:         a.Name,
			Location:     a.Location,
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
			PlacesLeft:   a.MaxAttendees - a.ConfirmedAttendees,
			MaxAttendees: a.MaxAttendees,
		})
	}

	sortByStart(items, func(it ActivityListItem) (time.Time, uuid.UUID) { return it.StartTime, it.ID })

	result := paginate(items, page, size)
	q.cache.Set(ctx, key, result)
	return result, nil
}

// AvailableRoomRanges walks the gaps between the room's stays inside the
// requested window and quotes each gap with the lenient day-by-day total.
func (q *availabilityQueriesImpl) AvailableRoomRanges(ctx context.Context, roomID uuid.UUID, window booking.Interval) ([]RangeQuote, error) {
	room, err := q.store.RoomWithPrices(ctx, roomID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrRoomNotFound)
		}
		return nil, err
	}

	stays, err := q.store.RoomStays(ctx, roomID)
	if err != nil {
		return nil, err
	}
	sort.Slice(stays, func(i, j int) bool { return stays[i].Start().Before(stays[j].Start()) })

	var quotes []RangeQuote
	cursor := window.Start()
	for _, stay := range stays {
		if !cursor.Before(window.End()) {
			break
		}
		gapEnd := stay.Start()
		if gapEnd.After(window.End()) {
			gapEnd = window.End()
		}
		if gapEnd.After(cursor) {
			quotes = append(quotes, RangeQuote{
				Start: cursor,
				End:   gapEnd,
				Total: pricing.TotalOverRangeLenient(room.Prices, cursor, gapEnd),
			})
		}
		if stay.End().After(cursor) {
			cursor = stay.End()
		}
	}
	if cursor.Before(window.End()) {
		quotes = append(quotes, RangeQuote{
			Start: cursor,
			End:   window.End(),
			Total: pricing.TotalOverRangeLenient(room.Prices, cursor, window.End()),
		})
	}

	return quotes, nil
}

func sortByStart[T any](items []T, keyFn func(T) (time.Time, uuid.UUID)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := keyFn(items[i])
		tj, idj := keyFn(items[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return strings.Compare(idi.String(), idj.String()) < 0
	})
}

func cacheKey(kind, span string, page, size int) string {
	return fmt.Sprintf("avail:%s:%s:%d:%d", kind, span, page, size)
}

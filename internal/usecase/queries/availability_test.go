//go:build unit

package queries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelid/internal/domain/booking"
	"travelid/internal/domain/catalog"
	"travelid/internal/domain/pricing"
	"travelid/internal/infra"
	"travelid/internal/pkg/errs"
)

func day(d int) time.Time {
	return time.Date(2026, 7, d, 0, 0, 0, 0, time.UTC)
}

type stubCatalogStore struct {
	hotels     []HotelWithRooms
	flights    []FlightWithSeats
	activities []catalog.Activity
	room       *catalog.Room
	roomErr    error
	stays      []booking.Interval
}

func (s *stubCatalogStore) Hotels(context.Context) ([]HotelWithRooms, error)   { return s.hotels, nil }
func (s *stubCatalogStore) Flights(context.Context) ([]FlightWithSeats, error) { return s.flights, nil }
func (s *stubCatalogStore) Activities(context.Context) ([]catalog.Activity, error) {
	return s.activities, nil
}

func (s *stubCatalogStore) RoomWithPrices(context.Context, uuid.UUID) (*catalog.Room, error) {
	return s.room, s.roomErr
}

func (s *stubCatalogStore) RoomStays(context.Context, uuid.UUID) ([]booking.Interval, error) {
	return s.stays, nil
}

// noopCache always misses so tests exercise the scan path.
type noopCache struct{}

func (noopCache) Get(context.Context, string, any) bool { return false }
func (noopCache) Set(context.Context, string, any)      {}

func TestAvailableHotels(t *testing.T) {
	window := booking.ReconstructInterval(day(10), day(15))

	fullRoom := RoomOccupancy{
		RoomID: uuid.New(),
		Stays:  []booking.Interval{booking.ReconstructInterval(day(8), day(20))},
	}
	freeRoom := RoomOccupancy{RoomID: uuid.New()}
	gapRoom := RoomOccupancy{
		RoomID: uuid.New(),
		Stays:  []booking.Interval{booking.ReconstructInterval(day(1), day(10))},
	}

	store := &stubCatalogStore{
		hotels: []HotelWithRooms{
			{
				Hotel: catalog.Hotel{ID: uuid.New(), Name: "Sol y Mar", Location: "Valencia", Category: 4},
				Rooms: []RoomOccupancy{fullRoom, freeRoom, gapRoom},
			},
			{
				Hotel: catalog.Hotel{ID: uuid.New(), Name: "Completo", Location: "Madrid", Category: 3},
				Rooms: []RoomOccupancy{fullRoom},
			},
			{
				Hotel: catalog.Hotel{ID: uuid.New(), Name: "Sin Habitaciones", Location: "Bilbao", Category: 2},
			},
		},
	}

	q := NewAvailabilityQueries(store, noopCache{})
	page, err := q.AvailableHotels(context.Background(), window, 0, 10)
	require.NoError(t, err)

	require.Len(t, page.Items, 1, "only the hotel with a free room survives")
	assert.Equal(t, "Sol y Mar", page.Items[0].Name)
	assert.Equal(t, 2, page.Items[0].FreeRooms, "stay touching the window start does not block")
	assert.Equal(t, 1, page.TotalItems)
}

func TestAvailableFlights(t *testing.T) {
	asOf := day(5)

	takenSeat := func(dep, arr time.Time) SeatOccupancy {
		return SeatOccupancy{
			SeatID:      uuid.New(),
			Assignments: []booking.Interval{booking.ReconstructInterval(dep, arr)},
		}
	}

	upcoming := FlightWithSeats{
		Flight: catalog.Flight{ID: uuid.New(), Origin: "MAD", Destination: "LPA", Departure: day(10), Arrival: day(11)},
		Seats:  []SeatOccupancy{{SeatID: uuid.New()}, takenSeat(day(10), day(11))},
	}
	departed := FlightWithSeats{
		Flight: catalog.Flight{ID: uuid.New(), Origin: "BCN", Destination: "MAD", Departure: day(1), Arrival: day(2)},
		Seats:  []SeatOccupancy{{SeatID: uuid.New()}},
	}
	fullFlight := FlightWithSeats{
		Flight: catalog.Flight{ID: uuid.New(), Origin: "SVQ", Destination: "MAD", Departure: day(12), Arrival: day(13)},
		Seats:  []SeatOccupancy{takenSeat(day(12), day(13))},
	}

	store := &stubCatalogStore{flights: []FlightWithSeats{fullFlight, upcoming, departed}}

	q := NewAvailabilityQueries(store, noopCache{})
	page, err := q.AvailableFlights(context.Background(), asOf, 0, 10)
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, upcoming.Flight.ID, page.Items[0].ID)
	assert.Equal(t, 1, page.Items[0].FreeSeats)
}

func TestAvailableActivities(t *testing.T) {
	asOf := day(5)

	running := catalog.Activity{
		ID: uuid.New(), Name: "Kayak", StartTime: day(1), EndTime: day(10),
		MaxAttendees: 10, ConfirmedAttendees: 4,
	}
	full := catalog.Activity{
		ID: uuid.New(), Name: "Lleno", StartTime: day(1), EndTime: day(10),
		MaxAttendees: 10, ConfirmedAttendees: 10,
	}
	ended := catalog.Activity{
		ID: uuid.New(), Name: "Pasado", StartTime: day(1), EndTime: day(3),
		MaxAttendees: 10, ConfirmedAttendees: 0,
	}
	notStarted := catalog.Activity{
		ID: uuid.New(), Name: "Futuro", StartTime: day(8), EndTime: day(10),
		MaxAttendees: 10, ConfirmedAttendees: 0,
	}

	store := &stubCatalogStore{activities: []catalog.Activity{running, full, ended, notStarted}}

	q := NewAvailabilityQueries(store, noopCache{})
	page, err := q.AvailableActivities(context.Background(), asOf, 0, 10)
	require.NoError(t, err)

	require.Len(t, page.Items, 1, "only started, unfinished activities with places left")
	assert.Equal(t, running.ID, page.Items[0].ID)
	assert.Equal(t, 6, page.Items[0].PlacesLeft)
}

func TestAvailableRoomRanges(t *testing.T) {
	nightly := pricing.Record{ID: uuid.New(), Value: decimal.NewFromInt(100), ValidFrom: day(1)}
	room := &catalog.Room{ID: uuid.New(), Number: "101", Capacity: 2, Prices: []pricing.Record{nightly}}

	t.Run("gaps between stays", func(t *testing.T) {
		store := &stubCatalogStore{
			room: room,
			stays: []booking.Interval{
				booking.ReconstructInterval(day(12), day(14)),
				booking.ReconstructInterval(day(18), day(20)),
			},
		}

		q := NewAvailabilityQueries(store, noopCache{})
		quotes, err := q.AvailableRoomRanges(context.Background(), room.ID, booking.ReconstructInterval(day(10), day(25)))
		require.NoError(t, err)

		require.Len(t, quotes, 3)
		assert.Equal(t, day(10), quotes[0].Start)
		assert.Equal(t, day(12), quotes[0].End)
		assert.Equal(t, day(14), quotes[1].Start)
		assert.Equal(t, day(18), quotes[1].End)
		assert.Equal(t, day(20), quotes[2].Start)
		assert.Equal(t, day(25), quotes[2].End)
	})

	t.Run("no stays yields the whole window", func(t *testing.T) {
		store := &stubCatalogStore{room: room}

		q := NewAvailabilityQueries(store, noopCache{})
		quotes, err := q.AvailableRoomRanges(context.Background(), room.ID, booking.ReconstructInterval(day(10), day(12)))
		require.NoError(t, err)

		require.Len(t, quotes, 1)
		assert.Equal(t, day(10), quotes[0].Start)
		assert.Equal(t, day(12), quotes[0].End)
		assert.True(t, quotes[0].Total.Equal(decimal.NewFromInt(300)), "three inclusive days at 100")
	})

	t.Run("stay beyond the window does not extend quotes", func(t *testing.T) {
		store := &stubCatalogStore{
			room:  room,
			stays: []booking.Interval{booking.ReconstructInterval(day(20), day(22))},
		}

		q := NewAvailabilityQueries(store, noopCache{})
		quotes, err := q.AvailableRoomRanges(context.Background(), room.ID, booking.ReconstructInterval(day(10), day(12)))
		require.NoError(t, err)

		require.Len(t, quotes, 1)
		assert.Equal(t, day(10), quotes[0].Start)
		assert.Equal(t, day(12), quotes[0].End)
	})

	t.Run("fully booked window yields nothing", func(t *testing.T) {
		store := &stubCatalogStore{
			room:  room,
			stays: []booking.Interval{booking.ReconstructInterval(day(1), day(30))},
		}

		q := NewAvailabilityQueries(store, noopCache{})
		quotes, err := q.AvailableRoomRanges(context.Background(), room.ID, booking.ReconstructInterval(day(10), day(12)))
		require.NoError(t, err)
		assert.Empty(t, quotes)
	})

	t.Run("unknown room", func(t *testing.T) {
		store := &stubCatalogStore{roomErr: infra.WrapRepoErr("room not found", nil, infra.KindNotFound)}

		q := NewAvailabilityQueries(store, noopCache{})
		_, err := q.AvailableRoomRanges(context.Background(), uuid.New(), booking.ReconstructInterval(day(10), day(12)))
		assert.ErrorIs(t, err, errs.ErrRoomNotFound)
	})
}

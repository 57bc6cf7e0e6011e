package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"travelid/internal/domain/booking"
	"travelid/internal/domain/catalog"
	"travelid/internal/infra"
	"travelid/internal/infra/db"
	"travelid/internal/pkg/pgconv"
	"travelid/internal/usecase/queries"
)

// CatalogReadStore serves the listing scans. Bookings of canceled
// reservations are filtered out at the SQL level so occupancy only reflects
// live holds.
type CatalogReadStore struct {
	db db.DBTX
}

func NewCatalogReadStore(dbtx db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: dbtx}
}

// occupancyQuery lists every resource row alongside the intervals of its live
// bookings. The canceled filter must sit inside the derived table: pushing it
// into the outer join's ON clause would only null the reservation columns and
// keep the stay row, counting canceled bookings as occupancy.
func occupancyQuery(resourceTable, parentCol, bookingTable, bookingCol string) string {
	return `
		SELECT r.id, r.` + parentCol + `, b.start_time, b.end_time
		FROM ` + resourceTable + ` r
		LEFT JOIN (
			SELECT s.` + bookingCol + `, s.start_time, s.end_time
			FROM ` + bookingTable + ` s
			JOIN reservations rv ON rv.id = s.reservation_id
			WHERE rv.canceled = false
		) b ON b.` + bookingCol + ` = r.id
		ORDER BY r.` + parentCol + `, r.id`
}

func (s *CatalogReadStore) Hotels(ctx context.Context) ([]queries.HotelWithRooms, error) {
	const hotelQuery = `
		SELECT id, name, location, category
		FROM hotels
		ORDER BY id`

	rows, err := s.db.Query(ctx, hotelQuery)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list hotels", err)
	}
	defer rows.Close()

	var hotels []queries.HotelWithRooms
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var h catalog.Hotel
		var category int32
		if err := rows.Scan(&h.ID, &h.Name, &h.Location, &category); err != nil {
			return nil, infra.WrapRepoErr("failed to scan hotel", err)
		}
		h.Category = int(category)
		index[h.ID] = len(hotels)
		hotels = append(hotels, queries.HotelWithRooms{Hotel: h})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read hotels", err)
	}

	roomRows, err := s.db.Query(ctx, occupancyQuery("rooms", "hotel_id", "room_stays", "room_id"))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list rooms", err)
	}
	defer roomRows.Close()

	roomIndex := map[uuid.UUID]*queries.RoomOccupancy{}
	for roomRows.Next() {
		var roomID, hotelID uuid.UUID
		var start, end pgtype.Timestamptz
		if err := roomRows.Scan(&roomID, &hotelID, &start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan room occupancy", err)
		}

		occ, seen := roomIndex[roomID]
		if !seen {
			hi, ok := index[hotelID]
			if !ok {
				continue
			}
			hotels[hi].Rooms = append(hotels[hi].Rooms, queries.RoomOccupancy{RoomID: roomID})
			occ = &hotels[hi].Rooms[len(hotels[hi].Rooms)-1]
			roomIndex[roomID] = occ
		}
		if start.Valid && end.Valid {
			occ.Stays = append(occ.Stays, booking.ReconstructInterval(start.Time, end.Time))
		}
	}
	if err := roomRows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read room occupancy", err)
	}
	return hotels, nil
}

func (s *CatalogReadStore) Flights(ctx context.Context) ([]queries.FlightWithSeats, error) {
	const flightQuery = `
		SELECT id, origin, destination, departure_time, arrival_time
		FROM flights
		ORDER BY departure_time, id`

	rows, err := s.db.Query(ctx, flightQuery)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list flights", err)
	}
	defer rows.Close()

	var flights []queries.FlightWithSeats
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var f catalog.Flight
		if err := rows.Scan(&f.ID, &f.Origin, &f.Destination, &f.Departure, &f.Arrival); err != nil {
			return nil, infra.WrapRepoErr("failed to scan flight", err)
		}
		index[f.ID] = len(flights)
		flights = append(flights, queries.FlightWithSeats{Flight: f})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read flights", err)
	}

	seatRows, err := s.db.Query(ctx, occupancyQuery("seats", "flight_id", "seat_assignments", "seat_id"))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list seats", err)
	}
	defer seatRows.Close()

	seatIndex := map[uuid.UUID]*queries.SeatOccupancy{}
	for seatRows.Next() {
		var seatID, flightID uuid.UUID
		var start, end pgtype.Timestamptz
		if err := seatRows.Scan(&seatID, &flightID, &start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan seat occupancy", err)
		}

		occ, seen := seatIndex[seatID]
		if !seen {
			fi, ok := index[flightID]
			if !ok {
				continue
			}
			flights[fi].Seats = append(flights[fi].Seats, queries.SeatOccupancy{SeatID: seatID})
			occ = &flights[fi].Seats[len(flights[fi].Seats)-1]
			seatIndex[seatID] = occ
		}
		if start.Valid && end.Valid {
			occ.Assignments = append(occ.Assignments, booking.ReconstructInterval(start.Time, end.Time))
		}
	}
	if err := seatRows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read seat occupancy", err)
	}
	return flights, nil
}

func (s *CatalogReadStore) Activities(ctx context.Context) ([]catalog.Activity, error) {
	const query = `
		SELECT id, name, location, start_time, end_time, max_attendees, confirmed_attendees
		FROM activities
		ORDER BY start_time, id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list activities", err)
	}
	defer rows.Close()

	var out []catalog.Activity
	for rows.Next() {
		var a catalog.Activity
		var maxAtt, confirmed int32
		if err := rows.Scan(&a.ID, &a.Name, &a.Location, &a.StartTime, &a.EndTime, &maxAtt, &confirmed); err != nil {
			return nil, infra.WrapRepoErr("failed to scan activity", err)
		}
		a.MaxAttendees = int(maxAtt)
		a.ConfirmedAttendees = int(confirmed)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read activities", err)
	}
	return out, nil
}

func (s *CatalogReadStore) RoomWithPrices(ctx context.Context, roomID uuid.UUID) (*catalog.Room, error) {
	const query = `
		SELECT id, hotel_id, number, capacity
		FROM rooms
		WHERE id = $1`

	var room catalog.Room
	var capacity int32
	err := s.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(roomID)).Scan(
		&room.ID, &room.HotelID, &room.Number, &capacity,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("room not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find room", err)
	}
	room.Capacity = int(capacity)

	room.Prices, err = loadPriceTimeline(ctx, s.db, "room_id", roomID)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *CatalogReadStore) RoomStays(ctx context.Context, roomID uuid.UUID) ([]booking.Interval, error) {
	const query = `
		SELECT st.start_time, st.end_time
		FROM room_stays st
		JOIN reservations rv ON rv.id = st.reservation_id
		WHERE st.room_id = $1 AND rv.canceled = false
		ORDER BY st.start_time`

	rows, err := s.db.Query(ctx, query, pgconv.UUIDToPgtype(roomID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list room stays", err)
	}
	defer rows.Close()

	var out []booking.Interval
	for rows.Next() {
		var start, end pgtype.Timestamptz
		if err := rows.Scan(&start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan room stay", err)
		}
		out = append(out, booking.ReconstructInterval(start.Time, end.Time))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read room stays", err)
	}
	return out, nil
}

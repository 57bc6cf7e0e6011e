package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"travelid/internal/domain/booking"
	"travelid/internal/domain/catalog"
	"travelid/internal/domain/pricing"
	"travelid/internal/infra"
	"travelid/internal/infra/db"
	"travelid/internal/pkg/pgconv"
)

var priceColumns = map[booking.Kind]struct {
	table  string
	column string
}{
	booking.KindRoom:     {table: "rooms", column: "room_id"},
	booking.KindSeat:     {table: "seats", column: "seat_id"},
	booking.KindActivity: {table: "activities", column: "activity_id"},
}

type PriceReadStore struct {
	db db.DBTX
}

func NewPriceReadStore(dbtx db.DBTX) *PriceReadStore {
	return &PriceReadStore{db: dbtx}
}

// TimelineFor distinguishes "resource missing" from "resource unpriced": the
// former is NOT_FOUND, the latter an empty timeline.
func (s *PriceReadStore) TimelineFor(ctx context.Context, kind booking.Kind, resourceID uuid.UUID) ([]pricing.Record, error) {
	tbl, ok := priceColumns[kind]
	if !ok {
		return nil, infra.WrapRepoErr("unknown booking kind "+string(kind), nil)
	}

	query := `SELECT EXISTS (SELECT 1 FROM ` + tbl.table + ` WHERE id = $1)`
	var exists bool
	if err := s.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(resourceID)).Scan(&exists); err != nil {
		return nil, infra.WrapRepoErr("failed to check resource existence", err)
	}
	if !exists {
		return nil, infra.WrapRepoErr("resource not found", nil, infra.KindNotFound)
	}

	return loadPriceTimeline(ctx, s.db, tbl.column, resourceID)
}

func (s *PriceReadStore) RoomsOfHotel(ctx context.Context, hotelID uuid.UUID) ([]catalog.Room, error) {
	const query = `
		SELECT id, hotel_id, number, capacity
		FROM rooms
		WHERE hotel_id = $1
		ORDER BY number, id`

	rows, err := s.db.Query(ctx, query, pgconv.UUIDToPgtype(hotelID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list hotel rooms", err)
	}
	defer rows.Close()

	var out []catalog.Room
	for rows.Next() {
		var room catalog.Room
		var capacity int32
		if err := rows.Scan(&room.ID, &room.HotelID, &room.Number, &capacity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan room", err)
		}
		room.Capacity = int(capacity)
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read hotel rooms", err)
	}

	for i := range out {
		out[i].Prices, err = loadPriceTimeline(ctx, s.db, "room_id", out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PriceReadStore) SeatsOfFlight(ctx context.Context, flightID uuid.UUID) ([]catalog.Seat, error) {
	const query = `
		SELECT id, flight_id, number, category
		FROM seats
		WHERE flight_id = $1
		ORDER BY number, id`

	rows, err := s.db.Query(ctx, query, pgconv.UUIDToPgtype(flightID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list flight seats", err)
	}
	defer rows.Close()

	var out []catalog.Seat
	for rows.Next() {
		var seat catalog.Seat
		if err := rows.Scan(&seat.ID, &seat.FlightID, &seat.Number, &seat.Category); err != nil {
			return nil, infra.WrapRepoErr("failed to scan seat", err)
		}
		out = append(out, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read flight seats", err)
	}

	for i := range out {
		out[i].Prices, err = loadPriceTimeline(ctx, s.db, "seat_id", out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PriceReadStore) ActivitiesByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Activity, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `
		SELECT id, name, location, start_time, end_time, max_attendees, confirmed_attendees
		FROM activities
		WHERE id = ANY($1)
		ORDER BY start_time, id`

	rows, err := s.db.Query(ctx, query, ids)
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

	for i := range out {
		out[i].Prices, err = loadPriceTimeline(ctx, s.db, "activity_id", out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func loadPriceTimeline(ctx context.Context, dbtx db.DBTX, column string, resourceID uuid.UUID) ([]pricing.Record, error) {
	query := `
		SELECT id, value, valid_from, valid_until
		FROM price_records
		WHERE ` + column + ` = $1
		ORDER BY valid_from, id`

	rows, err := dbtx.Query(ctx, query, pgconv.UUIDToPgtype(resourceID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load price timeline", err)
	}
	defer rows.Close()

	var records []pricing.Record
	for rows.Next() {
		var rec pricing.Record
		var value pgtype.Numeric
		var until pgtype.Timestamptz
		if err := rows.Scan(&rec.ID, &value, &rec.ValidFrom, &until); err != nil {
			return nil, infra.WrapRepoErr("failed to scan price record", err)
		}
		if d, ok := pgconv.DecimalFromNumeric(value); ok {
			rec.Value = d
		}
		rec.ValidUntil = pgconv.TimePtrFromPgtype(until)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read price timeline", err)
	}
	return records, nil
}

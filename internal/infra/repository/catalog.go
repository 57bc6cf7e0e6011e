package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"travelid/internal/domain/catalog"
	"travelid/internal/domain/pricing"
	"travelid/internal/infra"
	"travelid/internal/infra/db"
	"travelid/internal/pkg/pgconv"
)

type CatalogRepository struct {
	db db.DBTX
}

func NewCatalogRepository(dbtx db.DBTX) *CatalogRepository {
	return &CatalogRepository{db: dbtx}
}

// LockRoom loads the room and its price timeline under FOR UPDATE so
// concurrent attaches to the same room serialize before the overlap check.
func (r *CatalogRepository) LockRoom(ctx context.Context, id uuid.UUID) (*catalog.Room, error) {
	const query = `
		SELECT id, hotel_id, number, capacity
		FROM rooms
		WHERE id = $1
		FOR UPDATE`

	var room catalog.Room
	var capacity int32
	err := r.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(id)).Scan(
		&room.ID, &room.HotelID, &room.Number, &capacity,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("room not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock room", err)
	}
	room.Capacity = int(capacity)

	room.Prices, err = r.priceTimeline(ctx, "room_id", id)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// LockSeat returns the seat together with its flight; the flight window is
// authoritative for the assignment interval.
func (r *CatalogRepository) LockSeat(ctx context.Context, id uuid.UUID) (*catalog.Seat, *catalog.Flight, error) {
	const query = `
		SELECT s.id, s.flight_id, s.number, s.category,
		       f.id, f.origin, f.destination, f.departure_time, f.arrival_time
		FROM seats s
		JOIN flights f ON f.id = s.flight_id
		WHERE s.id = $1
		FOR UPDATE OF s`

	var seat catalog.Seat
	var flight catalog.Flight
	err := r.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(id)).Scan(
		&seat.ID, &seat.FlightID, &seat.Number, &seat.Category,
		&flight.ID, &flight.Origin, &flight.Destination, &flight.Departure, &flight.Arrival,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil, infra.WrapRepoErr("seat not found", err, infra.KindNotFound)
		}
		return nil, nil, infra.WrapRepoErr("failed to lock seat", err)
	}

	seat.Prices, err = r.priceTimeline(ctx, "seat_id", id)
	if err != nil {
		return nil, nil, err
	}
	return &seat, &flight, nil
}

func (r *CatalogRepository) LockActivity(ctx context.Context, id uuid.UUID) (*catalog.Activity, error) {
	const query = `
		SELECT id, name, location, start_time, end_time, max_attendees, confirmed_attendees
		FROM activities
		WHERE id = $1
		FOR UPDATE`

	var act catalog.Activity
	var maxAtt, confirmed int32
	err := r.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(id)).Scan(
		&act.ID, &act.Name, &act.Location, &act.StartTime, &act.EndTime, &maxAtt, &confirmed,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("activity not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock activity", err)
	}
	act.MaxAttendees = int(maxAtt)
	act.ConfirmedAttendees = int(confirmed)

	act.Prices, err = r.priceTimeline(ctx, "activity_id", id)
	if err != nil {
		return nil, err
	}
	return &act, nil
}

// AddAttendees is check and increment in one statement; zero rows affected
// means the places no longer fit.
func (r *CatalogRepository) AddAttendees(ctx context.Context, activityID uuid.UUID, n int) (bool, error) {
	const query = `
		UPDATE activities
		SET confirmed_attendees = confirmed_attendees + $2
		WHERE id = $1 AND confirmed_attendees + $2 <= max_attendees`

	tag, err := r.db.Exec(ctx, query, pgconv.UUIDToPgtype(activityID), int32(n))
	if err != nil {
		return false, infra.WrapRepoErr("failed to add attendees", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseAttendees never drops the counter below zero even if called against
// inconsistent data.
func (r *CatalogRepository) ReleaseAttendees(ctx context.Context, activityID uuid.UUID, n int) error {
	const query = `
		UPDATE activities
		SET confirmed_attendees = GREATEST(confirmed_attendees - $2, 0)
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, pgconv.UUIDToPgtype(activityID), int32(n))
	if err != nil {
		return infra.WrapRepoErr("failed to release attendees", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("activity not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CatalogRepository) priceTimeline(ctx context.Context, column string, resourceID uuid.UUID) ([]pricing.Record, error) {
	query := `
		SELECT id, value, valid_from, valid_until
		FROM price_records
		WHERE ` + column + ` = $1
		ORDER BY valid_from, id`

	rows, err := r.db.Query(ctx, query, pgconv.UUIDToPgtype(resourceID))
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

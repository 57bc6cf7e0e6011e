package repository

import (
	"context"

	"github.com/google/uuid"

	"travelid/internal/domain/booking"
	"travelid/internal/infra"
	"travelid/internal/infra/db"
	"travelid/internal/pkg/pgconv"
)

// bookingTables maps each booking kind to its table and resource column.
var bookingTables = map[booking.Kind]struct {
	table    string
	resource string
}{
	booking.KindRoom:     {table: "room_stays", resource: "room_id"},
	booking.KindSeat:     {table: "seat_assignments", resource: "seat_id"},
	booking.KindActivity: {table: "activity_attendances", resource: "activity_id"},
}

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) InsertRoomStay(ctx context.Context, reservationID, roomID uuid.UUID, stay booking.Interval) error {
	const query = `
		INSERT INTO room_stays (id, reservation_id, room_id, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		pgconv.UUIDToPgtype(uuid.New()),
		pgconv.UUIDToPgtype(reservationID),
		pgconv.UUIDToPgtype(roomID),
		pgconv.TimeToPgtype(stay.Start()),
		pgconv.TimeToPgtype(stay.End()),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("room stay references unknown row", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to insert room stay", err)
	}
	return nil
}

func (r *BookingRepository) InsertSeatAssignment(ctx context.Context, reservationID, seatID uuid.UUID, flight booking.Interval) error {
	const query = `
		INSERT INTO seat_assignments (id, reservation_id, seat_id, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		pgconv.UUIDToPgtype(uuid.New()),
		pgconv.UUIDToPgtype(reservationID),
		pgconv.UUIDToPgtype(seatID),
		pgconv.TimeToPgtype(flight.Start()),
		pgconv.TimeToPgtype(flight.End()),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return infra.WrapRepoErr("seat already assigned for this flight", err, infra.KindDuplicateKey)
		}
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("seat assignment references unknown row", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to insert seat assignment", err)
	}
	return nil
}

func (r *BookingRepository) InsertActivityAttendance(ctx context.Context, reservationID, activityID uuid.UUID, slot booking.Interval, attendees int) error {
	const query = `
		INSERT INTO activity_attendances (id, reservation_id, activity_id, start_time, end_time, attendees)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		pgconv.UUIDToPgtype(uuid.New()),
		pgconv.UUIDToPgtype(reservationID),
		pgconv.UUIDToPgtype(activityID),
		pgconv.TimeToPgtype(slot.Start()),
		pgconv.TimeToPgtype(slot.End()),
		int32(attendees),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("activity attendance references unknown row", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to insert activity attendance", err)
	}
	return nil
}

// OverlapExists runs the half-open interval test in SQL against all bookings
// of live reservations on the resource. The caller must already hold the
// resource row lock, otherwise two attaches can both see "no overlap".
func (r *BookingRepository) OverlapExists(ctx context.Context, kind booking.Kind, resourceID uuid.UUID, candidate booking.Interval) (bool, error) {
	tbl, ok := bookingTables[kind]
	if !ok {
		return false, infra.WrapRepoErr("unknown booking kind "+string(kind), nil)
	}

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM ` + tbl.table + ` b
			JOIN reservations r ON r.id = b.reservation_id
			WHERE b.` + tbl.resource + ` = $1
			  AND r.canceled = false
			  AND b.start_time < $3
			  AND b.end_time > $2
		)`

	var exists bool
	err := r.db.QueryRow(ctx, query,
		pgconv.UUIDToPgtype(resourceID),
		pgconv.TimeToPgtype(candidate.Start()),
		pgconv.TimeToPgtype(candidate.End()),
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check booking overlap", err)
	}
	return exists, nil
}

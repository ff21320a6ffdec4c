package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/room-booking/internal/calendar"
	"github.com/example/room-booking/internal/persistence"
)

const reservationColumns = `id, room_id, date, comment, created_at`

// CreateReservation inserts a reservation. The (room_id, date) pair is unique.
func (r *repositories) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" || reservation.RoomID == "" || reservation.Date.IsZero() {
		return persistence.ErrConstraintViolation
	}

	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = time.Now().UTC()
	}

	var comment sql.NullString
	if reservation.Comment != nil {
		comment = sql.NullString{String: *reservation.Comment, Valid: true}
	}

	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.q.ExecContext(ctx, query,
		reservation.ID,
		reservation.RoomID,
		reservation.Date,
		comment,
		formatTimestamp(reservation.CreatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// ListReservations returns reservations matching filter ordered by date.
func (r *repositories) ListReservations(ctx context.Context, filter persistence.ReservationFilter) ([]persistence.Reservation, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.RoomID != "" {
		clauses = append(clauses, "room_id = ?")
		args = append(args, filter.RoomID)
	}
	if filter.From != nil && !filter.From.IsZero() {
		clauses = append(clauses, "date >= ?")
		args = append(args, *filter.From)
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY date ASC, rowid ASC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	reservations := make([]persistence.Reservation, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return reservations, nil
}

// ReservationExists reports whether the room already holds a reservation on date.
func (r *repositories) ReservationExists(ctx context.Context, roomID string, date calendar.Date) (bool, error) {
	var exists int
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reservations WHERE room_id = ? AND date = ?)`,
		roomID, date,
	).Scan(&exists)
	if err != nil {
		return false, r.mapper.MapError(err)
	}
	return exists == 1, nil
}

// ListRoomIDsReservedOn returns the ids of rooms holding a reservation on date.
func (r *repositories) ListRoomIDsReservedOn(ctx context.Context, date calendar.Date) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT DISTINCT room_id FROM reservations WHERE date = ? ORDER BY room_id`,
		date,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, r.mapper.MapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return ids, nil
}

// DeleteReservationsForRoom removes every reservation owned by the room and
// returns how many were deleted.
func (r *repositories) DeleteReservationsForRoom(ctx context.Context, roomID string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM reservations WHERE room_id = ?`, roomID)
	if err != nil {
		return 0, r.mapper.MapError(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var (
		reservation persistence.Reservation
		comment     sql.NullString
		createdAt   string
	)

	if err := row.Scan(
		&reservation.ID,
		&reservation.RoomID,
		&reservation.Date,
		&comment,
		&createdAt,
	); err != nil {
		return persistence.Reservation{}, err
	}

	if comment.Valid {
		value := comment.String
		reservation.Comment = &value
	}

	var err error
	if reservation.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return reservation, nil
}

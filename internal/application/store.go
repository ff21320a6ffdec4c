package application

import (
	"context"

	"github.com/example/room-booking/internal/calendar"
)

// RoomRepository captures the room persistence operations needed by the services.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	GetRoomByName(ctx context.Context, name string) (Room, error)
	UpdateRoom(ctx context.Context, room Room) (Room, error)
	DeleteRoom(ctx context.Context, id string) error
	ListRooms(ctx context.Context) ([]Room, error)
}

// ReservationRepository captures the reservation persistence operations needed
// by the services.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	// ListReservations returns the room's reservations dated on or after from,
	// ascending by date. A zero from returns all of them.
	ListReservations(ctx context.Context, roomID string, from calendar.Date) ([]Reservation, error)
	ReservationExists(ctx context.Context, roomID string, date calendar.Date) (bool, error)
	ReservedRoomIDs(ctx context.Context, date calendar.Date) ([]string, error)
	DeleteReservationsForRoom(ctx context.Context, roomID string) (int64, error)
}

// Repositories groups the repositories that share one unit of work.
type Repositories interface {
	RoomRepository
	ReservationRepository
}

// Store runs every service operation as one atomic unit.
type Store interface {
	// WithinTx commits when fn returns nil and rolls back otherwise, returning
	// fn's error unchanged.
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

// AvailabilityCache remembers which rooms hold a reservation on a date.
// Failures are reported but never fatal; callers fall back to the store.
type AvailabilityCache interface {
	ReservedRooms(ctx context.Context, date calendar.Date) (ids []string, ok bool, err error)
	StoreReservedRooms(ctx context.Context, date calendar.Date, ids []string) error
	Invalidate(ctx context.Context, date calendar.Date) error
}

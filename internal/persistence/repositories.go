package persistence

import (
	"context"

	"github.com/example/room-booking/internal/calendar"
)

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	GetRoomByName(ctx context.Context, name string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// ReservationFilter narrows reservation queries for a single room.
type ReservationFilter struct {
	RoomID string
	// From, when set, keeps only reservations dated on or after it.
	From *calendar.Date
}

// ReservationRepository stores reservations owned by rooms.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) error
	ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
	ReservationExists(ctx context.Context, roomID string, date calendar.Date) (bool, error)
	ListRoomIDsReservedOn(ctx context.Context, date calendar.Date) ([]string, error)
	DeleteReservationsForRoom(ctx context.Context, roomID string) (int64, error)
}

// Repositories groups the repositories that share one unit of work.
type Repositories interface {
	RoomRepository
	ReservationRepository
}

// Store runs repository calls either directly or inside a transaction.
type Store interface {
	Repositories
	// WithinTx runs fn in a single transaction. The transaction commits when fn
	// returns nil and rolls back otherwise; fn's error is returned unchanged.
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
	Ping(ctx context.Context) error
	Close() error
}

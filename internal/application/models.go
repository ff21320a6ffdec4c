package application

import (
	"time"

	"github.com/example/room-booking/internal/calendar"
)

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name                  string
	Capacity              int
	ProjectorAvailability bool
}

// Room represents a bookable meeting room.
type Room struct {
	ID                    string
	Name                  string
	Capacity              int
	ProjectorAvailability bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// RoomSummary is a room annotated with whether it is reserved today.
type RoomSummary struct {
	Room
	ReservedToday bool
}

// Reservation claims a room for one calendar date.
type Reservation struct {
	ID        string
	RoomID    string
	Date      calendar.Date
	Comment   string
	CreatedAt time.Time
}

// RoomDetails is a room together with its upcoming reservations.
type RoomDetails struct {
	Room     Room
	Upcoming []Reservation
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Input RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	RoomID string
	Input  RoomInput
}

// SearchRoomsParams narrows the room list. Zero values disable a filter.
type SearchRoomsParams struct {
	NamePattern      string
	MinCapacity      int
	RequireProjector bool
}

// CreateReservationParams wraps the data required to reserve a room.
type CreateReservationParams struct {
	RoomID  string
	Date    calendar.Date
	Comment string
}

// ReservationResult is the created reservation and the room's refreshed
// upcoming reservations.
type ReservationResult struct {
	Reservation Reservation
	Upcoming    []Reservation
}

package persistence

import (
	"time"

	"github.com/example/room-booking/internal/calendar"
)

// Room represents a bookable meeting room.
type Room struct {
	ID                    string
	Name                  string
	Capacity              int
	ProjectorAvailability bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Reservation represents a claim on a room for a single calendar date.
type Reservation struct {
	ID        string
	RoomID    string
	Date      calendar.Date
	Comment   *string
	CreatedAt time.Time
}

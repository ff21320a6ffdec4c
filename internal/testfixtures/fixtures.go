package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/calendar"
	"github.com/example/room-booking/internal/persistence"
)

var (
	roomCounter        uint64
	reservationCounter uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns the calendar date of ReferenceTime.
func ReferenceDate() calendar.Date {
	return calendar.FromTime(referenceTime)
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic meeting room record.
type RoomFixture struct {
	ID                    string
	Name                  string
	Capacity              int
	ProjectorAvailability bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	id := fmt.Sprintf("room-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := RoomFixture{
		ID:        id,
		Name:      fmt.Sprintf("Room %03d", idx),
		Capacity:  int(4 + idx%4),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(f *RoomFixture) {
		f.ID = id
	}
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(f *RoomFixture) {
		f.Name = name
	}
}

// WithRoomCapacity overrides the generated capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(f *RoomFixture) {
		f.Capacity = capacity
	}
}

// WithRoomProjector marks whether the room has a projector.
func WithRoomProjector(available bool) RoomOption {
	return func(f *RoomFixture) {
		f.ProjectorAvailability = available
	}
}

// WithRoomTimestamps sets both created and updated timestamps.
func WithRoomTimestamps(created, updated time.Time) RoomOption {
	return func(f *RoomFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.Room value.
func (f RoomFixture) Application() application.Room {
	return application.Room{
		ID:                    f.ID,
		Name:                  f.Name,
		Capacity:              f.Capacity,
		ProjectorAvailability: f.ProjectorAvailability,
		CreatedAt:             f.CreatedAt,
		UpdatedAt:             f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Room value.
func (f RoomFixture) Persistence() persistence.Room {
	return persistence.Room{
		ID:                    f.ID,
		Name:                  f.Name,
		Capacity:              f.Capacity,
		ProjectorAvailability: f.ProjectorAvailability,
		CreatedAt:             f.CreatedAt,
		UpdatedAt:             f.UpdatedAt,
	}
}

// Input returns the fixture as an application.RoomInput.
func (f RoomFixture) Input() application.RoomInput {
	return application.RoomInput{
		Name:                  f.Name,
		Capacity:              f.Capacity,
		ProjectorAvailability: f.ProjectorAvailability,
	}
}

// -------------------------- Reservation fixtures --------------------------

// ReservationFixture represents a deterministic reservation record.
type ReservationFixture struct {
	ID        string
	RoomID    string
	Date      calendar.Date
	Comment   string
	CreatedAt time.Time
}

// ReservationOption configures the generated reservation fixture.
type ReservationOption func(*ReservationFixture)

// NewReservationFixture returns a reservation for roomID. Successive fixtures
// fall on successive days after ReferenceDate.
func NewReservationFixture(roomID string, opts ...ReservationOption) ReservationFixture {
	idx := atomic.AddUint64(&reservationCounter, 1)
	fixture := ReservationFixture{
		ID:        fmt.Sprintf("reservation-%03d", idx),
		RoomID:    roomID,
		Date:      ReferenceDate().AddDays(int(idx)),
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithReservationID overrides the generated reservation ID.
func WithReservationID(id string) ReservationOption {
	return func(f *ReservationFixture) {
		f.ID = id
	}
}

// WithReservationDate overrides the generated date.
func WithReservationDate(date calendar.Date) ReservationOption {
	return func(f *ReservationFixture) {
		f.Date = date
	}
}

// WithReservationComment sets the comment.
func WithReservationComment(comment string) ReservationOption {
	return func(f *ReservationFixture) {
		f.Comment = comment
	}
}

// Application returns the fixture as an application.Reservation value.
func (f ReservationFixture) Application() application.Reservation {
	return application.Reservation{
		ID:        f.ID,
		RoomID:    f.RoomID,
		Date:      f.Date,
		Comment:   f.Comment,
		CreatedAt: f.CreatedAt,
	}
}

// Persistence returns the fixture as a persistence.Reservation value. An
// empty comment is stored as NULL.
func (f ReservationFixture) Persistence() persistence.Reservation {
	var comment *string
	if f.Comment != "" {
		value := f.Comment
		comment = &value
	}
	return persistence.Reservation{
		ID:        f.ID,
		RoomID:    f.RoomID,
		Date:      f.Date,
		Comment:   comment,
		CreatedAt: f.CreatedAt,
	}
}

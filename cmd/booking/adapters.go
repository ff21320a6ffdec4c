package main

import (
	"context"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/calendar"
	"github.com/example/room-booking/internal/persistence"
)

// storeAdapter exposes a persistence.Store through the application's
// unit-of-work interface.
type storeAdapter struct {
	store persistence.Store
}

func newStoreAdapter(store persistence.Store) *storeAdapter {
	return &storeAdapter{store: store}
}

func (a *storeAdapter) WithinTx(ctx context.Context, fn func(repos application.Repositories) error) error {
	return a.store.WithinTx(ctx, func(repos persistence.Repositories) error {
		return fn(&repositoriesAdapter{repos: repos})
	})
}

type repositoriesAdapter struct {
	repos persistence.Repositories
}

var _ application.Repositories = (*repositoriesAdapter)(nil)

func (a *repositoriesAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repos.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repos.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *repositoriesAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	stored, err := a.repos.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *repositoriesAdapter) GetRoomByName(ctx context.Context, name string) (application.Room, error) {
	stored, err := a.repos.GetRoomByName(ctx, name)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *repositoriesAdapter) UpdateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repos.UpdateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repos.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *repositoriesAdapter) DeleteRoom(ctx context.Context, id string) error {
	return a.repos.DeleteRoom(ctx, id)
}

func (a *repositoriesAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repos.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

func (a *repositoriesAdapter) CreateReservation(ctx context.Context, reservation application.Reservation) (application.Reservation, error) {
	model := toPersistenceReservation(reservation)
	if err := a.repos.CreateReservation(ctx, model); err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(model), nil
}

func (a *repositoriesAdapter) ListReservations(ctx context.Context, roomID string, from calendar.Date) ([]application.Reservation, error) {
	filter := persistence.ReservationFilter{RoomID: roomID}
	if !from.IsZero() {
		filter.From = &from
	}
	models, err := a.repos.ListReservations(ctx, filter)
	if err != nil {
		return nil, err
	}
	reservations := make([]application.Reservation, 0, len(models))
	for _, model := range models {
		reservations = append(reservations, toApplicationReservation(model))
	}
	return reservations, nil
}

func (a *repositoriesAdapter) ReservationExists(ctx context.Context, roomID string, date calendar.Date) (bool, error) {
	return a.repos.ReservationExists(ctx, roomID, date)
}

func (a *repositoriesAdapter) ReservedRoomIDs(ctx context.Context, date calendar.Date) ([]string, error) {
	return a.repos.ListRoomIDsReservedOn(ctx, date)
}

func (a *repositoriesAdapter) DeleteReservationsForRoom(ctx context.Context, roomID string) (int64, error) {
	return a.repos.DeleteReservationsForRoom(ctx, roomID)
}

func toApplicationRoom(model persistence.Room) application.Room {
	return application.Room{
		ID:                    model.ID,
		Name:                  model.Name,
		Capacity:              model.Capacity,
		ProjectorAvailability: model.ProjectorAvailability,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
	}
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		ID:                    room.ID,
		Name:                  room.Name,
		Capacity:              room.Capacity,
		ProjectorAvailability: room.ProjectorAvailability,
		CreatedAt:             room.CreatedAt,
		UpdatedAt:             room.UpdatedAt,
	}
}

func toApplicationReservation(model persistence.Reservation) application.Reservation {
	comment := ""
	if model.Comment != nil {
		comment = *model.Comment
	}
	return application.Reservation{
		ID:        model.ID,
		RoomID:    model.RoomID,
		Date:      model.Date,
		Comment:   comment,
		CreatedAt: model.CreatedAt,
	}
}

func toPersistenceReservation(reservation application.Reservation) persistence.Reservation {
	var comment *string
	if reservation.Comment != "" {
		value := reservation.Comment
		comment = &value
	}
	return persistence.Reservation{
		ID:        reservation.ID,
		RoomID:    reservation.RoomID,
		Date:      reservation.Date,
		Comment:   comment,
		CreatedAt: reservation.CreatedAt,
	}
}

package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/room-booking/internal/calendar"
	"github.com/example/room-booking/internal/persistence"
)

// reservedRoomSet returns the ids of rooms reserved on date. The cache is
// consulted first and filled on a miss; cache failures only cost a query.
func reservedRoomSet(ctx context.Context, repos Repositories, cache AvailabilityCache, logger *slog.Logger, date calendar.Date) (map[string]bool, error) {
	if cache != nil {
		ids, ok, err := cache.ReservedRooms(ctx, date)
		switch {
		case err != nil:
			logger.WarnContext(ctx, "availability cache read failed", "error", err, "date", date.String())
		case ok:
			return idSet(ids), nil
		}
	}

	ids, err := repos.ReservedRoomIDs(ctx, date)
	if err != nil {
		return nil, storageError(err)
	}

	if cache != nil {
		if err := cache.StoreReservedRooms(ctx, date, ids); err != nil {
			logger.WarnContext(ctx, "availability cache write failed", "error", err, "date", date.String())
		}
	}

	return idSet(ids), nil
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func summarizeRooms(rooms []Room, reserved map[string]bool) []RoomSummary {
	summaries := make([]RoomSummary, len(rooms))
	for i, room := range rooms {
		summaries[i] = RoomSummary{Room: room, ReservedToday: reserved[room.ID]}
	}
	return summaries
}

// loadRoom resolves a room inside a unit of work.
func loadRoom(ctx context.Context, repos Repositories, id string) (Room, error) {
	room, err := repos.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
			return Room{}, roomNotFound(id)
		}
		return Room{}, storageError(err)
	}
	return room, nil
}

// loadDetails returns the room with its reservations dated today or later.
func loadDetails(ctx context.Context, repos Repositories, room Room, today calendar.Date) (*RoomDetails, error) {
	upcoming, err := repos.ListReservations(ctx, room.ID, today)
	if err != nil {
		return nil, storageError(err)
	}
	return &RoomDetails{Room: room, Upcoming: upcoming}, nil
}

// txResult classifies the error returned by Store.WithinTx. Domain errors
// raised inside the unit of work pass through; anything else is a storage failure.
func txResult(err error) error {
	if err == nil {
		return nil
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) || errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrStorage) {
		return err
	}
	return storageError(err)
}

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/room-booking/internal/calendar"
	"github.com/example/room-booking/internal/persistence"
)

var errStoreNotConfigured = errors.New("store not configured")

// RoomService registers, modifies, removes and lists rooms.
type RoomService struct {
	store        Store
	availability AvailabilityCache
	idGenerator  func() string
	now          func() time.Time
	clock        calendar.Clock
	logger       *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(store Store, idGenerator func() string, now func() time.Time, clock calendar.Clock) *RoomService {
	return NewRoomServiceWithLogger(store, nil, idGenerator, now, clock, nil)
}

// NewRoomServiceWithLogger constructs a room service with an availability
// cache and a specified logger. A nil cache disables caching.
func NewRoomServiceWithLogger(store Store, availability AvailabilityCache, idGenerator func() string, now func() time.Time, clock calendar.Clock, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if clock == nil {
		clock = calendar.NewSystemClock(nil)
	}
	return &RoomService{
		store:        store,
		availability: availability,
		idGenerator:  idGenerator,
		now:          now,
		clock:        clock,
		logger:       defaultLogger(logger),
	}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom validates input and persists a new room.
func (s *RoomService) CreateRoom(ctx context.Context, params CreateRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoom")
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to create room", err)
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room created")
	}()

	if s.store == nil {
		err = errStoreNotConfigured
		return
	}

	input := params.Input
	if vErr := validateRoomInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	err = txResult(s.store.WithinTx(ctx, func(repos Repositories) error {
		if err := ensureNameAvailable(ctx, repos, input.Name, nil); err != nil {
			return err
		}

		candidate := Room{
			ID:                    s.idGenerator(),
			Name:                  input.Name,
			Capacity:              input.Capacity,
			ProjectorAvailability: input.ProjectorAvailability,
			CreatedAt:             s.now(),
		}
		candidate.UpdatedAt = candidate.CreatedAt

		created, err := repos.CreateRoom(ctx, candidate)
		if err != nil {
			return mapRoomWriteError(err, nil)
		}
		room = created
		return nil
	}))
	return
}

// GetRoom returns a single room.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if s.store == nil {
		err = errStoreNotConfigured
		return
	}

	err = txResult(s.store.WithinTx(ctx, func(repos Repositories) error {
		var err error
		room, err = loadRoom(ctx, repos, roomID)
		return err
	}))
	if err != nil {
		logOutcome(ctx, s.loggerWith(ctx, "GetRoom", "room_id", roomID), "failed to get room", err)
	}
	return
}

// UpdateRoom resolves the room, validates input and overwrites the mutable
// fields. Keeping the current name never counts as a duplicate.
func (s *RoomService) UpdateRoom(ctx context.Context, params UpdateRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoom", "room_id", params.RoomID)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to update room", err)
			return
		}
		logger.InfoContext(ctx, "room updated")
	}()

	if s.store == nil {
		err = errStoreNotConfigured
		return
	}

	input := params.Input

	err = txResult(s.store.WithinTx(ctx, func(repos Repositories) error {
		existing, err := loadRoom(ctx, repos, params.RoomID)
		if err != nil {
			return err
		}
		details := &RoomDetails{Room: existing}

		if vErr := validateRoomInput(input); vErr.HasErrors() {
			vErr.Details = details
			return vErr
		}

		if input.Name != existing.Name {
			if err := ensureNameAvailable(ctx, repos, input.Name, details); err != nil {
				return err
			}
		}

		updated := existing
		updated.Name = input.Name
		updated.Capacity = input.Capacity
		updated.ProjectorAvailability = input.ProjectorAvailability
		updated.UpdatedAt = s.now()

		saved, err := repos.UpdateRoom(ctx, updated)
		if err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				return roomNotFound(params.RoomID)
			}
			return mapRoomWriteError(err, details)
		}
		room = saved
		return nil
	}))
	return
}

// DeleteRoom removes a room and every reservation it owns in one transaction.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID string) (err error) {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteRoom", "room_id", roomID)
	var removed int64
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to delete room", err)
			return
		}
		logger.InfoContext(ctx, "room deleted", "reservations_deleted", removed)
	}()

	if s.store == nil {
		return errStoreNotConfigured
	}

	return txResult(s.store.WithinTx(ctx, func(repos Repositories) error {
		if _, err := loadRoom(ctx, repos, roomID); err != nil {
			return err
		}

		var err error
		removed, err = repos.DeleteReservationsForRoom(ctx, roomID)
		if err != nil {
			return storageError(err)
		}

		if err := repos.DeleteRoom(ctx, roomID); err != nil {
			if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
				return roomNotFound(roomID)
			}
			return storageError(err)
		}
		return nil
	}))
}

// ListRooms returns every room in creation order, annotated with whether it
// is reserved today.
func (s *RoomService) ListRooms(ctx context.Context) (rooms []RoomSummary, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ListRooms")
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to list rooms", err)
			return
		}
		logger.With("result_count", len(rooms)).DebugContext(ctx, "rooms listed")
	}()

	rooms, err = s.summaries(ctx, logger)
	return
}

// SearchRooms lists rooms and keeps those matching every requested filter.
func (s *RoomService) SearchRooms(ctx context.Context, params SearchRoomsParams) (rooms []RoomSummary, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "SearchRooms",
		"name_pattern", params.NamePattern,
		"min_capacity", params.MinCapacity,
		"require_projector", params.RequireProjector,
	)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to search rooms", err)
			return
		}
		logger.With("result_count", len(rooms)).DebugContext(ctx, "rooms searched")
	}()

	var all []RoomSummary
	all, err = s.summaries(ctx, logger)
	if err != nil {
		return
	}
	rooms = FilterRooms(all, params)
	return
}

func (s *RoomService) summaries(ctx context.Context, logger *slog.Logger) ([]RoomSummary, error) {
	if s.store == nil {
		return nil, errStoreNotConfigured
	}

	var summaries []RoomSummary
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		rooms, err := repos.ListRooms(ctx)
		if err != nil {
			return storageError(err)
		}
		reserved, err := reservedRoomSet(ctx, repos, s.availability, logger, s.clock.Today())
		if err != nil {
			return err
		}
		summaries = summarizeRooms(rooms, reserved)
		return nil
	})
	if err != nil {
		return nil, txResult(err)
	}
	return summaries, nil
}

// validateRoomInput treats a whitespace-only name as empty. Accepted names are
// stored as submitted.
func validateRoomInput(input RoomInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", MsgEmptyName)
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", MsgNonPositiveCapacity)
	}

	return vErr
}

// ensureNameAvailable fails with a duplicate-name conflict when any room
// already carries name.
func ensureNameAvailable(ctx context.Context, repos Repositories, name string, details *RoomDetails) error {
	_, err := repos.GetRoomByName(ctx, name)
	switch {
	case err == nil:
		return &ConflictError{Field: "name", Message: MsgDuplicateName, Details: details}
	case errors.Is(err, persistence.ErrNotFound), errors.Is(err, ErrNotFound):
		return nil
	default:
		return storageError(err)
	}
}

// mapRoomWriteError maps a unique violation raised by a concurrent writer to
// the same conflict the pre-check reports.
func mapRoomWriteError(err error, details *RoomDetails) error {
	if errors.Is(err, persistence.ErrDuplicate) {
		return &ConflictError{Field: "name", Message: MsgDuplicateName, Details: details}
	}
	return storageError(err)
}

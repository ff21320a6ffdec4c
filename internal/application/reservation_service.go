package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/room-booking/internal/calendar"
	"github.com/example/room-booking/internal/persistence"
)

// ReservationService enforces the reservation rules: a room holds at most one
// reservation per date and no reservation starts in the past.
type ReservationService struct {
	store        Store
	availability AvailabilityCache
	idGenerator  func() string
	now          func() time.Time
	clock        calendar.Clock
	logger       *slog.Logger
}

// NewReservationService constructs a reservation service with the provided dependencies.
func NewReservationService(store Store, idGenerator func() string, now func() time.Time, clock calendar.Clock) *ReservationService {
	return NewReservationServiceWithLogger(store, nil, idGenerator, now, clock, nil)
}

// NewReservationServiceWithLogger constructs a reservation service with an
// availability cache and a specified logger.
func NewReservationServiceWithLogger(store Store, availability AvailabilityCache, idGenerator func() string, now func() time.Time, clock calendar.Clock, logger *slog.Logger) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if clock == nil {
		clock = calendar.NewSystemClock(nil)
	}
	return &ReservationService{
		store:        store,
		availability: availability,
		idGenerator:  idGenerator,
		now:          now,
		clock:        clock,
		logger:       defaultLogger(logger),
	}
}

func (s *ReservationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// ListUpcoming returns the room's reservations dated today or later,
// ascending by date.
func (s *ReservationService) ListUpcoming(ctx context.Context, roomID string) ([]Reservation, error) {
	details, err := s.GetRoomDetails(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return details.Upcoming, nil
}

// GetRoomDetails returns the room together with its upcoming reservations.
func (s *ReservationService) GetRoomDetails(ctx context.Context, roomID string) (details RoomDetails, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}

	logger := s.loggerWith(ctx, "GetRoomDetails", "room_id", roomID)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to load room details", err)
			return
		}
		logger.With("upcoming_count", len(details.Upcoming)).DebugContext(ctx, "room details loaded")
	}()

	if s.store == nil {
		err = errStoreNotConfigured
		return
	}

	today := s.clock.Today()
	err = txResult(s.store.WithinTx(ctx, func(repos Repositories) error {
		room, err := loadRoom(ctx, repos, roomID)
		if err != nil {
			return err
		}
		loaded, err := loadDetails(ctx, repos, room, today)
		if err != nil {
			return err
		}
		details = *loaded
		return nil
	}))
	return
}

// CreateReservation books a room for one date. Checks run in a fixed order:
// the room must exist, the date must be free, and only then must it not lie
// in the past. A booked past date therefore reports the conflict.
func (s *ReservationService) CreateReservation(ctx context.Context, params CreateReservationParams) (result ReservationResult, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateReservation",
		"room_id", params.RoomID,
		"date", params.Date.String(),
	)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to create reservation", err)
			return
		}
		logger.With("reservation_id", result.Reservation.ID).InfoContext(ctx, "reservation created")
	}()

	if s.store == nil {
		err = errStoreNotConfigured
		return
	}

	today := s.clock.Today()
	err = txResult(s.store.WithinTx(ctx, func(repos Repositories) error {
		room, err := loadRoom(ctx, repos, params.RoomID)
		if err != nil {
			return err
		}

		if params.Date.IsZero() {
			return s.rejectDate(ctx, repos, room, today, MsgInvalidDate)
		}

		booked, err := repos.ReservationExists(ctx, room.ID, params.Date)
		if err != nil {
			return storageError(err)
		}
		if booked {
			return s.conflict(ctx, repos, room, today)
		}

		if params.Date.Before(today) {
			return s.rejectDate(ctx, repos, room, today, MsgPastDate)
		}

		created, err := repos.CreateReservation(ctx, Reservation{
			ID:        s.idGenerator(),
			RoomID:    room.ID,
			Date:      params.Date,
			Comment:   params.Comment,
			CreatedAt: s.now(),
		})
		if err != nil {
			if errors.Is(err, persistence.ErrDuplicate) {
				return s.conflict(ctx, repos, room, today)
			}
			return storageError(err)
		}

		upcoming, err := repos.ListReservations(ctx, room.ID, today)
		if err != nil {
			return storageError(err)
		}

		result = ReservationResult{Reservation: created, Upcoming: upcoming}
		return nil
	}))
	if err != nil {
		return
	}

	if s.availability != nil {
		if cacheErr := s.availability.Invalidate(ctx, params.Date); cacheErr != nil {
			logger.WarnContext(ctx, "availability cache invalidation failed", "error", cacheErr)
		}
	}
	return
}

func (s *ReservationService) conflict(ctx context.Context, repos Repositories, room Room, today calendar.Date) error {
	details, err := loadDetails(ctx, repos, room, today)
	if err != nil {
		return err
	}
	return &ConflictError{Field: "date", Message: MsgAlreadyBooked, Details: details}
}

func (s *ReservationService) rejectDate(ctx context.Context, repos Repositories, room Room, today calendar.Date, message string) error {
	details, err := loadDetails(ctx, repos, room, today)
	if err != nil {
		return err
	}
	vErr := &ValidationError{Details: details}
	vErr.add("date", message)
	return vErr
}

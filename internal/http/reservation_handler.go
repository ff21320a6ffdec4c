package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/calendar"
)

type reservationService interface {
	GetRoomDetails(ctx context.Context, roomID string) (application.RoomDetails, error)
	CreateReservation(ctx context.Context, params application.CreateReservationParams) (application.ReservationResult, error)
}

type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

// List renders the room with its reservations from today onwards.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := roomIDFromPath(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	logger := h.log(r.Context(), "List", "room_id", roomID)
	details, err := h.service.GetRoomDetails(r.Context(), roomID)
	if err != nil {
		logServiceError(r.Context(), logger, "room details failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(details.Upcoming)).InfoContext(r.Context(), "reservations listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomDetailsResponse{
		Room:         toRoomDTO(details.Room),
		Reservations: toReservationDTOs(details.Upcoming),
	})
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := roomIDFromPath(r)
	if !ok {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "missing room id for reservation")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	var req reservationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Create", "room_id", roomID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode reservation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "room_id", roomID, "date", req.Date)

	result, err := h.service.CreateReservation(r.Context(), req.toParams(roomID))
	if err != nil {
		logServiceError(r.Context(), logger, "reservation failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("reservation_id", result.Reservation.ID).InfoContext(r.Context(), "reservation created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, reservationResponse{
		Reservation:  toReservationDTO(result.Reservation),
		Reservations: toReservationDTOs(result.Upcoming),
	})
}

type reservationRequest struct {
	Date    string `json:"date"`
	Comment string `json:"comment"`
}

// toParams leaves Date zero when the value does not parse; the service then
// reports it as an invalid date together with the room context.
func (r reservationRequest) toParams(roomID string) application.CreateReservationParams {
	date, err := calendar.Parse(r.Date)
	if err != nil {
		date = calendar.Date{}
	}
	return application.CreateReservationParams{
		RoomID:  roomID,
		Date:    date,
		Comment: r.Comment,
	}
}

type roomDetailsResponse struct {
	Room         roomDTO          `json:"room"`
	Reservations []reservationDTO `json:"reservations"`
}

type reservationResponse struct {
	Reservation  reservationDTO   `json:"reservation"`
	Reservations []reservationDTO `json:"reservations"`
}

type reservationDTO struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toReservationDTO(reservation application.Reservation) reservationDTO {
	return reservationDTO{
		ID:        reservation.ID,
		RoomID:    reservation.RoomID,
		Date:      reservation.Date.String(),
		Comment:   reservation.Comment,
		CreatedAt: reservation.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toReservationDTOs(reservations []application.Reservation) []reservationDTO {
	out := make([]reservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		out = append(out, toReservationDTO(reservation))
	}
	return out
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/room-booking/internal/application"
)

var (
	errBadRequestBody  = errors.New("malformed request body")
	errInvalidRoomID   = errors.New("invalid room id")
	errInvalidCapacity = errors.New("min_capacity must be an integer")
	errInvalidFlag     = errors.New("projector must be true, false, on, off, 1 or 0")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	return responder{logger: defaultLogger(logger)}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request rejected", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps domain errors to status codes. Room context carried
// by the error is echoed in the body.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: statusMessage(http.StatusInternalServerError)})
		return
	}

	var (
		vErr  *application.ValidationError
		cErr  *application.ConflictError
		nfErr *application.NotFoundError
	)
	switch {
	case errors.As(err, &vErr):
		body := errorResponse{Message: statusMessage(http.StatusUnprocessableEntity), Errors: vErr.FieldErrors}
		body.withDetails(vErr.Details)
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, body)
	case errors.As(err, &cErr):
		body := errorResponse{Message: cErr.Message, Errors: map[string]string{cErr.Field: cErr.Message}}
		body.withDetails(cErr.Details)
		r.writeJSON(ctx, w, http.StatusConflict, body)
	case errors.As(err, &nfErr):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: nfErr.Error()})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: statusMessage(http.StatusNotFound)})
	default:
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: statusMessage(http.StatusInternalServerError)})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusNotFound:
		return "not found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation failed"
	default:
		return "internal server error"
	}
}

// logServiceError logs domain rejections at warn level and failures at error level.
func logServiceError(ctx context.Context, logger *slog.Logger, msg string, err error) {
	kind := application.ErrorKind(err)
	switch kind {
	case "validation", "conflict", "not_found":
		logger.WarnContext(ctx, msg, "error", err, "error_kind", kind)
	default:
		logger.ErrorContext(ctx, msg, "error", err, "error_kind", kind)
	}
}

type errorResponse struct {
	Message      string            `json:"message"`
	Errors       map[string]string `json:"errors,omitempty"`
	Room         *roomDTO          `json:"room,omitempty"`
	Reservations []reservationDTO  `json:"reservations,omitempty"`
}

func (e *errorResponse) withDetails(details *application.RoomDetails) {
	if details == nil {
		return
	}
	room := toRoomDTO(details.Room)
	e.Room = &room
	e.Reservations = toReservationDTOs(details.Upcoming)
}

package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/room-booking/internal/application"
)

type roomService interface {
	CreateRoom(ctx context.Context, params application.CreateRoomParams) (application.Room, error)
	GetRoom(ctx context.Context, roomID string) (application.Room, error)
	UpdateRoom(ctx context.Context, params application.UpdateRoomParams) (application.Room, error)
	DeleteRoom(ctx context.Context, roomID string) error
	ListRooms(ctx context.Context) ([]application.RoomSummary, error)
	SearchRooms(ctx context.Context, params application.SearchRoomsParams) ([]application.RoomSummary, error)
}

type RoomHandler struct {
	service   roomService
	responder responder
	logger    *slog.Logger
}

func NewRoomHandler(service roomService, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req roomRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode room request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")

	room, err := h.service.CreateRoom(r.Context(), application.CreateRoomParams{Input: req.toInput()})
	if err != nil {
		logServiceError(r.Context(), logger, "room creation failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_id", room.ID).InfoContext(r.Context(), "room created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := roomIDFromPath(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	logger := h.log(r.Context(), "Get", "room_id", roomID)
	room, err := h.service.GetRoom(r.Context(), roomID)
	if err != nil {
		logServiceError(r.Context(), logger, "room lookup failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := roomIDFromPath(r)
	if !ok {
		h.log(r.Context(), "Update", "error_kind", "bad_request").WarnContext(r.Context(), "missing room id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	var req roomRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Update", "room_id", roomID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode room update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "room_id", roomID)

	room, err := h.service.UpdateRoom(r.Context(), application.UpdateRoomParams{
		RoomID: roomID,
		Input:  req.toInput(),
	})
	if err != nil {
		logServiceError(r.Context(), logger, "room update failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := roomIDFromPath(r)
	if !ok {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").WarnContext(r.Context(), "missing room id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	logger := h.log(r.Context(), "Delete", "room_id", roomID)
	if err := h.service.DeleteRoom(r.Context(), roomID); err != nil {
		logServiceError(r.Context(), logger, "room delete failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		logServiceError(r.Context(), logger, "room list failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rooms)).InfoContext(r.Context(), "rooms listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomSummaryDTOs(rooms)})
}

func (h *RoomHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params, err := parseSearchQuery(r)
	if err != nil {
		h.log(r.Context(), "Search", "error_kind", "bad_request").WarnContext(r.Context(), "invalid search query", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Search",
		"name", params.NamePattern,
		"min_capacity", params.MinCapacity,
		"projector", params.RequireProjector,
	)
	rooms, err := h.service.SearchRooms(r.Context(), params)
	if err != nil {
		logServiceError(r.Context(), logger, "room search failed", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rooms)).InfoContext(r.Context(), "rooms searched")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomSummaryDTOs(rooms)})
}

func parseSearchQuery(r *http.Request) (application.SearchRoomsParams, error) {
	query := r.URL.Query()
	params := application.SearchRoomsParams{NamePattern: strings.TrimSpace(query.Get("name"))}

	if value := strings.TrimSpace(query.Get("min_capacity")); value != "" {
		capacity, err := strconv.Atoi(value)
		if err != nil {
			return application.SearchRoomsParams{}, errInvalidCapacity
		}
		params.MinCapacity = capacity
	}

	if value := query.Get("projector"); value != "" {
		projector, err := parseFlag(value)
		if err != nil {
			return application.SearchRoomsParams{}, errInvalidFlag
		}
		params.RequireProjector = projector
	}

	return params, nil
}

func roomIDFromPath(r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	return id, id != ""
}

type roomRequest struct {
	Name                  string `json:"name"`
	Capacity              count  `json:"capacity"`
	ProjectorAvailability flag   `json:"projector_availability"`
}

func (r roomRequest) toInput() application.RoomInput {
	return application.RoomInput{
		Name:                  r.Name,
		Capacity:              int(r.Capacity),
		ProjectorAvailability: bool(r.ProjectorAvailability),
	}
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type listRoomsResponse struct {
	Rooms []roomSummaryDTO `json:"rooms"`
}

type roomDTO struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Capacity              int    `json:"capacity"`
	ProjectorAvailability bool   `json:"projector_availability"`
	CreatedAt             string `json:"created_at"`
	UpdatedAt             string `json:"updated_at"`
}

type roomSummaryDTO struct {
	roomDTO
	ReservedToday bool `json:"reserved_today"`
}

func toRoomDTO(room application.Room) roomDTO {
	return roomDTO{
		ID:                    room.ID,
		Name:                  room.Name,
		Capacity:              room.Capacity,
		ProjectorAvailability: room.ProjectorAvailability,
		CreatedAt:             room.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:             room.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toRoomSummaryDTOs(rooms []application.RoomSummary) []roomSummaryDTO {
	out := make([]roomSummaryDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, roomSummaryDTO{roomDTO: toRoomDTO(room.Room), ReservedToday: room.ReservedToday})
	}
	return out
}

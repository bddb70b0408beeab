package api

import (
	"context"
	"net/http"

	service "github.com/oducru/runclub/internal/app"
	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/pkg/logger"
)

// EventDependencies defines the interface for event operations.
type EventDependencies interface {
	CreateEvent(ctx context.Context, e model.Event) (service.CreateResult, error)
	GetEvent(ctx context.Context, id string) (model.Event, error)
}

// EventsHandler handles create-event and get-event requests.
type EventsHandler struct {
	deps EventDependencies
	log  logger.Logger
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies, log logger.Logger) *EventsHandler {
	return &EventsHandler{deps: deps, log: log}
}

// HandleCreateEvent handles POST /api/create-event requests.
func (h *EventsHandler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	const (
		op     = "api.create_event"
		public = "Failed to create event"
	)
	var req model.Event
	if err := decodeBody(w, r, &req); err != nil {
		fail(r.Context(), w, h.log, op, public, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.CreateEvent(r.Context(), req)
	if err != nil {
		fail(r.Context(), w, h.log, op, public, err)
		return
	}
	writeJSON(w, http.StatusOK, createEventResponse{
		EventID:      res.EventID,
		Content:      res.Content,
		RSVPLink:     res.RSVPLink,
		PaceCategory: res.PaceCategory.String(),
	})
}

// HandleGetEvent handles GET /api/get-event?id= requests.
func (h *EventsHandler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_event"
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Event ID required"})
		return
	}
	e, err := h.deps.GetEvent(r.Context(), id)
	if err != nil {
		fail(r.Context(), w, h.log, op, "Failed to fetch event", err)
		return
	}
	writeJSON(w, http.StatusOK, newEventResponse(e))
}

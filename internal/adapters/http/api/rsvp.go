package api

import (
	"context"
	"net/http"

	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/pkg/logger"
)

// RSVPDependencies defines the interface for RSVP operations.
type RSVPDependencies interface {
	SubmitRSVP(ctx context.Context, r model.RSVP) error
}

// RSVPHandler handles submit-rsvp requests.
type RSVPHandler struct {
	deps RSVPDependencies
	log  logger.Logger
}

// NewRSVPHandler creates a new RSVP handler.
func NewRSVPHandler(deps RSVPDependencies, log logger.Logger) *RSVPHandler {
	return &RSVPHandler{deps: deps, log: log}
}

// HandleSubmitRSVP handles POST /api/submit-rsvp requests.
func (h *RSVPHandler) HandleSubmitRSVP(w http.ResponseWriter, r *http.Request) {
	const (
		op     = "api.submit_rsvp"
		public = "Failed to submit RSVP"
	)
	var req model.RSVP
	if err := decodeBody(w, r, &req); err != nil {
		fail(r.Context(), w, h.log, op, public, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.SubmitRSVP(r.Context(), req); err != nil {
		fail(r.Context(), w, h.log, op, public, err)
		return
	}
	writeJSON(w, http.StatusOK, rsvpResponse{Success: true, Message: "RSVP submitted successfully"})
}

package api

import (
	"context"
	"net/http"

	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/pkg/logger"
)

// InvitationDependencies defines the interface for stand-alone invitations.
type InvitationDependencies interface {
	GenerateInvitation(ctx context.Context, e model.Event) (string, error)
}

// InvitationHandler handles generate-invitation requests.
type InvitationHandler struct {
	deps InvitationDependencies
	log  logger.Logger
}

// NewInvitationHandler creates a new invitation handler.
func NewInvitationHandler(deps InvitationDependencies, log logger.Logger) *InvitationHandler {
	return &InvitationHandler{deps: deps, log: log}
}

// HandleGenerateInvitation handles POST /api/generate-invitation requests.
// Nothing is stored.
func (h *InvitationHandler) HandleGenerateInvitation(w http.ResponseWriter, r *http.Request) {
	const (
		op     = "api.generate_invitation"
		public = "Failed to generate invitation"
	)
	var req model.Event
	if err := decodeBody(w, r, &req); err != nil {
		fail(r.Context(), w, h.log, op, public, WrapKind(op, ErrBadRequest, err))
		return
	}
	content, err := h.deps.GenerateInvitation(r.Context(), req)
	if err != nil {
		fail(r.Context(), w, h.log, op, public, err)
		return
	}
	writeJSON(w, http.StatusOK, invitationResponse{Content: content})
}

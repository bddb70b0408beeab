// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	service "github.com/oducru/runclub/internal/app"
	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/internal/domain/prompt"
	"github.com/oducru/runclub/internal/domain/record"
	"github.com/oducru/runclub/pkg/logger"
	"github.com/oducru/runclub/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	EventDependencies
	RSVPDependencies
	InvitationDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	eventsHandler     *EventsHandler
	rsvpHandler       *RSVPHandler
	invitationHandler *InvitationHandler
}

// Option applies a configuration option to the Server.
type Option func(*serverOptions)

type serverOptions struct {
	log logger.Logger
}

// WithLogger sets the logger used to report failed requests.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	o := serverOptions{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:     NewHealthHandler(),
		eventsHandler:     NewEventsHandler(deps, o.log),
		rsvpHandler:       NewRSVPHandler(deps, o.log),
		invitationHandler: NewInvitationHandler(deps, o.log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/api/create-event", MetricsMiddleware(
		Route(http.MethodPost, s.eventsHandler.HandleCreateEvent), "create-event"))
	mux.HandleFunc("/api/get-event", MetricsMiddleware(
		Route(http.MethodGet, s.eventsHandler.HandleGetEvent), "get-event"))
	mux.HandleFunc("/api/submit-rsvp", MetricsMiddleware(
		Route(http.MethodPost, s.rsvpHandler.HandleSubmitRSVP), "submit-rsvp"))
	mux.HandleFunc("/api/generate-invitation", MetricsMiddleware(
		Route(http.MethodPost, s.invitationHandler.HandleGenerateInvitation), "generate-invitation"))
}

// eventResponse always carries all nine stored columns.
type eventResponse struct {
	EventID    string `json:"eventId"`
	EventTitle string `json:"eventTitle"`
	EventDate  string `json:"eventDate"`
	EventTime  string `json:"eventTime"`
	Location   string `json:"location"`
	PaceRange  string `json:"paceRange"`
	Distance   string `json:"distance"`
	Vibe       string `json:"vibe"`
	CreatedAt  string `json:"createdAt"`
}

func newEventResponse(e model.Event) eventResponse {
	return eventResponse{
		EventID:    e.ID,
		EventTitle: e.Title,
		EventDate:  e.Date,
		EventTime:  e.Time,
		Location:   e.Location,
		PaceRange:  e.PaceRange,
		Distance:   e.Distance,
		Vibe:       e.Vibe,
		CreatedAt:  e.CreatedAt,
	}
}

type createEventResponse struct {
	EventID      string `json:"eventId"`
	Content      string `json:"content"`
	RSVPLink     string `json:"rsvpLink"`
	PaceCategory string `json:"paceCategory"`
}

type rsvpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type invitationResponse struct {
	Content string `json:"content"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody reads one JSON object from the request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// fail logs err and writes the matching response. Client errors carry
// their own message; everything else reports public with the cause in
// details, verbatim.
func fail(ctx context.Context, w http.ResponseWriter, log logger.Logger, op, public string, err error) {
	status, body, kind := classify(public, err)
	log.Error(ctx, "request failed",
		logger.String("op", op),
		logger.Int("status", status),
		logger.Error(WrapKind(op, kind, err)),
	)
	writeJSON(w, status, body)
}

func classify(public string, err error) (int, errorResponse, error) {
	var (
		missing  *service.MissingFieldError
		template *prompt.TemplateError
		upstream *service.UpstreamError
	)
	switch {
	case errors.Is(err, ErrBadRequest), errors.As(err, &missing), errors.As(err, &template):
		return http.StatusBadRequest, errorResponse{Error: clientMessage(err)}, ErrBadRequest
	case errors.Is(err, record.ErrNoEvents):
		return http.StatusNotFound, errorResponse{Error: "No events found"}, ErrNotFound
	case errors.Is(err, record.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "Event not found"}, ErrNotFound
	case errors.As(err, &upstream):
		return http.StatusInternalServerError, errorResponse{Error: public, Details: upstream.Error()}, ErrUpstream
	default:
		return http.StatusInternalServerError, errorResponse{Error: public, Details: err.Error()}, ErrInternal
	}
}

// clientMessage strips the op prefix added by WrapKind.
func clientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return err.Error()
}

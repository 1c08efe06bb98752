package board

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/warroomhq/incident-command/internal/incidents"
	"github.com/warroomhq/incident-command/internal/pkg/httputil"
)

// Handler serves the kanban board endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new board handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers read-only board routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/board", h.Get)
}

// RegisterSMERoutes registers routes requiring edit rights.
func (h *Handler) RegisterSMERoutes(r chi.Router) {
	r.Post("/board/move", h.Move)
}

// Get handles GET /board. The synthetic unmapped column is included by
// default and suppressed with ?unmapped=false.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	includeUnmapped := r.URL.Query().Get("unmapped") != "false"
	columns := h.service.Columns(r.Context(), includeUnmapped)
	httputil.Success(w, http.StatusOK, columns)
}

// MoveRequest is the request body for POST /board/move.
type MoveRequest struct {
	IncidentID string `json:"incidentId" validate:"required"`
	ColumnID   string `json:"columnId" validate:"required"`
}

// Move handles POST /board/move.
func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	actor := httputil.GetRole(r.Context())
	inc, err := h.service.Move(r.Context(), req.IncidentID, req.ColumnID, actor)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, inc)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: incidents.ErrIncidentNotFound, Status: http.StatusNotFound},
		{Error: ErrColumnNotFound, Status: http.StatusNotFound},
		{Error: ErrUnmappedColumnDrop, Status: http.StatusBadRequest},
		{Error: ErrEmptyColumn, Status: http.StatusUnprocessableEntity},
	})
}

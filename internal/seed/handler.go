package seed

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/warroomhq/incident-command/internal/pkg/httputil"
)

// Handler serves the mock seed endpoint.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new seed handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterAdminRoutes registers the seed route.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/seed", h.Seed)
}

// SeedRequest is the request body for POST /seed.
type SeedRequest struct {
	Count int `json:"count" validate:"required,min=1,max=500"`
}

// Seed handles POST /seed.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	generated := h.service.Seed(r.Context(), req.Count)
	httputil.Success(w, http.StatusCreated, map[string]int{"seeded": len(generated)})
}

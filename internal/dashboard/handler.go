package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warroomhq/incident-command/internal/pkg/httputil"
)

// Handler serves the dashboard aggregation endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new dashboard handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the dashboard routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/summary", h.Summary)
	r.Get("/dashboard/warrooms", h.Warrooms)
}

// Summary handles GET /dashboard/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	httputil.Success(w, http.StatusOK, h.service.Summary(r.Context()))
}

// Warrooms handles GET /dashboard/warrooms.
func (h *Handler) Warrooms(w http.ResponseWriter, r *http.Request) {
	httputil.Success(w, http.StatusOK, h.service.Warrooms(r.Context()))
}

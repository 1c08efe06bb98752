package lov

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/pkg/httputil"
)

// Handler handles HTTP requests for the LOV registry.
type Handler struct {
	service *Service
}

// NewHandler creates a new LOV handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers read routes (any authenticated user).
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/lovs", h.Get)
}

// RegisterAdminRoutes registers routes that require admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/lovs", h.Update)
}

// Get handles GET /lovs.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	httputil.Success(w, http.StatusOK, h.service.Get(r.Context()))
}

// Update handles PUT /lovs. Missing fields are default-filled; the
// merged result is returned so clients see the effective registry.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.LOVData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	merged := h.service.Update(r.Context(), req)
	httputil.Success(w, http.StatusOK, merged)
}

package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warroomhq/incident-command/internal/incidents"
	"github.com/warroomhq/incident-command/internal/pkg/httputil"
)

// Handler serves the CSV export endpoint.
type Handler struct {
	service *incidents.Service
}

// NewHandler creates a new export handler.
func NewHandler(service *incidents.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the export route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/incidents/export", h.Export)
}

// Export handles GET /incidents/export. It honors the same filter
// params as the incident list, so the download matches what the caller
// currently sees.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	filters, err := incidents.FiltersFromQuery(r.URL.Query())
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	list := h.service.List(r.Context(), filters)

	filename := fmt.Sprintf("incidents-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if err := WriteCSV(w, list); err != nil {
		// Headers are already out; all we can do is log.
		slog.ErrorContext(r.Context(), "write csv export", "error", err)
	}
}

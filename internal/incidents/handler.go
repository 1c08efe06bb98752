package incidents

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/pkg/httputil"
	"github.com/warroomhq/incident-command/internal/sla"
)

// Handler handles HTTP requests for incidents.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new incident handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers read routes and incident creation
// (any authenticated user).
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/incidents", h.List)
	r.Post("/incidents", h.Create)
	r.Get("/incidents/{id}", h.Get)
}

// RegisterSMERoutes registers routes that require the SME role.
func (h *Handler) RegisterSMERoutes(r chi.Router) {
	r.Patch("/incidents/{id}", h.Edit)
}

// RegisterWarroomRoutes registers routes that require the warroom role.
func (h *Handler) RegisterWarroomRoutes(r chi.Router) {
	r.Delete("/incidents/{id}", h.Delete)
}

// RegisterAdminRoutes registers routes that require the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Delete("/incidents", h.DeleteAll)
}

// CreateIncidentRequest is the request body for creating an incident.
type CreateIncidentRequest struct {
	Category       string `json:"category"`
	ImpactCategory string `json:"impactCategory"`
	ImpactArea     string `json:"impactArea"`
	RequestorName  string `json:"requestorName"`
	RequestorEmail string `json:"requestorEmail" validate:"omitempty,email"`
	ChannelType    string `json:"channelType"`
	StoreName      string `json:"storeName"`
	StoreID        string `json:"storeId"`
	Region         string `json:"region"`
	AffectedUserID string `json:"affectedUserId"`
	Summary        string `json:"summary"`
	Description    string `json:"description"`
	Attachment     string `json:"attachment"`
}

// EditIncidentRequest is the request body for patching an incident.
// Absent fields stay untouched.
type EditIncidentRequest struct {
	Category       *string `json:"category"`
	Priority       *string `json:"priority"`
	Status         *string `json:"status"`
	Warroom        *string `json:"warroom"`
	ImpactCategory *string `json:"impactCategory"`
	ImpactArea     *string `json:"impactArea"`
	RequestorName  *string `json:"requestorName"`
	RequestorEmail *string `json:"requestorEmail"`
	ChannelType    *string `json:"channelType"`
	StoreName      *string `json:"storeName"`
	StoreID        *string `json:"storeId"`
	Region         *string `json:"region"`
	AffectedUserID *string `json:"affectedUserId"`
	Summary        *string `json:"summary"`
	Description    *string `json:"description"`
	Attachment     *string `json:"attachment"`
	SME            *string `json:"sme"`
	FixType        *string `json:"fixType"`
	RootCause      *string `json:"rootCause"`

	// Comment, when non-empty, is appended as a comment audit entry.
	Comment string `json:"comment"`
}

// IncidentResponse wraps an incident with its computed SLA status.
// SLA is omitted for resolved and closed incidents.
type IncidentResponse struct {
	*domain.Incident
	SLA *sla.Status `json:"sla,omitempty"`
}

func toResponse(inc *domain.Incident, now time.Time) IncidentResponse {
	return IncidentResponse{Incident: inc, SLA: sla.Evaluate(inc, now)}
}

// FiltersFromQuery parses the shared incident filter query params.
func FiltersFromQuery(q url.Values) (domain.IncidentFilters, error) {
	filters := domain.IncidentFilters{
		Search:         q.Get("search"),
		Category:       q.Get("category"),
		Priority:       q.Get("priority"),
		Status:         q.Get("status"),
		Warroom:        q.Get("warroom"),
		ImpactCategory: q.Get("impactCategory"),
	}

	if sg := q.Get("statusGroup"); sg != "" {
		group := domain.StatusGroup(sg)
		if !group.IsValid() {
			return domain.IncidentFilters{}, ErrInvalidStatusGroup
		}
		filters.StatusGroup = group
	}

	return filters, nil
}

// List handles GET /incidents.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	list := h.service.List(r.Context(), filters)

	now := time.Now().UTC()
	out := make([]IncidentResponse, 0, len(list))
	for _, inc := range list {
		out = append(out, toResponse(inc, now))
	}
	httputil.Success(w, http.StatusOK, out)
}

// Get handles GET /incidents/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	inc, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, toResponse(inc, time.Now().UTC()))
}

// Create handles POST /incidents.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	inc, err := h.service.Create(r.Context(), CreateInput{
		Category:       req.Category,
		ImpactCategory: req.ImpactCategory,
		ImpactArea:     req.ImpactArea,
		RequestorName:  req.RequestorName,
		RequestorEmail: req.RequestorEmail,
		ChannelType:    req.ChannelType,
		StoreName:      req.StoreName,
		StoreID:        req.StoreID,
		Region:         req.Region,
		AffectedUserID: req.AffectedUserID,
		Summary:        req.Summary,
		Description:    req.Description,
		Attachment:     req.Attachment,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusCreated, toResponse(inc, time.Now().UTC()))
}

// Edit handles PATCH /incidents/{id}.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	var req EditIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	patch := EditInput{
		Category:       req.Category,
		Priority:       req.Priority,
		Status:         req.Status,
		Warroom:        req.Warroom,
		ImpactCategory: req.ImpactCategory,
		ImpactArea:     req.ImpactArea,
		RequestorName:  req.RequestorName,
		RequestorEmail: req.RequestorEmail,
		ChannelType:    req.ChannelType,
		StoreName:      req.StoreName,
		StoreID:        req.StoreID,
		Region:         req.Region,
		AffectedUserID: req.AffectedUserID,
		Summary:        req.Summary,
		Description:    req.Description,
		Attachment:     req.Attachment,
		SME:            req.SME,
		FixType:        req.FixType,
		RootCause:      req.RootCause,
	}

	inc, err := h.service.ApplyEdit(r.Context(), chi.URLParam(r, "id"), patch, req.Comment, httputil.GetRole(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, toResponse(inc, time.Now().UTC()))
}

// Delete handles DELETE /incidents/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAll handles DELETE /incidents.
func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	h.service.DeleteAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrIncidentNotFound, Status: http.StatusNotFound},
		{Error: ErrSummaryRequired, Status: http.StatusBadRequest},
		{Error: ErrRequestorRequired, Status: http.StatusBadRequest},
	})
}

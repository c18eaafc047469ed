// AngelaMos | 2026
// handler.go

package tenant

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/tenants", h.List)
		r.Get("/tenants/{tenantID}", h.Get)
		r.Put("/tenants/{tenantID}", h.Update)
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.Get(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		chi.URLParam(r, "tenantID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToDetailsResponse(details))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := core.ParsePageParams(r, DefaultListLimit)
	q := r.URL.Query()

	items, total, err := h.service.List(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		q.Get("status"),
		q.Get("subscriptionPlan"),
		page,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToSummaryResponseList(items), page.Page, page.Limit, total)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	tenant, err := h.service.Update(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		chi.URLParam(r, "tenantID"),
		req.Patch(),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Tenant updated successfully", ToTenantResponse(tenant))
}

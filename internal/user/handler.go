// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
	"github.com/carterperez-dev/templates/saas-backend/internal/middleware"
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
		r.Use(middleware.RequireTenant)

		r.Post("/tenants/{tenantID}/users", h.Create)
		r.Get("/tenants/{tenantID}/users", h.List)
		r.Delete("/users/{userID}", h.Delete)
	})

	// Tenantless super admins may still edit their own profile.
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Put("/users/{userID}", h.Update)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.Create(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		chi.URLParam(r, "tenantID"),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.CreatedWithMessage(w, "User created successfully", ToUserResponse(user))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := core.ParsePageParams(r, DefaultListLimit)
	q := r.URL.Query()

	users, total, err := h.service.List(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		chi.URLParam(r, "tenantID"),
		q.Get("search"),
		q.Get("role"),
		page,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToUserResponseList(users), page.Page, page.Limit, total)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.Update(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		chi.URLParam(r, "userID"),
		req.Patch(),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "User updated successfully", ToUserResponse(user))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Message(w, "User deleted successfully")
}

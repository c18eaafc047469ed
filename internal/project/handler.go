// AngelaMos | 2026
// handler.go

package project

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

		r.Post("/projects", h.Create)
		r.Get("/projects", h.List)
		r.Get("/projects/{projectID}", h.Get)
		r.Put("/projects/{projectID}", h.Update)
		r.Delete("/projects/{projectID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	project, err := h.service.Create(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.CreatedWithMessage(w, "Project created successfully", ToProjectResponse(project))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := core.ParsePageParams(r, DefaultListLimit)
	q := r.URL.Query()

	projects, total, err := h.service.List(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		q.Get("status"),
		q.Get("search"),
		page,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToOverviewResponseList(projects), page.Page, page.Limit, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Get(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		chi.URLParam(r, "projectID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToOverviewResponse(overview))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	project, err := h.service.Update(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		chi.URLParam(r, "projectID"),
		req.Patch(),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Project updated successfully", ToProjectResponse(project))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		chi.URLParam(r, "projectID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Message(w, "Project deleted successfully")
}

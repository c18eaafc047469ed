// AngelaMos | 2026
// handler.go

package task

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

		r.Post("/projects/{projectID}/tasks", h.Create)
		r.Get("/projects/{projectID}/tasks", h.ListForProject)
		r.Get("/tasks", h.List)
		r.Patch("/tasks/{taskID}/status", h.UpdateStatus)
		r.Put("/tasks/{taskID}", h.Update)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	projectID := chi.URLParam(r, "projectID")
	task, err := req.Task(projectID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	created, err := h.service.Create(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		projectID,
		task,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.CreatedWithMessage(w, "Task created successfully", ToTaskResponse(created))
}

func (h *Handler) ListForProject(w http.ResponseWriter, r *http.Request) {
	page := core.ParsePageParams(r, DefaultListLimit)

	tasks, total, err := h.service.ListForProject(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		chi.URLParam(r, "projectID"),
		listParams(r, page),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToViewResponseList(tasks), page.Page, page.Limit, total)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := core.ParsePageParams(r, DefaultListLimit)

	tasks, total, err := h.service.List(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		listParams(r, page),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToViewResponseList(tasks), page.Page, page.Limit, total)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	task, err := h.service.UpdateStatus(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		chi.URLParam(r, "taskID"),
		req.Status,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToTaskResponse(task))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	patch, err := req.Patch()
	if err != nil {
		core.JSONError(w, err)
		return
	}

	task, err := h.service.Update(
		r.Context(),
		access.SubjectFromContext(r.Context()),
		chi.URLParam(r, "taskID"),
		patch,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Task updated successfully", ToTaskResponse(task))
}

func listParams(r *http.Request, page core.PageParams) ListParams {
	q := r.URL.Query()
	return ListParams{
		Status:     q.Get("status"),
		AssignedTo: q.Get("assignedTo"),
		Priority:   q.Get("priority"),
		Search:     q.Get("search"),
		Limit:      page.Limit,
		Offset:     page.Offset(),
	}
}

// AngelaMos | 2026
// handler.go

package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
	"github.com/carterperez-dev/templates/saas-backend/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the audit log under r. tenantAdminOnly must reject
// callers that are not tenant administrators.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, tenantAdminOnly func(http.Handler) http.Handler,
) {
	r.Route("/audit-logs", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireTenant)
		r.Use(tenantAdminOnly)

		r.Get("/", h.List)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := core.ParsePageParams(r, DefaultListLimit)
	q := r.URL.Query()

	entries, total, err := h.service.List(
		r.Context(),
		middleware.GetTenantID(r.Context()),
		ListFilter{
			Action:     q.Get("action"),
			EntityType: q.Get("entityType"),
		},
		page,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToEntryResponseList(entries), page.Page, page.Limit, total)
}

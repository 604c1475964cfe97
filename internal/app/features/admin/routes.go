// internal/app/features/admin/routes.go
package admin

import "github.com/go-chi/chi/v5"

// Routes mounts the admin routes (typically under "/admin").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/consistency", h.HandleConsistency)
	r.Get("/audit-events", h.ServeAuditEvents)

	return r
}

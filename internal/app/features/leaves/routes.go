// internal/app/features/leaves/routes.go
package leaves

import "github.com/go-chi/chi/v5"

// Routes mounts the leave routes (typically under "/leaves").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)

	r.Get("/{id}", h.ServeView)
	r.Delete("/{id}", h.HandleDelete)

	r.Post("/{id}/approve", h.HandleApprove)
	r.Post("/{id}/reject", h.HandleReject)

	return r
}

// internal/app/features/postings/routes.go
package postings

import "github.com/go-chi/chi/v5"

// Routes mounts the posting routes under the base path
// (typically "/employee-postings" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)

	r.Get("/{id}", h.ServeView)
	r.Put("/{id}", h.HandleUpdate)

	r.Post("/{id}/end", h.HandleEnd)
	r.Post("/{id}/reconcile", h.HandleReconcile)

	return r
}

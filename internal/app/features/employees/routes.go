// internal/app/features/employees/routes.go
package employees

import "github.com/go-chi/chi/v5"

// Routes mounts all Employee routes under the base path
// (typically "/employees" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)

	r.Get("/{id}", h.ServeView)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	r.Get("/{id}/postings", h.ServePostings)

	return r
}

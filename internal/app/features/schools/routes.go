// internal/app/features/schools/routes.go
package schools

import "github.com/go-chi/chi/v5"

// Routes mounts all School routes under the base path
// (typically "/schools" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)

	r.Get("/{id}", h.ServeView)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	// Trainer membership is read-only here; postings change it.
	r.Get("/{id}/trainers", h.ServeTrainers)

	return r
}

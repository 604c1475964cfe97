// internal/app/features/invoices/routes.go
package invoices

import "github.com/go-chi/chi/v5"

// Routes mounts the invoice routes (typically under "/invoices").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/generate", h.HandleGenerate)

	r.Get("/{id}", h.ServeView)
	r.Post("/{id}/status", h.HandleStatus)

	return r
}

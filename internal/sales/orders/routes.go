package orders

import "github.com/go-chi/chi/v5"

// MountRoutes attaches order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Post("/{id}/confirm", h.Confirm)
	r.Post("/{id}/deliver", h.Deliver)
	r.Post("/{id}/cancel", h.Cancel)
}

package bersn

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the calculation endpoints under /calc/bersn.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calc/bersn", func(r chi.Router) {
		r.Post("/run", h.Run)
	})
}

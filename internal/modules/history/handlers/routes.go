package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all history routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Post("/sync", h.HandleSync)
		r.Get("/{ticker}/prices", h.HandleGetPrices)
		r.Get("/{ticker}/indicators", h.HandleGetIndicators)
	})
}

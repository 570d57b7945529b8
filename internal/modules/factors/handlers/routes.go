package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all factor routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/factors", func(r chi.Router) {
		r.Get("/estimate/{ticker}", h.HandleEstimate)
		r.Get("/suggestions", h.HandleSuggestions)
	})
}

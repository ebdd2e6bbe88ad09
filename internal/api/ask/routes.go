package ask

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers question answering routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/ask", h.Ask)
	r.Get("/documents", h.ListDocuments)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/{id}/export", h.ExportTranscript)
	})
}

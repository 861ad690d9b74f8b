package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/api/handlers"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.db)
	s.router.Get("/health", healthHandler.Health)

	s.router.Route("/api/v1", func(r chi.Router) {
		adviceHandler := handlers.NewAdviceHandler(s.service)
		r.Post("/advice", adviceHandler.GetAdvice)
	})
}

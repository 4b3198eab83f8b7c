package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures a chi router with all application routes.
func NewRouter(conversationHandler *ConversationHandler, modelHandler *ModelHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Liveness probe for orchestration systems.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Standard JSON routes get a request timeout.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/state", conversationHandler.GetState)
			r.Post("/mode", conversationHandler.SetMode)

			r.Get("/sessions", conversationHandler.GetSessions)
			r.Post("/sessions", conversationHandler.CreateSession)
			r.Post("/sessions/{sessionID}/select", conversationHandler.SelectSession)
			r.Delete("/sessions/{sessionID}", conversationHandler.DeleteSession)

			r.Get("/models", modelHandler.HandleListModels)
			r.Post("/models/select", conversationHandler.SelectModel)
		})

		// Long-running routes must not have a timeout: a send is bounded
		// only by the gateway, and uploads by the client connection.
		r.Group(func(r chi.Router) {
			r.Post("/messages", conversationHandler.SendMessage)
			r.Post("/documents", conversationHandler.UploadDocument)
		})
	})

	return r
}

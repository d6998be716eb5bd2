package httpserver

import (
	"net/http"
	"time"

	"eventboard-go/internal/config"
	"eventboard-go/internal/transport/httpserver/handler"
	authmw "eventboard-go/internal/transport/httpserver/middleware"
	"eventboard-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		auth := authmw.NewTokenAuth(cfg.Auth, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Common.AuthMe)

			r.Get("/calendar/week", handlers.Calendar.Week)
			r.Get("/calendar/day", handlers.Calendar.Day)
			r.Get("/calendar/board", handlers.Calendar.Board)
			r.Post("/calendar/board/navigate", handlers.Calendar.Navigate)
			r.Get("/calendar/feed.ics", handlers.Calendar.Feed)

			r.Get("/events", handlers.Events.ListEvents)
			r.Post("/events", handlers.Events.CreateEvent)
			r.Get("/events/{id}", handlers.Events.GetEvent)
			r.Patch("/events/{id}", handlers.Events.UpdateEvent)
			r.Delete("/events/{id}", handlers.Events.DeleteEvent)
			r.Delete("/events/{id}/series", handlers.Events.DeleteSeries)
			r.Get("/events/{id}/occurrences/{date}", handlers.Events.GetOccurrence)
			r.Patch("/events/{id}/occurrences/{date}", handlers.Events.UpdateOccurrence)
			r.Delete("/events/{id}/occurrences/{date}", handlers.Events.DeleteOccurrence)

			r.Get("/categories", handlers.Events.ListCategories)
			r.Post("/categories", handlers.Events.CreateCategory)
			r.Delete("/categories/{id}", handlers.Events.DeleteCategory)

			r.Get("/projects", handlers.Events.ListProjects)
			r.Post("/projects", handlers.Events.CreateProject)
			r.Delete("/projects/{id}", handlers.Events.DeleteProject)
		})
	})

	return r
}

package http

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"wellspring/internal/auth"
	"wellspring/internal/config"
	"wellspring/internal/events"
	"wellspring/internal/fitness"
	"wellspring/internal/integrations"
	"wellspring/internal/profiles"
	"wellspring/internal/tasks"
)

// Services bundles the application services the router exposes.
type Services struct {
	Auth         *auth.Service
	Google       googleAuthenticator
	Integrations *integrations.Service
	Events       *events.Service
	Tasks        *tasks.Service
	Fitness      *fitness.Service
	Profiles     *profiles.Service
}

// NewRouter wires application routes and middleware using chi.
func NewRouter(cfg config.Config, svcs Services, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(newSecurityHeadersMiddleware(cfg.Environment))
	r.Use(newSlogMiddleware(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"environment": cfg.Environment,
		})
	})

	oauthHandler := NewOAuthHandler(svcs.Google, svcs.Auth, cfg.FrontendURL, cfg.Environment, logger)
	integrationHandler := NewIntegrationHandler(svcs.Integrations, cfg.Environment, logger)
	eventHandler := NewEventHandler(svcs.Events, logger)
	taskHandler := NewTaskHandler(svcs.Tasks, logger)
	fitnessHandler := NewFitnessHandler(svcs.Fitness, logger)
	profileHandler := NewProfileHandler(svcs.Profiles, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/google", oauthHandler.InitiateGoogle)
			r.Get("/google/callback", oauthHandler.CallbackGoogle)

			r.Group(func(r chi.Router) {
				r.Use(newAuthMiddleware(svcs.Auth, logger))
				r.Get("/me", oauthHandler.Me)
				r.Post("/logout", oauthHandler.Logout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(newAuthMiddleware(svcs.Auth, logger))

			r.Route("/integrations/google", func(r chi.Router) {
				r.Get("/", integrationHandler.Status)
				r.Post("/", integrationHandler.Dispatch)
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.List)
				r.Post("/", eventHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", eventHandler.Get)
					r.Put("/", eventHandler.Update)
					r.Delete("/", eventHandler.Delete)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Put("/", taskHandler.Update)
					r.Delete("/", taskHandler.Delete)
				})
			})

			r.Route("/fitness", func(r chi.Router) {
				r.Get("/water", fitnessHandler.GetWater)
				r.Post("/water", fitnessHandler.AddWater)
				r.Route("/workouts", func(r chi.Router) {
					r.Get("/", fitnessHandler.ListWorkouts)
					r.Post("/", fitnessHandler.CreateWorkout)
					r.Route("/{id}", func(r chi.Router) {
						r.Put("/", fitnessHandler.UpdateWorkout)
						r.Delete("/", fitnessHandler.DeleteWorkout)
					})
				})
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.Get)
				r.Put("/", profileHandler.Update)
			})
		})
	})

	r.NotFound(http.NotFoundHandler().ServeHTTP)

	return r
}

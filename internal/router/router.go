package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-tourist-spots/internal/api/assistant"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/auth"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/social"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/spots"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/weather"
)

// Config contains the handlers and middleware needed for the router setup.
type Config struct {
	AuthHandler            *auth.Handler
	SpotsHandler           *spots.Handler
	WeatherHandler         *weather.Handler
	AssistantHandler       *assistant.Handler
	SocialHandler          *social.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	MetricsHandler         http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied before
// mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshSession)

			r.Get("/spots/search", cfg.SpotsHandler.Search)
			r.Get("/spots/nearby", cfg.SpotsHandler.Nearby)

			r.Get("/weather", cfg.WeatherHandler.GetWeather)

			r.Post("/assistant/question", cfg.AssistantHandler.AskQuestion)
			r.Post("/assistant/description", cfg.AssistantHandler.GenerateDescription)

			r.Get("/posts", cfg.SocialHandler.GetFeed)
			r.Get("/posts/{postID}", cfg.SocialHandler.GetPost)
			r.Get("/posts/{postID}/comments", cfg.SocialHandler.ListComments)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Post("/auth/invalidate-tokens", cfg.AuthHandler.InvalidateAllSessions)
			r.Get("/auth/validate-session", cfg.AuthHandler.ValidateSession)

			r.Post("/posts", cfg.SocialHandler.CreatePost)
			r.Delete("/posts/{postID}", cfg.SocialHandler.DeletePost)
			r.Post("/posts/{postID}/comments", cfg.SocialHandler.CreateComment)
			r.Post("/posts/{postID}/like", cfg.SocialHandler.LikePost)
			r.Delete("/posts/{postID}/like", cfg.SocialHandler.UnlikePost)
		})
	})

	return r
}

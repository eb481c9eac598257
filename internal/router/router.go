package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/vibeset/backend/internal/config"
	"github.com/vibeset/backend/internal/handlers"
	"github.com/vibeset/backend/internal/middleware"
	"github.com/vibeset/backend/internal/playlist"
	"github.com/vibeset/backend/internal/services"
	"github.com/vibeset/backend/internal/session"
	"github.com/vibeset/backend/web"
)

func New(cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestContextMiddleware)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	}

	// Services
	openaiService := services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	spotifyService := services.NewSpotifyService(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyRedirectURI)
	stateService := services.NewStateService(cfg.StateSecret)
	sessions := session.NewManager(cfg.SecureCookies)

	// Handlers
	planHandler := handlers.NewPlanHandler(cfg, openaiService)
	mockHandler := handlers.NewMockHandler(playlist.NewGenerator(), playlist.NewCreator())
	spotifyHandler := handlers.NewSpotifyHandler(cfg, spotifyService, stateService, sessions)
	debugHandler := handlers.NewDebugHandler(cfg)
	tunnelHandler := handlers.NewSentryTunnelHandler(cfg)

	// Every plan request costs an upstream completion call.
	planRateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	// Routes
	r.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.With(planRateLimiter.Middleware).Post("/ai/plan", planHandler.Plan)

		r.Route("/mock", func(r chi.Router) {
			r.Post("/generate", mockHandler.Generate)
			r.Post("/create-playlist", mockHandler.CreatePlaylist)
		})

		r.Route("/spotify", func(r chi.Router) {
			r.Get("/auth", spotifyHandler.Auth)
			r.Get("/callback", spotifyHandler.Callback)
			r.With(session.Middleware(sessions)).Get("/user", spotifyHandler.User)
			r.Post("/logout", spotifyHandler.Logout)
		})

		r.Get("/debug/env", debugHandler.EnvCheck)

		// Sentry envelope tunnel for the embedded frontend
		r.Post("/monitoring", tunnelHandler.Tunnel)
	})

	// Embedded single-page frontend
	r.Handle("/*", web.Handler())

	return r
}

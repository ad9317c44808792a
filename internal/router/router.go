package router

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/dancefloor/backend/internal/broker"
	"github.com/dancefloor/backend/internal/config"
	"github.com/dancefloor/backend/internal/db"
	"github.com/dancefloor/backend/internal/handlers"
	"github.com/dancefloor/backend/internal/middleware"
	"github.com/dancefloor/backend/internal/services"
	ws "github.com/dancefloor/backend/internal/websocket"
)

// New builds the HTTP API and the socket endpoint over one store and hub.
// The returned socket handler must be shut down separately, since
// hijacked connections outlive http.Server.Shutdown. ctx bounds the rate
// limiter's background cleanup.
func New(ctx context.Context, cfg *config.Config, sqlDB *sql.DB, hub *broker.Broker) (http.Handler, *ws.Handler) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewTrustedProxies(cfg.TrustedProxies).Handler)
	r.Use(middleware.RequestContextMiddleware)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	// Services
	store := db.NewStore(sqlDB)
	authService := services.NewAuthService(cfg.JWTSecret, cfg.TokenDuration)
	accountService := services.NewAccountService(store)
	dancefloorService := services.NewDancefloorService(store, cfg.PublicBaseURL)
	queueService := services.NewQueueService(store, hub)
	chatService := services.NewChatService(store, hub)

	// Rate limiter shared by HTTP submissions and socket submissions
	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimitPerMinute)

	// Handlers
	authHandler := handlers.NewAuthHandler(accountService, authService)
	dancefloorHandler := handlers.NewDancefloorHandler(dancefloorService)
	djHandler := handlers.NewDJHandler(accountService, dancefloorService)
	requestHandler := handlers.NewRequestHandler(queueService)
	messageHandler := handlers.NewMessageHandler(chatService)
	sseHandler := handlers.NewSSEHandler(hub, dancefloorService)
	socketHandler := ws.NewHandler(ws.Deps{
		Broker:      hub,
		Queue:       queueService,
		Chat:        chatService,
		Dancefloors: dancefloorService,
		Auth:        authService,
		Identity:    services.NewIdentityService(),
		Limiter:     limiter,
	}, cfg.CORSAllowedOrigins)

	r.Get("/ws", socketHandler.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(authService))

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/register", authHandler.Register)
			r.With(limiter.Middleware).Post("/login", authHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireDJ)
				r.Get("/me", authHandler.Me)
				r.Put("/me", authHandler.UpdateMe)
				r.With(limiter.Middleware).Delete("/me", authHandler.DeleteMe)
			})
		})

		r.Get("/djs/{djId}", djHandler.Info)

		r.Route("/dancefloors", func(r chi.Router) {
			// DJ lifecycle
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireDJ)
				r.Post("/", dancefloorHandler.Start)
				r.Post("/stop", dancefloorHandler.Stop)
				r.Get("/active", dancefloorHandler.Active)
				r.Get("/past", dancefloorHandler.Past)
			})

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", dancefloorHandler.Get)
				r.Get("/events", sseHandler.Stream)

				r.Get("/song-requests", requestHandler.List)
				r.With(limiter.Middleware).Post("/song-requests", requestHandler.Submit)

				r.Get("/messages", messageHandler.List)
				r.With(limiter.Middleware).Post("/messages", messageHandler.Post)

				// Owner-only actions
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireDJ)
					r.Delete("/", dancefloorHandler.Delete)
					r.Post("/reactivate", dancefloorHandler.Reactivate)
					r.Put("/reorder", requestHandler.Reorder)
				})
			})
		})

		r.Route("/song-requests/{rid}", func(r chi.Router) {
			r.Put("/vote", requestHandler.Vote)
			r.Put("/like", requestHandler.Like)

			// DJ-only status changes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireDJ)
				r.Post("/status", requestHandler.UpdateStatus)
				r.Put("/status", requestHandler.UpdateStatus)
				r.Put("/play", requestHandler.StatusAction(services.StatusPlaying))
				r.Put("/complete", requestHandler.StatusAction(services.StatusCompleted))
				r.Put("/decline", requestHandler.StatusAction(services.StatusDeclined))
			})
		})
	})

	return r, socketHandler
}

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/notemeet/notemeet/internal/api/handlers"
	"github.com/notemeet/notemeet/internal/api/middleware"
	"github.com/notemeet/notemeet/internal/config"
	"github.com/notemeet/notemeet/internal/pkg/logger"
	"github.com/notemeet/notemeet/internal/pkg/metrics"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Plan         *handlers.PlanHandler
	Subscription *handlers.SubscriptionHandler
	Meeting      *handlers.MeetingHandler
	Admin        *handlers.AdminHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(metrics.Middleware)

	// Public routes
	r.Group(func(r chi.Router) {
		// Swagger documentation
		r.Get("/swagger/*", httpSwagger.WrapHandler)

		// Prometheus metrics
		r.Handle("/metrics", metrics.Handler())

		// Health checks
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		// Auth endpoints
		r.Post("/api/v1/auth/register", h.Auth.Register)
		r.Post("/api/v1/auth/login", h.Auth.Login)
		r.Post("/api/v1/auth/refresh", h.Auth.RefreshToken)
		r.Post("/api/v1/auth/logout", h.Auth.Logout)

		// Plan catalog
		r.Get("/api/v1/plans", h.Plan.List)
		r.Get("/api/v1/plans/{id}", h.Plan.Get)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))

		// Auth
		r.Get("/api/v1/auth/me", h.Auth.Me)

		// Subscriptions
		r.Route("/api/v1/subscriptions", func(r chi.Router) {
			r.Post("/", h.Subscription.Subscribe)
			r.Get("/me", h.Subscription.Mine)
			r.Delete("/me", h.Subscription.Cancel)
			r.Get("/me/limits", h.Subscription.MyLimits)
			r.Get("/me/remaining", h.Subscription.MyRemaining)
			r.Get("/me/early-access", h.Subscription.MyEarlyAccess)
		})

		// Meetings
		r.Route("/api/v1/meetings", func(r chi.Router) {
			r.Get("/", h.Meeting.List)
			r.Post("/", h.Meeting.Create)
			r.Get("/{id}", h.Meeting.Get)
			r.Delete("/{id}", h.Meeting.Delete)
		})

		// Admin
		r.Route("/api/v1/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/users/{id}/subscriptions", h.Admin.UserSubscriptions)
			r.Post("/users/{id}/subscriptions", h.Admin.SubscribeUser)
			r.Get("/users/{id}/limits", h.Admin.UserLimits)
			r.Get("/users/{id}/remaining", h.Admin.UserRemaining)

			r.Post("/subscriptions/{id}/cancel", h.Admin.CancelSubscription)
			r.Post("/subscriptions/{id}/renew", h.Admin.RenewSubscription)
			r.Delete("/subscriptions/{id}", h.Admin.DeleteSubscription)

			r.Get("/plans", h.Plan.ListAll)
			r.Post("/plans", h.Plan.Create)
			r.Put("/plans/{id}", h.Plan.Update)
			r.Delete("/plans/{id}", h.Plan.Delete)
		})
	})

	return r
}

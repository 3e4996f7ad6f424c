package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finance-api/internal/config"
	"finance-api/internal/handler"
	"finance-api/internal/middleware"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Transaction *handler.TransactionHandler
	Health      *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers, registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	metrics := middleware.NewMetrics(registry)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(metrics.Handler)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/", h.Health.Welcome)
	r.Get("/health", h.Health.Health)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/forget-password", h.Auth.ForgotPassword)
			auth.Post("/reset-password/{id}/{token}", h.Auth.ResetPassword)
		})

		api.Route("/user", func(user chi.Router) {
			user.Post("/register", h.User.Register)

			user.Group(func(authed chi.Router) {
				authed.Use(authMiddleware.RequireAuth)
				authed.Get("/list", h.User.List)
				authed.Get("/filter-by-period", h.User.FilterByPeriod)

				self := authMiddleware.RequireSelf("id")
				authed.With(self).Patch("/update/{id}", h.User.Update)
				authed.With(self).Delete("/delete/{id}", h.User.Delete)
				authed.With(self).Get("/profile/{id}", h.User.Profile)
			})
		})

		api.Route("/transactions", func(txns chi.Router) {
			txns.Use(authMiddleware.RequireAuth)
			txns.Post("/create", h.Transaction.Create)
			txns.Put("/update/{transactionId}", h.Transaction.Update)
			txns.Delete("/delete/{transactionId}", h.Transaction.Delete)
			txns.Get("/get/{transactionId}", h.Transaction.Get)
			txns.Post("/getAll", h.Transaction.List)
		})
	})

	return r
}

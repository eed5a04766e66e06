// Package lifecycle предоставляет маршруты административного API.
package lifecycle

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/account-lifecycle/internal/http/handlers/account/cancel"
	"github.com/magabrotheeeer/account-lifecycle/internal/http/handlers/account/health"
	"github.com/magabrotheeeer/account-lifecycle/internal/http/handlers/account/history"
	"github.com/magabrotheeeer/account-lifecycle/internal/http/handlers/account/read"
	"github.com/magabrotheeeer/account-lifecycle/internal/http/handlers/account/remove"
	"github.com/magabrotheeeer/account-lifecycle/internal/http/handlers/account/restore"
	"github.com/magabrotheeeer/account-lifecycle/internal/http/handlers/account/schedule"
	"github.com/magabrotheeeer/account-lifecycle/internal/http/middlewarectx"
	libjwt "github.com/magabrotheeeer/account-lifecycle/internal/lib/jwt"
	lifecycleservice "github.com/magabrotheeeer/account-lifecycle/internal/services/lifecycle"
	"github.com/magabrotheeeer/account-lifecycle/internal/storage/repository"
)

type storageChecker struct {
	db *repository.Storage
}

func (c storageChecker) CheckReady() error {
	return repository.CheckDatabaseReady(c.db)
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, engine *lifecycleservice.LifecycleEngine, jwtMaker libjwt.Maker, db *repository.Storage) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger, storageChecker{db: db}).ServeHTTP)

		// Группа с JWT аутентификацией, только для администраторов
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.AdminOnlyMiddleware(logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Delete("/accounts/{id}", remove.New(logger, engine).ServeHTTP)
			r.Post("/accounts/{id}/schedule", schedule.New(logger, engine).ServeHTTP)
			r.Delete("/accounts/{id}/schedule", cancel.New(logger, engine).ServeHTTP)
			r.Post("/accounts/{id}/restore", restore.New(logger, engine).ServeHTTP)
			r.Get("/accounts/{id}", read.New(logger, engine).ServeHTTP)
			r.Get("/accounts/{id}/history", history.New(logger, engine).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

// Package miningbackend собирает приложение и маршруты основного HTTP-сервера.
package miningbackend

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/minexcloud/mining-backend/internal/http/handlers/auth/login"
	"github.com/minexcloud/mining-backend/internal/http/handlers/auth/register"
	"github.com/minexcloud/mining-backend/internal/http/handlers/health"
	"github.com/minexcloud/mining-backend/internal/http/handlers/mining/mine"
	payoutcreate "github.com/minexcloud/mining-backend/internal/http/handlers/payout/create"
	"github.com/minexcloud/mining-backend/internal/http/middlewarectx"
	authservice "github.com/minexcloud/mining-backend/internal/services/auth"
	miningservice "github.com/minexcloud/mining-backend/internal/services/mining"
	payoutservice "github.com/minexcloud/mining-backend/internal/services/payout"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.Service,
	miningService *miningservice.Service,
	payoutService *payoutservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	// Открытые конечные точки
	r.Post("/registro", register.New(logger, authService).ServeHTTP)
	r.Post("/login", login.New(logger, authService).ServeHTTP)
	r.Get("/health", health.New(logger).ServeHTTP)

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(authService, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Post("/minar", mine.New(logger, miningService).ServeHTTP)
		r.Post("/pago", payoutcreate.New(logger, payoutService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

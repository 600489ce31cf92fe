package subtrack

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/subtrack/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/subtrack/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/subtrack/internal/http/handlers/auth/register"
	subcancel "github.com/magabrotheeeer/subtrack/internal/http/handlers/subscription/cancel"
	subcreate "github.com/magabrotheeeer/subtrack/internal/http/handlers/subscription/create"
	sublist "github.com/magabrotheeeer/subtrack/internal/http/handlers/subscription/list"
	sublistbyuser "github.com/magabrotheeeer/subtrack/internal/http/handlers/subscription/listbyuser"
	subread "github.com/magabrotheeeer/subtrack/internal/http/handlers/subscription/read"
	subremove "github.com/magabrotheeeer/subtrack/internal/http/handlers/subscription/remove"
	subupcoming "github.com/magabrotheeeer/subtrack/internal/http/handlers/subscription/upcoming"
	subupdate "github.com/magabrotheeeer/subtrack/internal/http/handlers/subscription/update"
	userme "github.com/magabrotheeeer/subtrack/internal/http/handlers/user/me"
	userread "github.com/magabrotheeeer/subtrack/internal/http/handlers/user/read"
	"github.com/magabrotheeeer/subtrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subtrack/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/subtrack/internal/services/auth"
	subservice "github.com/magabrotheeeer/subtrack/internal/services/subscription"
	"github.com/magabrotheeeer/subtrack/internal/storage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker,
	db *storage.Storage, authService *authservice.AuthService,
	subscriptionService *subservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/sign-up", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/sign-in", login.New(logger, authService).ServeHTTP)
		r.Post("/auth/sign-out", logout.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(logger, jwtMaker, db))

			r.Get("/users/", userme.New(logger, db).ServeHTTP)
			r.Get("/users/{id}", userread.New(logger, db).ServeHTTP)

			r.Get("/subscriptions/", sublist.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/", subcreate.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/upcoming-renewals", subupcoming.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/user/{id}", sublistbyuser.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}", subread.New(logger, subscriptionService).ServeHTTP)
			r.Put("/subscriptions/{id}", subupdate.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/subscriptions/{id}", subremove.New(logger, subscriptionService).ServeHTTP)
			r.Put("/subscriptions/{id}/cancel", subcancel.New(logger, subscriptionService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

// Package web собирает веб-клиент FitPlanHub: маршруты, middleware и HTTP-сервер.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/fitplanhub-web/internal/backend"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/guard"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/handlers/feed"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/handlers/health"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/handlers/landing"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/handlers/plan"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/handlers/selection"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/handlers/trainer"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/view"
	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
	"github.com/magabrotheeeer/fitplanhub-web/internal/session"
)

// Deps зависимости маршрутов.
type Deps struct {
	Logger       *slog.Logger
	Client       *backend.Client
	View         *view.Renderer
	Sessions     *session.Manager
	Limiter      *middlewarectx.Limiter
	CSRF         func(http.Handler) http.Handler
	LandingLimit int
	// TrustProxy разрешает брать адрес клиента из заголовков прокси.
	TrustProxy bool
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	// Глобальные middleware
	r.Use(middleware.RequestID)
	if d.TrustProxy {
		// иначе подменой X-Forwarded-For можно обойти лимит на вход
		r.Use(middleware.RealIP)
	}
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware,
	)

	r.Get("/healthz", health.New(d.Logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", view.Static()))

	limit := middlewarectx.RateLimitMiddleware(d.Logger, d.Limiter)

	r.Group(func(r chi.Router) {
		r.Use(d.Sessions.Middleware)
		if d.CSRF != nil {
			r.Use(d.CSRF)
		}

		// Открытые страницы
		r.Get("/", landing.New(d.Logger, d.Client, d.View, d.LandingLimit).ServeHTTP)
		r.Get("/signup", selection.Signup(d.View).ServeHTTP)
		r.Get("/login", selection.Login(d.View).ServeHTTP)

		signupUser := signup.NewUser(d.Logger, d.Client, d.View)
		signupTrainer := signup.NewTrainer(d.Logger, d.Client, d.View)
		loginUser := login.New(d.Logger, d.Client, d.View, models.RoleUser)
		loginTrainer := login.New(d.Logger, d.Client, d.View, models.RoleTrainer)

		r.Get("/signup/user", signupUser.ServeHTTP)
		r.Get("/signup/trainer", signupTrainer.ServeHTTP)
		r.Get("/login/user", loginUser.ServeHTTP)
		r.Get("/login/trainer", loginTrainer.ServeHTTP)
		r.With(limit).Post("/signup/user", signupUser.ServeHTTP)
		r.With(limit).Post("/signup/trainer", signupTrainer.ServeHTTP)
		r.With(limit).Post("/login/user", loginUser.ServeHTTP)
		r.With(limit).Post("/login/trainer", loginTrainer.ServeHTTP)
		r.Post("/logout", logout.New(d.Logger).ServeHTTP)

		// Любой вошедший
		r.Group(func(r chi.Router) {
			r.Use(guard.Require(d.Logger, ""))
			planHandler := plan.New(d.Logger, d.Client, d.View)
			r.Get("/plans/{planId}", planHandler.Details)
			r.Post("/plans/{planId}/subscribe", planHandler.Subscribe)
		})

		// Пользователь
		r.Group(func(r chi.Router) {
			r.Use(guard.Require(d.Logger, models.RoleUser))
			feedHandler := feed.New(d.Logger, d.Client, d.View)
			r.Get(feed.PathFeed, feedHandler.ServeHTTP)
			r.Get(feed.PathDashboard, feedHandler.ServeHTTP)
			r.Post("/user/subscribe/{planId}", feed.NewSubscribe(d.Logger, d.Client).ServeHTTP)
			r.Post("/user/trainers/{id}/follow", feed.NewFollow(d.Logger, d.Client).ServeHTTP)
			r.Post("/user/trainers/{id}/unfollow", feed.NewUnfollow(d.Logger, d.Client).ServeHTTP)
		})

		// Тренер
		r.Group(func(r chi.Router) {
			r.Use(guard.Require(d.Logger, models.RoleTrainer))
			trainerHandler := trainer.New(d.Logger, d.Client, d.View)
			r.Get(trainer.PathDashboard, trainerHandler.Dashboard)
			r.Post("/trainer/plans", trainerHandler.Save)
			r.Post("/trainer/plans/{id}", trainerHandler.Save)
			r.Get("/trainer/plans/{id}/delete", trainerHandler.Delete)
			r.Post("/trainer/plans/{id}/delete", trainerHandler.Delete)
		})
	})
}

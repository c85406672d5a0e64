// Package guard защищает страницы, требующие входа.
//
// Решение принимается только по содержимому сессии: токен не проверяется,
// его действительность определяет бэкенд при следующем запросе.
package guard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
	"github.com/magabrotheeeer/fitplanhub-web/internal/session"
)

// LoginPath страница, куда отправляется гость.
const LoginPath = "/login"

// Decide решает, пускать ли на страницу. required пустой означает любую роль.
// При отказе возвращает путь для перенаправления.
func Decide(p models.Principal, required models.Role) (string, bool) {
	if !p.Authenticated() {
		return LoginPath, false
	}
	if required != "" && p.Role != required {
		if p.Role.Known() {
			return p.Role.Dashboard(), false
		}
		return "/", false
	}
	return "", true
}

// Require возвращает middleware, пропускающий только вошедших с ролью required.
func Require(log *slog.Logger, required models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "guard.Require"

			p := session.PrincipalFrom(r.Context())
			redirect, ok := Decide(p, required)
			if !ok {
				log.Debug("access denied",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
					slog.String("redirect", redirect),
				)
				http.Redirect(w, r, redirect, http.StatusFound)
				return
			}
			if p.Expired {
				// пропускаем: отказ, если он будет, придёт от бэкенда
				log.Info("session token expired",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
					slog.Time("expires_at", p.ExpiresAt),
				)
			}
			next.ServeHTTP(w, r)
		})
	}
}

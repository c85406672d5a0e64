// Package logout реализует выход: сессия очищается целиком.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitplanhub-web/internal/session"
)

// Handler обрабатывает выход.
type Handler struct {
	log *slog.Logger
}

// New создает Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP удаляет все ключи сессии и уводит на главную.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := session.FromContext(r.Context()).Clear(r.Context()); err != nil {
		log.Error("failed to clear session", sl.Err(err))
	} else {
		log.Info("logged out")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Package login реализует страницы входа пользователя и тренера.
//
// GET показывает форму, POST отправляет учётные данные в бэкенд. При успехе
// пять ключей сессии сохраняются и браузер уходит в личный кабинет роли,
// при отказе форма показывается снова с сообщением бэкенда.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fitplanhub-web/internal/backend"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/response"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/view"
	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
	"github.com/magabrotheeeer/fitplanhub-web/internal/session"
)

// MsgInvalidCredentials текст по умолчанию при отказе во входе.
const MsgInvalidCredentials = "Invalid email or password"

// Service описывает вход через бэкенд.
type Service interface {
	Login(ctx context.Context, role models.Role, form models.LoginForm) (models.LoginResult, error)
}

// Renderer рендерит HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any)
}

// Handler обрабатывает вход для одной роли.
type Handler struct {
	log      *slog.Logger
	service  Service
	view     Renderer
	validate *validator.Validate
	role     models.Role
}

// New создает Handler для роли role.
func New(log *slog.Logger, service Service, v Renderer, role models.Role) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		view:     v,
		validate: validator.New(),
		role:     role,
	}
}

// ServeHTTP показывает форму (GET) или выполняет вход (POST).
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("role", string(h.role)),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, models.LoginForm{}, "")
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.render(w, r, http.StatusBadRequest, models.LoginForm{}, "invalid form")
		return
	}
	form := models.LoginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	if err := h.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			h.render(w, r, http.StatusBadRequest, form, "invalid form")
			return
		}
		log.Info("validation failed", sl.Err(err))
		h.render(w, r, http.StatusUnprocessableEntity, form, response.ValidationMessage(verrs))
		return
	}

	res, err := h.service.Login(r.Context(), h.role, form)
	if err != nil {
		log.Info("login rejected", sl.Err(err))
		status := http.StatusUnauthorized
		if errors.Is(err, backend.ErrUnavailable) {
			status = http.StatusBadGateway
		}
		h.render(w, r, status, form, response.FormError(err, MsgInvalidCredentials))
		return
	}

	bag := session.FromContext(r.Context())
	if err := bag.Renew(r.Context(), session.LoginKeys(h.role, res)); err != nil {
		log.Error("failed to persist session", sl.Err(err))
		h.render(w, r, http.StatusInternalServerError, form, response.MsgUnavailableForm)
		return
	}

	attrs := []any{slog.Int64("id", res.ID)}
	if p := bag.Principal(); !p.ExpiresAt.IsZero() {
		attrs = append(attrs, slog.Time("expires_at", p.ExpiresAt))
	}
	log.Info("login success", attrs...)
	http.Redirect(w, r, h.role.Dashboard(), http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, form models.LoginForm, errMsg string) {
	heading, action := "User Login", "/login/user"
	if h.role == models.RoleTrainer {
		heading, action = "Trainer Login", "/login/trainer"
	}
	form.Password = ""
	h.view.Render(w, r, status, view.PageLogin, heading, view.LoginData{
		Heading: heading,
		Action:  action,
		Form:    form,
		Error:   errMsg,
	})
}

// Package plan реализует страницу плана: превью для неподписанных,
// полное описание для подписчиков, и подписку со страницы.
package plan

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/fitplanhub-web/internal/backend"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/guard"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/response"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/view"
	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
	"github.com/magabrotheeeer/fitplanhub-web/internal/session"
)

// Service описывает запросы страницы плана к бэкенду.
type Service interface {
	PlanDetail(ctx context.Context, token string, id int64) (models.PlanDetail, error)
	Subscribe(ctx context.Context, token string, planID int64) (string, error)
}

// Renderer рендерит HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any)
}

// Handler обслуживает страницу плана.
type Handler struct {
	log     *slog.Logger
	service Service
	view    Renderer
}

// New создает Handler.
func New(log *slog.Logger, service Service, v Renderer) *Handler {
	return &Handler{
		log:     log,
		service: service,
		view:    v,
	}
}

// Details показывает план. Токен передаётся, если он есть в сессии.
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.details"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal := session.PrincipalFrom(r.Context())
	data := view.PlanDetailsData{Back: backPath(principal)}

	id, err := strconv.ParseInt(chi.URLParam(r, "planId"), 10, 64)
	if err != nil {
		log.Info("invalid plan id in url", sl.Err(err))
		data.Error = response.MsgPlanNotFound
		h.view.Render(w, r, http.StatusNotFound, view.PagePlanDetails, "Plan", data)
		return
	}

	detail, err := h.service.PlanDetail(r.Context(), principal.Token, id)
	if err != nil {
		log.Info("failed to load plan", slog.Int64("id", id), sl.Err(err))
		status := http.StatusNotFound
		var apiErr *backend.Error
		switch {
		case errors.As(err, &apiErr):
			data.Error = response.FormError(err, response.MsgPlanNotFound)
		default:
			status = http.StatusBadGateway
			data.Error = response.MsgPlanLoadFailed
		}
		h.view.Render(w, r, status, view.PagePlanDetails, "Plan", data)
		return
	}

	log.Debug("plan loaded", slog.Int64("id", id), slog.String("access", detail.Access.String()))
	data.Detail = detail
	h.view.Render(w, r, http.StatusOK, view.PagePlanDetails, detail.Plan.Title, data)
}

// Subscribe подписывает на план. Гость отправляется на страницу входа.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.subscribe"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal := session.PrincipalFrom(r.Context())
	if !principal.Authenticated() {
		http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
		return
	}

	raw := chi.URLParam(r, "planId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Info("invalid plan id in url", sl.Err(err))
		http.NotFound(w, r)
		return
	}

	msg := response.MsgSubscribed
	if _, err := h.service.Subscribe(r.Context(), principal.Token, id); err != nil {
		log.Info("subscribe failed", slog.Int64("id", id), sl.Err(err))
		msg = response.ActionError(err, response.MsgSubscribeFailed)
	}

	if err := session.FromContext(r.Context()).Set(r.Context(), session.KeyFlash, msg); err != nil {
		log.Error("failed to save flash message", sl.Err(err))
	}
	http.Redirect(w, r, "/plans/"+raw, http.StatusSeeOther)
}

func backPath(p models.Principal) string {
	if dash := p.Role.Dashboard(); dash != "" && p.Authenticated() {
		return dash
	}
	return "/"
}

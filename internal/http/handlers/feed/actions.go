package feed

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/fitplanhub-web/internal/http/response"
	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitplanhub-web/internal/session"
)

// action одно действие кабинета: запрос и тексты результата.
type action struct {
	op      string
	param   string
	success string
	failure string
	tab     func(r *http.Request) string
	call    func(s Service, ctx context.Context, token string, id int64) (string, error)
}

// ActionHandler выполняет действие и возвращает пользователя в кабинет.
type ActionHandler struct {
	log     *slog.Logger
	service Service
	action  action
}

// NewSubscribe создает обработчик подписки на план.
func NewSubscribe(log *slog.Logger, service Service) *ActionHandler {
	return &ActionHandler{log: log, service: service, action: action{
		op:      "handlers.feed.subscribe",
		param:   "planId",
		success: response.MsgSubscribed,
		failure: response.MsgSubscribeFailed,
		tab:     func(r *http.Request) string { return parseTab(r.PostFormValue("tab")) },
		call:    Service.Subscribe,
	}}
}

// NewFollow создает обработчик подписки на тренера.
func NewFollow(log *slog.Logger, service Service) *ActionHandler {
	return &ActionHandler{log: log, service: service, action: action{
		op:      "handlers.feed.follow",
		param:   "id",
		success: response.MsgFollowed,
		failure: response.MsgFollowFailed,
		tab:     func(*http.Request) string { return TabTrainers },
		call:    Service.Follow,
	}}
}

// NewUnfollow создает обработчик отписки от тренера.
func NewUnfollow(log *slog.Logger, service Service) *ActionHandler {
	return &ActionHandler{log: log, service: service, action: action{
		op:      "handlers.feed.unfollow",
		param:   "id",
		success: response.MsgUnfollowed,
		failure: response.MsgUnfollowFailed,
		tab:     func(*http.Request) string { return TabTrainers },
		call:    Service.Unfollow,
	}}
}

func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a := h.action

	log := h.log.With(
		slog.String("op", a.op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse form", sl.Err(err))
	}
	back := basePath(r.PostFormValue("back")) + "?" + url.Values{"tab": {a.tab(r)}}.Encode()

	msg := a.success
	id, err := strconv.ParseInt(chi.URLParam(r, a.param), 10, 64)
	if err != nil {
		log.Info("invalid id in url", sl.Err(err))
		msg = a.failure
	} else {
		token := session.PrincipalFrom(r.Context()).Token
		if _, err := a.call(h.service, r.Context(), token, id); err != nil {
			log.Info("action failed", slog.Int64("id", id), sl.Err(err))
			msg = response.ActionError(err, a.failure)
		}
	}

	if err := session.FromContext(r.Context()).Set(r.Context(), session.KeyFlash, msg); err != nil {
		log.Error("failed to save flash message", sl.Err(err))
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// Package trainer реализует кабинет тренера: список планов, создание,
// редактирование и удаление.
//
// Модальное окно формы управляется параметрами запроса (?modal=create,
// ?modal=edit&id=N). Сохранение перенаправляет обратно только при успехе,
// иначе окно показывается снова с сообщением об ошибке.
package trainer

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fitplanhub-web/internal/backend"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/response"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/view"
	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
	"github.com/magabrotheeeer/fitplanhub-web/internal/session"
)

// PathDashboard путь кабинета тренера.
const PathDashboard = "/trainer/dashboard"

// Service описывает запросы кабинета тренера к бэкенду.
type Service interface {
	TrainerPlans(ctx context.Context, token string) ([]models.Plan, error)
	CreatePlan(ctx context.Context, token string, form models.PlanForm) (string, error)
	UpdatePlan(ctx context.Context, token string, id int64, form models.PlanForm) (string, error)
	DeletePlan(ctx context.Context, token string, id int64) (string, error)
}

// Renderer рендерит HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any)
}

// Handler обслуживает кабинет тренера.
type Handler struct {
	log      *slog.Logger
	service  Service
	view     Renderer
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service, v Renderer) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		view:     v,
		validate: validator.New(),
	}
}

// Dashboard показывает планы тренера и, если запрошено, окно формы.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trainer.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans := h.plans(r.Context(), log)

	var modal *view.PlanModal
	switch r.URL.Query().Get("modal") {
	case "create":
		modal = &view.PlanModal{}
	case "edit":
		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil {
			break
		}
		for _, p := range plans {
			if p.ID == id {
				modal = &view.PlanModal{Editing: true, PlanID: id, Form: inputOf(p)}
				break
			}
		}
	}

	h.render(w, r, http.StatusOK, plans, modal)
}

// Save создаёт план (без id в пути) или обновляет существующий.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trainer.save"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	modal := &view.PlanModal{}
	if raw := chi.URLParam(r, "id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Info("invalid plan id in url", sl.Err(err))
			h.render(w, r, http.StatusNotFound, h.plans(r.Context(), log), nil)
			return
		}
		modal.Editing, modal.PlanID = true, id
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		modal.Error = "invalid form"
		h.render(w, r, http.StatusBadRequest, h.plans(r.Context(), log), modal)
		return
	}
	modal.Form = view.PlanFormInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Price:       strings.TrimSpace(r.PostFormValue("price")),
		Duration:    strings.TrimSpace(r.PostFormValue("duration")),
	}

	form, err := ParsePlanForm(modal.Form)
	if err == nil {
		err = h.validate.Struct(form)
	}
	if err != nil {
		log.Info("invalid plan form", sl.Err(err))
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			modal.Error = response.ValidationMessage(verrs)
		} else {
			modal.Error = err.Error()
		}
		h.render(w, r, http.StatusUnprocessableEntity, h.plans(r.Context(), log), modal)
		return
	}

	token := session.PrincipalFrom(r.Context()).Token
	if modal.Editing {
		_, err = h.service.UpdatePlan(r.Context(), token, modal.PlanID, form)
	} else {
		_, err = h.service.CreatePlan(r.Context(), token, form)
	}
	if err != nil {
		log.Info("failed to save plan", sl.Err(err))
		modal.Error = response.ActionError(err, response.MsgPlanSaveFailed)
		status := http.StatusBadRequest
		if errors.Is(err, backend.ErrUnavailable) {
			status = http.StatusBadGateway
		}
		h.render(w, r, status, h.plans(r.Context(), log), modal)
		return
	}

	log.Info("plan saved", slog.Bool("editing", modal.Editing), slog.Int64("id", modal.PlanID))
	http.Redirect(w, r, PathDashboard, http.StatusSeeOther)
}

// Delete показывает подтверждение (GET или POST без confirm) и удаляет план
// только после явного подтверждения.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trainer.delete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("invalid plan id in url", sl.Err(err))
		h.view.Render(w, r, http.StatusNotFound, view.PagePlanDelete, "Delete plan", view.PlanDeleteData{
			Error: response.MsgPlanNotFound,
		})
		return
	}

	if r.Method != http.MethodPost || r.PostFormValue("confirm") != "yes" {
		h.view.Render(w, r, http.StatusOK, view.PagePlanDelete, "Delete plan", view.PlanDeleteData{PlanID: id})
		return
	}

	msg := response.MsgPlanDeleted
	token := session.PrincipalFrom(r.Context()).Token
	if _, err := h.service.DeletePlan(r.Context(), token, id); err != nil {
		log.Info("failed to delete plan", slog.Int64("id", id), sl.Err(err))
		msg = response.ActionError(err, response.MsgPlanDeleteFailed)
	} else {
		log.Info("plan deleted", slog.Int64("id", id))
	}

	if err := session.FromContext(r.Context()).Set(r.Context(), session.KeyFlash, msg); err != nil {
		log.Error("failed to save flash message", sl.Err(err))
	}
	http.Redirect(w, r, PathDashboard, http.StatusSeeOther)
}

// plans загружает планы тренера; при ошибке список пуст.
func (h *Handler) plans(ctx context.Context, log *slog.Logger) []models.Plan {
	plans, err := h.service.TrainerPlans(ctx, session.PrincipalFrom(ctx).Token)
	if err != nil {
		log.Warn("failed to load trainer plans", sl.Err(err))
		return nil
	}
	return plans
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, plans []models.Plan, modal *view.PlanModal) {
	h.view.Render(w, r, status, view.PageTrainerDashboard, "Trainer dashboard", view.TrainerDashboardData{
		Plans: plans,
		Modal: modal,
	})
}

// Ошибки приведения полей формы.
var (
	ErrInvalidPrice    = errors.New("price must be a number")
	ErrInvalidDuration = errors.New("duration must be a whole number of days")
)

// ParsePlanForm приводит цену к float64, а длительность к int.
// Дробная длительность отбрасывает дробную часть.
func ParsePlanForm(in view.PlanFormInput) (models.PlanForm, error) {
	price, err := strconv.ParseFloat(in.Price, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return models.PlanForm{}, ErrInvalidPrice
	}

	duration, err := strconv.Atoi(in.Duration)
	if err != nil {
		f, ferr := strconv.ParseFloat(in.Duration, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
			return models.PlanForm{}, ErrInvalidDuration
		}
		duration = int(f)
	}

	return models.PlanForm{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       price,
		Duration:    duration,
	}, nil
}

func inputOf(p models.Plan) view.PlanFormInput {
	return view.PlanFormInput{
		Title:       p.Title,
		Description: p.Description,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Duration:    strconv.Itoa(p.Duration),
	}
}

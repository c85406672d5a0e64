// Package signup реализует регистрацию пользователя и тренера.
//
// Форма проверяется валидатором до запроса в бэкенд. Успешная регистрация
// ведёт на страницу входа той же роли.
package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fitplanhub-web/internal/backend"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/response"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/view"
	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
)

// MsgSignupFailed текст по умолчанию при отказе в регистрации.
const MsgSignupFailed = "Signup failed. Please try again."

// MsgNotANumber сообщение для числового поля, которое не удалось разобрать.
const MsgNotANumber = "field %s must be a number"

// Genders варианты пола в форме пользователя.
var Genders = []view.Option{
	{Value: "male", Label: "Male"},
	{Value: "female", Label: "Female"},
	{Value: "other", Label: "Other"},
}

// Goals варианты цели в форме пользователя.
var Goals = []view.Option{
	{Value: "weight_loss", Label: "Weight Loss"},
	{Value: "muscle_gain", Label: "Muscle Gain"},
	{Value: "improve_fitness", Label: "Improve Overall Fitness"},
	{Value: "flexibility", Label: "Improve Flexibility"},
	{Value: "endurance", Label: "Build Endurance"},
	{Value: "strength", Label: "Increase Strength"},
}

// Service описывает регистрацию через бэкенд.
type Service interface {
	SignupUser(ctx context.Context, form models.UserSignupForm) error
	SignupTrainer(ctx context.Context, form models.TrainerSignupForm) error
}

// Renderer рендерит HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any)
}

// UserHandler регистрирует пользователей.
type UserHandler struct {
	log      *slog.Logger
	service  Service
	view     Renderer
	validate *validator.Validate
}

// NewUser создает UserHandler.
func NewUser(log *slog.Logger, service Service, v Renderer) *UserHandler {
	return &UserHandler{
		log:      log,
		service:  service,
		view:     v,
		validate: validator.New(),
	}
}

func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup.user"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, models.UserSignupForm{}, "")
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.render(w, r, http.StatusBadRequest, models.UserSignupForm{}, "invalid form")
		return
	}
	num := numbers{r: r}
	form := models.UserSignupForm{
		FullName:    strings.TrimSpace(r.PostFormValue("fullName")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Password:    r.PostFormValue("password"),
		Age:         num.intField("age"),
		Gender:      r.PostFormValue("gender"),
		Height:      num.floatField("height"),
		Weight:      num.floatField("weight"),
		FitnessGoal: r.PostFormValue("fitnessGoal"),
	}

	if msg, status := num.check(h.validate, form); msg != "" {
		log.Info("validation failed", slog.String("reason", msg))
		h.render(w, r, status, form, msg)
		return
	}

	if err := h.service.SignupUser(r.Context(), form); err != nil {
		log.Info("signup rejected", sl.Err(err))
		h.render(w, r, failureStatus(err), form, response.FormError(err, MsgSignupFailed))
		return
	}

	log.Info("user signed up")
	http.Redirect(w, r, "/login/user", http.StatusSeeOther)
}

func (h *UserHandler) render(w http.ResponseWriter, r *http.Request, status int, form models.UserSignupForm, errMsg string) {
	form.Password = ""
	h.view.Render(w, r, status, view.PageSignupUser, "Sign up", view.SignupUserData{
		Form:    form,
		Error:   errMsg,
		Genders: Genders,
		Goals:   Goals,
	})
}

// TrainerHandler регистрирует тренеров.
type TrainerHandler struct {
	log      *slog.Logger
	service  Service
	view     Renderer
	validate *validator.Validate
}

// NewTrainer создает TrainerHandler.
func NewTrainer(log *slog.Logger, service Service, v Renderer) *TrainerHandler {
	return &TrainerHandler{
		log:      log,
		service:  service,
		view:     v,
		validate: validator.New(),
	}
}

func (h *TrainerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup.trainer"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, models.TrainerSignupForm{}, "")
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.render(w, r, http.StatusBadRequest, models.TrainerSignupForm{}, "invalid form")
		return
	}
	num := numbers{r: r}
	form := models.TrainerSignupForm{
		FullName:          strings.TrimSpace(r.PostFormValue("fullName")),
		Email:             strings.TrimSpace(r.PostFormValue("email")),
		Password:          r.PostFormValue("password"),
		YearsOfExperience: num.intField("yearsOfExperience"),
		Specializations:   strings.TrimSpace(r.PostFormValue("specializations")),
		Bio:               r.PostFormValue("bio"),
	}

	if msg, status := num.check(h.validate, form); msg != "" {
		log.Info("validation failed", slog.String("reason", msg))
		h.render(w, r, status, form, msg)
		return
	}

	if err := h.service.SignupTrainer(r.Context(), form); err != nil {
		log.Info("signup rejected", sl.Err(err))
		h.render(w, r, failureStatus(err), form, response.FormError(err, MsgSignupFailed))
		return
	}

	log.Info("trainer signed up")
	http.Redirect(w, r, "/login/trainer", http.StatusSeeOther)
}

func (h *TrainerHandler) render(w http.ResponseWriter, r *http.Request, status int, form models.TrainerSignupForm, errMsg string) {
	form.Password = ""
	h.view.Render(w, r, status, view.PageSignupTrainer, "Sign up", view.SignupTrainerData{
		Form:  form,
		Error: errMsg,
	})
}

// numbers разбирает числовые поля формы и запоминает первое поле,
// значение которого не число. Пустое поле тоже не число.
type numbers struct {
	r   *http.Request
	bad string
}

func (n *numbers) intField(name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(n.r.PostFormValue(name)))
	if err != nil {
		n.fail(name)
		return 0
	}
	return v
}

func (n *numbers) floatField(name string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(n.r.PostFormValue(name)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		n.fail(name)
		return 0
	}
	return v
}

func (n *numbers) fail(name string) {
	if n.bad == "" {
		n.bad = name
	}
}

// check возвращает текст ошибки со статусом ответа: сначала поля,
// которые не удалось разобрать, затем правила валидатора.
func (n *numbers) check(v *validator.Validate, form any) (string, int) {
	if n.bad != "" {
		return fmt.Sprintf(MsgNotANumber, n.bad), http.StatusUnprocessableEntity
	}
	err := v.Struct(form)
	if err == nil {
		return "", 0
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return response.ValidationMessage(verrs), http.StatusUnprocessableEntity
	}
	return "invalid form", http.StatusBadRequest
}

func failureStatus(err error) int {
	if errors.Is(err, backend.ErrUnavailable) {
		return http.StatusBadGateway
	}
	return http.StatusBadRequest
}

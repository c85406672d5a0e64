// Package response содержит вспомогательные функции для формирования ответов
// HTTP‑обработчиков: JSON для служебных эндпоинтов и человеко‑читаемые тексты
// ошибок для страниц и форм.
package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fitplanhub-web/internal/backend"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Тексты для недоступного бэкенда.
const (
	MsgUnavailableForm   = "Unable to connect to server. Please try again later."
	MsgUnavailableAction = "Unable to connect to server"
)

// Тексты одноразовых сообщений после действий пользователя.
const (
	MsgSubscribed       = "Successfully subscribed!"
	MsgSubscribeFailed  = "Failed to subscribe"
	MsgFollowed         = "Successfully followed trainer!"
	MsgFollowFailed     = "Failed to follow trainer"
	MsgUnfollowed       = "Successfully unfollowed trainer!"
	MsgUnfollowFailed   = "Failed to unfollow trainer"
	MsgPlanSaveFailed   = "Failed to save plan"
	MsgPlanDeleted      = "Plan deleted"
	MsgPlanDeleteFailed = "Failed to delete plan"
	MsgPlanNotFound     = "Plan not found"
	MsgPlanLoadFailed   = "Unable to load plan details"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// FormError возвращает текст ошибки для формы (вход, регистрация).
func FormError(err error, fallback string) string {
	return message(err, fallback, MsgUnavailableForm)
}

// ActionError возвращает текст ошибки для действия (подписка, удаление и т.п.).
func ActionError(err error, fallback string) string {
	return message(err, fallback, MsgUnavailableAction)
}

// message выбирает текст: нет связи, сообщение бэкенда или fallback.
func message(err error, fallback, unavailable string) string {
	if errors.Is(err, backend.ErrUnavailable) {
		return unavailable
	}
	var apiErr *backend.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// ValidationMessage формирует текст на основе ошибок валидации формы.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationMessage(errs validator.ValidationErrors) string {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
		case "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "lte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return strings.Join(errsMsgs, ", ")
}

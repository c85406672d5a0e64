package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
)

// SignupUser регистрирует пользователя. Успех определяется только статусом 2xx.
func (c *Client) SignupUser(ctx context.Context, form models.UserSignupForm) error {
	return c.doPlain(ctx, call{
		method: http.MethodPost,
		route:  "/api/auth/signup/user",
		path:   "/api/auth/signup/user",
		body:   form,
	}, nil)
}

// SignupTrainer регистрирует тренера.
func (c *Client) SignupTrainer(ctx context.Context, form models.TrainerSignupForm) error {
	return c.doPlain(ctx, call{
		method: http.MethodPost,
		route:  "/api/auth/signup/trainer",
		path:   "/api/auth/signup/trainer",
		body:   form,
	}, nil)
}

// Login выполняет вход для роли role. Тело успешного ответа приходит без конверта.
func (c *Client) Login(ctx context.Context, role models.Role, form models.LoginForm) (models.LoginResult, error) {
	const op = "backend.Login"

	var path string
	switch role {
	case models.RoleUser:
		path = "/api/auth/login/user"
	case models.RoleTrainer:
		path = "/api/auth/login/trainer"
	default:
		return models.LoginResult{}, fmt.Errorf("%s: unknown role %q", op, role)
	}

	var res models.LoginResult
	err := c.doPlain(ctx, call{
		method: http.MethodPost,
		route:  path,
		path:   path,
		body:   form,
	}, &res)
	if err != nil {
		return models.LoginResult{}, err
	}
	return res, nil
}

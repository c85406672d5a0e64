package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
)

// PopularPlans возвращает публичные планы для главной страницы.
func (c *Client) PopularPlans(ctx context.Context, limit int) ([]models.Plan, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var plans []models.Plan
	_, err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/public/plans",
		path:   "/api/public/plans?" + q.Encode(),
	}, &plans)
	return plans, err
}

// PlanDetail возвращает план по id. token может быть пустым.
// Вариант ответа определяется наличием ключа description в data:
// при подписке бэкенд отдаёт полное описание, иначе превью без этого ключа.
func (c *Client) PlanDetail(ctx context.Context, token string, id int64) (models.PlanDetail, error) {
	const op = "backend.PlanDetail"

	var raw json.RawMessage
	_, err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/plans/{id}",
		path:   "/api/plans/" + strconv.FormatInt(id, 10),
		token:  token,
	}, &raw)
	if err != nil {
		return models.PlanDetail{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.PlanDetail{}, fmt.Errorf("%s: decode data: %w", op, err)
	}
	if fields == nil {
		return models.PlanDetail{}, fmt.Errorf("%s: empty plan data", op)
	}

	var plan models.Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return models.PlanDetail{}, fmt.Errorf("%s: decode plan: %w", op, err)
	}

	access := models.PlanPreview
	if _, ok := fields["description"]; ok {
		access = models.PlanFullDetail
	}
	return models.PlanDetail{Access: access, Plan: plan}, nil
}

// UserPlans возвращает все планы для пользователя.
func (c *Client) UserPlans(ctx context.Context, token string) ([]models.Plan, error) {
	return c.planList(ctx, token, "/api/user/plans")
}

// Feed возвращает ленту планов от тренеров, на которых подписан пользователь.
func (c *Client) Feed(ctx context.Context, token string) ([]models.Plan, error) {
	return c.planList(ctx, token, "/api/user/feed")
}

// TrainerPlans возвращает планы текущего тренера.
func (c *Client) TrainerPlans(ctx context.Context, token string) ([]models.Plan, error) {
	return c.planList(ctx, token, "/api/trainer/plans")
}

func (c *Client) planList(ctx context.Context, token, path string) ([]models.Plan, error) {
	var plans []models.Plan
	_, err := c.do(ctx, call{
		method: http.MethodGet,
		route:  path,
		path:   path,
		token:  token,
	}, &plans)
	return plans, err
}

// Subscriptions возвращает id планов, на которые подписан пользователь.
func (c *Client) Subscriptions(ctx context.Context, token string) ([]int64, error) {
	var ids []int64
	_, err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/user/subscriptions",
		path:   "/api/user/subscriptions",
		token:  token,
	}, &ids)
	return ids, err
}

// Subscribe оформляет подписку на план и возвращает сообщение бэкенда.
func (c *Client) Subscribe(ctx context.Context, token string, planID int64) (string, error) {
	return c.do(ctx, call{
		method: http.MethodPost,
		route:  "/api/user/subscribe/{planId}",
		path:   "/api/user/subscribe/" + strconv.FormatInt(planID, 10),
		token:  token,
	}, nil)
}

// CreatePlan создаёт план тренера.
func (c *Client) CreatePlan(ctx context.Context, token string, form models.PlanForm) (string, error) {
	return c.do(ctx, call{
		method: http.MethodPost,
		route:  "/api/trainer/plans",
		path:   "/api/trainer/plans",
		token:  token,
		body:   form,
	}, nil)
}

// UpdatePlan обновляет план тренера.
func (c *Client) UpdatePlan(ctx context.Context, token string, id int64, form models.PlanForm) (string, error) {
	return c.do(ctx, call{
		method: http.MethodPut,
		route:  "/api/trainer/plans/{id}",
		path:   "/api/trainer/plans/" + strconv.FormatInt(id, 10),
		token:  token,
		body:   form,
	}, nil)
}

// DeletePlan удаляет план тренера.
func (c *Client) DeletePlan(ctx context.Context, token string, id int64) (string, error) {
	return c.do(ctx, call{
		method: http.MethodDelete,
		route:  "/api/trainer/plans/{id}",
		path:   "/api/trainer/plans/" + strconv.FormatInt(id, 10),
		token:  token,
	}, nil)
}

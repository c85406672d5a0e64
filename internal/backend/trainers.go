package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
)

// Trainers возвращает всех тренеров с признаком подписки.
func (c *Client) Trainers(ctx context.Context, token string) ([]models.Trainer, error) {
	var trainers []models.Trainer
	_, err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/user/trainers",
		path:   "/api/user/trainers",
		token:  token,
	}, &trainers)
	return trainers, err
}

// SearchTrainers ищет тренеров по ключевому слову.
func (c *Client) SearchTrainers(ctx context.Context, token, keyword string) ([]models.Trainer, error) {
	q := url.Values{}
	q.Set("keyword", keyword)

	var trainers []models.Trainer
	_, err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/user/trainers/search",
		path:   "/api/user/trainers/search?" + q.Encode(),
		token:  token,
	}, &trainers)
	return trainers, err
}

// Follow подписывает пользователя на тренера.
func (c *Client) Follow(ctx context.Context, token string, trainerID int64) (string, error) {
	return c.do(ctx, call{
		method: http.MethodPost,
		route:  "/api/user/trainers/follow/{trainerId}",
		path:   "/api/user/trainers/follow/" + strconv.FormatInt(trainerID, 10),
		token:  token,
	}, nil)
}

// Unfollow отписывает пользователя от тренера.
func (c *Client) Unfollow(ctx context.Context, token string, trainerID int64) (string, error) {
	return c.do(ctx, call{
		method: http.MethodDelete,
		route:  "/api/user/trainers/follow/{trainerId}",
		path:   "/api/user/trainers/follow/" + strconv.FormatInt(trainerID, 10),
		token:  token,
	}, nil)
}

// Following возвращает id тренеров, на которых подписан пользователь.
func (c *Client) Following(ctx context.Context, token string) ([]int64, error) {
	var ids []int64
	_, err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/user/following",
		path:   "/api/user/following",
		token:  token,
	}, &ids)
	return ids, err
}

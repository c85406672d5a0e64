// Package backend содержит типизированный клиент REST API FitPlanHub.
//
// Все страницы ходят в бэкенд только через Client: он подставляет
// Bearer-токен, разбирает конверт {success, message, data} и приводит
// ошибки к двум видам: ErrUnavailable (нет связи) и *Error (бэкенд ответил отказом).
// Повторов запросов нет.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/sl"
)

// ErrUnavailable возвращается, если до бэкенда не удалось достучаться.
var ErrUnavailable = errors.New("backend unavailable")

// Error отказ бэкенда: ответ не 2xx или success=false.
type Error struct {
	Status  int    // HTTP-статус ответа
	Message string // поле message из ответа, может быть пустым
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.Status)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.Status, e.Message)
}

// envelope стандартный конверт ответа бэкенда.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client клиент REST API FitPlanHub.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient создаёт клиент для бэкенда по адресу baseURL.
// timeout ограничивает каждый запрос; 0 означает без ограничения.
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// call описывает один запрос к бэкенду.
type call struct {
	method string
	route  string // шаблон пути, метка метрик
	path   string
	token  string
	body   any
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	var buf io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	return req, nil
}

// send выполняет запрос и возвращает статус и тело ответа.
func (c *Client) send(ctx context.Context, cl call) (int, []byte, error) {
	const op = "backend.send"

	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observe(cl, 0, start)
		c.log.Warn("backend request failed",
			slog.String("op", op),
			slog.String("method", cl.method),
			slog.String("route", cl.route),
			sl.Err(err),
		)
		return 0, nil, fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	observe(cl, resp.StatusCode, start)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}

	c.log.Debug("backend request done",
		slog.String("method", cl.method),
		slog.String("route", cl.route),
		slog.Int("status", resp.StatusCode),
	)
	return resp.StatusCode, body, nil
}

// do выполняет запрос с конвертом и раскладывает data в out.
// Успехом считается только 2xx вместе с success=true.
func (c *Client) do(ctx context.Context, cl call, out any) (string, error) {
	const op = "backend.do"

	status, body, err := c.send(ctx, cl)
	if err != nil {
		return "", err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", &Error{Status: status}
	}
	if !isOK(status) || !env.Success {
		return "", &Error{Status: status, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("%s: decode data: %w", op, err)
		}
	}
	return env.Message, nil
}

// doPlain выполняет запрос, успех которого определяется только статусом 2xx.
// Тело успешного ответа раскладывается в out как есть.
func (c *Client) doPlain(ctx context.Context, cl call, out any) error {
	const op = "backend.doPlain"

	status, body, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if !isOK(status) {
		var env envelope
		_ = json.Unmarshal(body, &env)
		return &Error{Status: status, Message: env.Message}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%s: decode body: %w", op, err)
		}
	}
	return nil
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}

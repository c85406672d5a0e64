// Package feed реализует кабинет пользователя: все планы, ленту подписок
// и поиск тренеров, а также действия подписки на план и на тренера.
//
// Действия выполняют один запрос, кладут в сессию одноразовое сообщение
// и перенаправляют обратно, так что список всегда загружается заново.
package feed

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/fitplanhub-web/internal/http/view"
	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
	"github.com/magabrotheeeer/fitplanhub-web/internal/session"
)

// Вкладки кабинета.
const (
	TabAll      = "all"
	TabFeed     = "feed"
	TabTrainers = "trainers"
)

// Пути кабинета пользователя.
const (
	PathFeed      = "/user/feed"
	PathDashboard = "/user/dashboard"
)

// Service описывает запросы кабинета пользователя к бэкенду.
type Service interface {
	UserPlans(ctx context.Context, token string) ([]models.Plan, error)
	Feed(ctx context.Context, token string) ([]models.Plan, error)
	Subscriptions(ctx context.Context, token string) ([]int64, error)
	Trainers(ctx context.Context, token string) ([]models.Trainer, error)
	SearchTrainers(ctx context.Context, token, keyword string) ([]models.Trainer, error)
	Following(ctx context.Context, token string) ([]int64, error)
	Subscribe(ctx context.Context, token string, planID int64) (string, error)
	Follow(ctx context.Context, token string, trainerID int64) (string, error)
	Unfollow(ctx context.Context, token string, trainerID int64) (string, error)
}

// Renderer рендерит HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any)
}

// Handler показывает кабинет пользователя.
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

// ServeHTTP загружает данные выбранной вкладки и рендерит страницу.
// Ошибки бэкенда дают пустое состояние.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feed"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := session.PrincipalFrom(r.Context()).Token
	data := view.FeedData{
		Base: basePath(r.URL.Path),
		Tab:  parseTab(r.URL.Query().Get("tab")),
	}

	if data.Tab == TabTrainers {
		data.Keyword = r.URL.Query().Get("keyword")
		trainers, err := h.loadTrainers(r.Context(), token, data.Keyword)
		if err != nil {
			log.Warn("failed to load trainers", sl.Err(err))
		}
		data.Trainers = trainers
	} else {
		plans, err := h.loadPlans(r.Context(), token, data.Tab)
		if err != nil {
			log.Warn("failed to load plans", sl.Err(err))
		}
		data.Plans = plans
	}

	h.view.Render(w, r, http.StatusOK, view.PageFeed, "Dashboard", data)
}

// loadPlans запрашивает планы и подписки параллельно. Каждый список
// независим: ошибка одного запроса не обнуляет результат другого.
func (h *Handler) loadPlans(ctx context.Context, token, tab string) ([]view.PlanCard, error) {
	var (
		plans []models.Plan
		subs  []int64
		g     errgroup.Group
	)

	g.Go(func() error {
		var err error
		if tab == TabFeed {
			plans, err = h.service.Feed(ctx, token)
		} else {
			plans, err = h.service.UserPlans(ctx, token)
		}
		return err
	})
	g.Go(func() error {
		var err error
		subs, err = h.service.Subscriptions(ctx, token)
		return err
	})
	err := g.Wait()

	cards := make([]view.PlanCard, 0, len(plans))
	for _, p := range plans {
		cards = append(cards, view.PlanCard{Plan: p, Subscribed: slices.Contains(subs, p.ID)})
	}
	return cards, err
}

// loadTrainers при пустом ключевом слове загружает всех тренеров без поиска.
// Параллельно запрашиваются id тренеров, на которых подписан пользователь:
// карточка считается подписанной, если так говорит любой из двух ответов.
func (h *Handler) loadTrainers(ctx context.Context, token, keyword string) ([]models.Trainer, error) {
	var (
		trainers  []models.Trainer
		following []int64
		g         errgroup.Group
	)

	keyword = strings.TrimSpace(keyword)
	g.Go(func() error {
		var err error
		if keyword == "" {
			trainers, err = h.service.Trainers(ctx, token)
		} else {
			trainers, err = h.service.SearchTrainers(ctx, token, keyword)
		}
		return err
	})
	g.Go(func() error {
		var err error
		following, err = h.service.Following(ctx, token)
		return err
	})
	err := g.Wait()

	for i := range trainers {
		if slices.Contains(following, trainers[i].TrainerID) {
			trainers[i].Following = true
		}
	}
	return trainers, err
}

func parseTab(tab string) string {
	switch tab {
	case TabFeed, TabTrainers:
		return tab
	default:
		return TabAll
	}
}

// basePath допускает только пути кабинета, чтобы не уводить на чужие адреса.
func basePath(p string) string {
	if p == PathDashboard {
		return PathDashboard
	}
	return PathFeed
}

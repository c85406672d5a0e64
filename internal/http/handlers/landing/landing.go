// Package landing реализует главную страницу: популярные планы и преимущества сервиса.
package landing

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/fitplanhub-web/internal/http/view"
	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
)

// Features список преимуществ на главной странице.
var Features = []view.Feature{
	{Icon: "🏋️", Title: "Certified Trainers", Description: "Work with experienced and certified fitness professionals."},
	{Icon: "📋", Title: "Personalized Fitness Plans", Description: "Get customized workout plans tailored to your goals."},
	{Icon: "🔒", Title: "Secure Subscriptions", Description: "Safe and reliable payment processing for all subscriptions."},
	{Icon: "📊", Title: "Track Progress Easily", Description: "Monitor your fitness journey with comprehensive tracking tools."},
	{Icon: "⭐", Title: "Follow Your Favorite Trainers", Description: "Stay connected with trainers who inspire and motivate you."},
}

// Service описывает получение популярных планов.
type Service interface {
	PopularPlans(ctx context.Context, limit int) ([]models.Plan, error)
}

// Renderer рендерит HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any)
}

// Handler обрабатывает запросы главной страницы.
type Handler struct {
	log     *slog.Logger
	service Service
	view    Renderer
	limit   int
}

// New создает Handler, показывающий не более limit планов.
func New(log *slog.Logger, service Service, v Renderer, limit int) *Handler {
	return &Handler{
		log:     log,
		service: service,
		view:    v,
		limit:   limit,
	}
}

// ServeHTTP рендерит главную страницу. Любая ошибка бэкенда даёт пустой список планов.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.landing"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans, err := h.service.PopularPlans(r.Context(), h.limit)
	if err != nil {
		log.Warn("failed to load popular plans", sl.Err(err))
		plans = nil
	}

	h.view.Render(w, r, http.StatusOK, view.PageLanding, "", view.LandingData{
		Plans:    plans,
		Features: Features,
	})
}

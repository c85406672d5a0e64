// Package view рендерит HTML-страницы веб-клиента из встроенных шаблонов.
//
// Каждая страница собирается из layout.html и собственного шаблона.
// Renderer сам достаёт из запроса текущего пользователя, одноразовое
// сообщение (flash) и CSRF-поле для форм.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
	"github.com/magabrotheeeer/fitplanhub-web/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Имена страниц.
const (
	PageLanding          = "landing.html"
	PageSignupSelect     = "signup_select.html"
	PageLoginSelect      = "login_select.html"
	PageSignupUser       = "signup_user.html"
	PageSignupTrainer    = "signup_trainer.html"
	PageLogin            = "login.html"
	PageFeed             = "feed.html"
	PageTrainerDashboard = "trainer_dashboard.html"
	PagePlanDelete       = "plan_delete.html"
	PagePlanDetails      = "plan_details.html"
)

var pages = []string{
	PageLanding,
	PageSignupSelect,
	PageLoginSelect,
	PageSignupUser,
	PageSignupTrainer,
	PageLogin,
	PageFeed,
	PageTrainerDashboard,
	PagePlanDelete,
	PagePlanDetails,
}

// Описание плана хранится в markdown; сырой HTML экранируется.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var funcs = template.FuncMap{
	"markdown": Markdown,
	"price":    Price,
}

// Page данные, общие для всех страниц.
type Page struct {
	Title     string
	Principal models.Principal
	Flash     string
	CSRFField template.HTML
	Data      any
}

// Renderer рендерит страницы.
type Renderer struct {
	log   *slog.Logger
	pages map[string]*template.Template
}

// New разбирает все шаблоны. Ошибка означает битый шаблон в сборке.
func New(log *slog.Logger) (*Renderer, error) {
	const op = "view.New"

	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		tpl, err := template.Must(layout.Clone()).ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("%s: parse %s: %w", op, name, err)
		}
		parsed[name] = tpl
	}

	return &Renderer{log: log, pages: parsed}, nil
}

// Render рендерит страницу name со статусом status.
// Flash-сообщение из сессии показывается один раз и удаляется.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	const op = "view.Render"

	log := v.log.With(
		slog.String("op", op),
		slog.String("page", name),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tpl, ok := v.pages[name]
	if !ok {
		log.Error("unknown page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	bag := session.FromContext(r.Context())
	flash, err := bag.Pop(r.Context(), session.KeyFlash)
	if err != nil {
		log.Warn("failed to drop flash message", sl.Err(err))
	}

	page := Page{
		Title:     title,
		Principal: bag.Principal(),
		Flash:     flash,
		CSRFField: csrf.TemplateField(r),
		Data:      data,
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, page); err != nil {
		log.Error("failed to render page", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Static отдаёт встроенные стили.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// Markdown превращает описание плана в HTML.
func Markdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md)) //nolint:gosec
	}
	return template.HTML(buf.String()) //nolint:gosec
}

// Price форматирует цену без лишних нулей: 25 → "$25", 19.99 → "$19.99".
func Price(p float64) string {
	return "$" + strconv.FormatFloat(p, 'f', -1, 64)
}

// Package selection реализует страницы выбора роли перед регистрацией и входом.
package selection

import (
	"net/http"

	"github.com/magabrotheeeer/fitplanhub-web/internal/http/view"
)

// Renderer рендерит HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any)
}

// Handler показывает статическую страницу выбора.
type Handler struct {
	view  Renderer
	page  string
	title string
}

// Signup создает страницу выбора регистрации.
func Signup(v Renderer) *Handler {
	return &Handler{view: v, page: view.PageSignupSelect, title: "Sign up"}
}

// Login создает страницу выбора входа.
func Login(v Renderer) *Handler {
	return &Handler{view: v, page: view.PageLoginSelect, title: "Login"}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, h.page, h.title, nil)
}

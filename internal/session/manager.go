package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
)

type ctxKey struct{}

// Options параметры cookie сессии.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager связывает cookie браузера с записью в Store.
type Manager struct {
	store Store
	opts  Options
	log   *slog.Logger
}

// NewManager создаёт менеджер сессий.
func NewManager(store Store, opts Options, log *slog.Logger) *Manager {
	return &Manager{store: store, opts: opts, log: log}
}

// Middleware загружает сессию из cookie и кладёт Bag в контекст запроса.
// Если cookie нет или сессия не найдена, выдаётся новый идентификатор:
// идентификатор, присланный браузером, никогда не принимается как новый.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "session.Middleware"

		bag, fresh := m.load(r)
		if fresh {
			http.SetCookie(w, m.cookie(bag.ID()))
		}
		bag.onRenew = func(id string) {
			m.replaceCookie(w, id)
		}
		if bag.store == nil {
			m.log.Warn("session store unavailable, serving detached session",
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		}

		next.ServeHTTP(w, r.WithContext(WithBag(r.Context(), bag)))
	})
}

func (m *Manager) load(r *http.Request) (*Bag, bool) {
	const op = "session.Manager.load"

	c, err := r.Cookie(m.opts.CookieName)
	if err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			values, lerr := m.store.Load(r.Context(), c.Value)
			switch {
			case lerr == nil:
				return newBag(c.Value, m.store, m.opts.TTL, values), false
			case errors.Is(lerr, ErrNotFound):
				m.log.Debug("unknown session id replaced", slog.String("op", op))
			default:
				m.log.Error("failed to load session", slog.String("op", op), sl.Err(lerr))
				return newBag(c.Value, nil, m.opts.TTL, nil), false
			}
		}
	}
	return newBag(uuid.NewString(), m.store, m.opts.TTL, nil), true
}

func (m *Manager) cookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// replaceCookie убирает из ответа ранее выставленную cookie сессии
// и выставляет cookie с идентификатором id. Чужие cookie не трогаются.
func (m *Manager) replaceCookie(w http.ResponseWriter, id string) {
	prefix := m.opts.CookieName + "="
	var kept []string
	for _, v := range w.Header().Values("Set-Cookie") {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	w.Header().Del("Set-Cookie")
	for _, v := range kept {
		w.Header().Add("Set-Cookie", v)
	}
	http.SetCookie(w, m.cookie(id))
}

// WithBag возвращает контекст с привязанной сессией.
func WithBag(ctx context.Context, bag *Bag) context.Context {
	return context.WithValue(ctx, ctxKey{}, bag)
}

// FromContext возвращает сессию запроса. Если менеджер не подключён,
// возвращается пустая сессия без хранилища: читать можно, писать нельзя.
func FromContext(ctx context.Context) *Bag {
	if bag, ok := ctx.Value(ctxKey{}).(*Bag); ok && bag != nil {
		return bag
	}
	return newBag("", nil, 0, nil)
}

// PrincipalFrom возвращает типизированную сессию запроса.
func PrincipalFrom(ctx context.Context) models.Principal {
	return FromContext(ctx).Principal()
}

// NewBag создаёт сессию вне HTTP-запроса, например в тестах обработчиков.
func NewBag(id string, store Store, ttl time.Duration, values map[string]string) *Bag {
	return newBag(id, store, ttl, values)
}

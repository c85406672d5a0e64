package web

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/gorilla/csrf"

	"github.com/magabrotheeeer/fitplanhub-web/internal/backend"
	"github.com/magabrotheeeer/fitplanhub-web/internal/cache"
	"github.com/magabrotheeeer/fitplanhub-web/internal/config"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/view"
	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitplanhub-web/internal/session"
)

// sweepInterval период очистки просроченных сессий и лимитеров.
const sweepInterval = 10 * time.Minute

// App веб-клиент FitPlanHub.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	cache   *cache.Cache
	memory  *session.MemoryStore
	limiter *middlewarectx.Limiter
}

// New собирает приложение по конфигу.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.web.New"

	a := &App{logger: logger}

	var store session.Store
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.cache = cacheRedis
		store = session.NewRedisStore(cacheRedis)
	default:
		a.memory = session.NewMemoryStore()
		store = a.memory
	}

	renderer, err := view.New(logger)
	if err != nil {
		a.closeCache()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	protect, err := csrfMiddleware(cfg.CSRF, logger)
	if err != nil {
		a.closeCache()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.limiter = middlewarectx.NewLimiter(cfg.RPS, cfg.Burst)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger: logger,
		Client: backend.NewClient(cfg.BaseURL, cfg.Backend.Timeout, logger),
		View:   renderer,
		Sessions: session.NewManager(store, session.Options{
			CookieName: cfg.CookieName,
			TTL:        cfg.TTL,
			Secure:     cfg.Session.Secure,
		}, logger),
		Limiter:      a.limiter,
		CSRF:         protect,
		LandingLimit: cfg.LandingLimit,
		TrustProxy:   cfg.TrustProxy,
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			a.closeCache()
			return err
		case <-ticker.C:
			a.sweep()
		case <-ctx.Done():
			timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			a.logger.Info("shutting down HTTP server gracefully")
			err := a.server.Shutdown(timeoutCtx)
			a.closeCache()
			return err
		}
	}
}

// sweep удаляет просроченные сессии из памяти и сбрасывает лимитеры.
func (a *App) sweep() {
	a.limiter.Reset()
	if a.memory == nil {
		return
	}
	removed := a.memory.Sweep()
	a.logger.Debug("sessions swept",
		slog.Int("removed", removed),
		slog.Int("active", a.memory.Len()),
	)
}

func (a *App) closeCache() {
	if a.cache == nil {
		return
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
}

// csrfMiddleware защищает формы от CSRF. Без ключа в конфиге ключ
// генерируется при старте, и токены не переживают перезапуск.
func csrfMiddleware(cfg config.CSRF, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	key := []byte(cfg.AuthKey)
	if len(key) == 0 {
		logger.Warn("csrf.auth_key is not set, using a random key")
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("csrf.auth_key must be 32 bytes, got %d", len(key))
	}

	protect := csrf.Protect(key,
		csrf.Secure(cfg.Secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed",
				slog.String("path", r.URL.Path),
				sl.Err(csrf.FailureReason(r)),
			)
			http.Error(w, "Forbidden - invalid form token. Please reload the page and try again.", http.StatusForbidden)
		})),
	)
	if cfg.Secure {
		return protect, nil
	}

	// Без TLS проверка Referer на https-схему отключается.
	return func(next http.Handler) http.Handler {
		h := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}, nil
}

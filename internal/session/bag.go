package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/jwt"
	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
)

// Ключи, которые клиент хранит в сессии после входа.
const (
	KeyToken        = "token"
	KeyUserID       = "userId"
	KeyUserRole     = "userRole"
	KeyUserEmail    = "userEmail"
	KeyUserName     = "userName"
	KeyTrainerID    = "trainerId"
	KeyTrainerRole  = "trainerRole"
	KeyTrainerEmail = "trainerEmail"
	KeyTrainerName  = "trainerName"
	KeyFlash        = "flash"
)

// ErrDetached возвращается при записи в Bag, не привязанный к хранилищу.
var ErrDetached = errors.New("session bag is not attached to a store")

// Bag набор ключей одной сессии. Каждая запись сразу сохраняется в Store.
type Bag struct {
	mu     sync.RWMutex
	id     string
	store  Store
	ttl    time.Duration
	values map[string]string
	// onRenew выставляет cookie с новым идентификатором.
	onRenew func(id string)
}

func newBag(id string, store Store, ttl time.Duration, values map[string]string) *Bag {
	if values == nil {
		values = make(map[string]string)
	}
	return &Bag{id: id, store: store, ttl: ttl, values: values}
}

// ID возвращает идентификатор сессии.
func (b *Bag) ID() string {
	return b.id
}

// Get возвращает значение ключа или пустую строку.
func (b *Bag) Get(key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.values[key]
}

// Values возвращает копию всех ключей.
func (b *Bag) Values() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.values)
}

// Set записывает один ключ.
func (b *Bag) Set(ctx context.Context, key, value string) error {
	return b.SetAll(ctx, map[string]string{key: value})
}

// SetAll записывает несколько ключей одним сохранением.
func (b *Bag) SetAll(ctx context.Context, values map[string]string) error {
	const op = "session.Bag.SetAll"

	b.mu.Lock()
	defer b.mu.Unlock()

	next := maps.Clone(b.values)
	maps.Copy(next, values)
	if err := b.persist(ctx, next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	b.values = next
	return nil
}

// Renew записывает ключи под новым идентификатором и удаляет старую запись.
// Вызывается при входе, чтобы идентификатор, известный до входа, не давал
// доступа к авторизованной сессии.
func (b *Bag) Renew(ctx context.Context, values map[string]string) error {
	const op = "session.Bag.Renew"

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.store == nil {
		return fmt.Errorf("%s: %w", op, ErrDetached)
	}

	next := maps.Clone(b.values)
	maps.Copy(next, values)
	id := uuid.NewString()
	if err := b.store.Save(ctx, id, next, b.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := b.store.Destroy(ctx, b.id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	b.id = id
	b.values = next
	if b.onRenew != nil {
		b.onRenew(id)
	}
	return nil
}

// Delete удаляет ключ.
func (b *Bag) Delete(ctx context.Context, key string) error {
	const op = "session.Bag.Delete"

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.values[key]; !ok {
		return nil
	}
	next := maps.Clone(b.values)
	delete(next, key)
	if err := b.persist(ctx, next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	b.values = next
	return nil
}

// Pop возвращает значение ключа и удаляет его.
func (b *Bag) Pop(ctx context.Context, key string) (string, error) {
	value := b.Get(key)
	if value == "" {
		return "", nil
	}
	return value, b.Delete(ctx, key)
}

// Clear удаляет все ключи сессии, в том числе не связанные со входом.
func (b *Bag) Clear(ctx context.Context) error {
	const op = "session.Bag.Clear"

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.store == nil {
		return fmt.Errorf("%s: %w", op, ErrDetached)
	}
	if err := b.store.Destroy(ctx, b.id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	b.values = make(map[string]string)
	return nil
}

func (b *Bag) persist(ctx context.Context, values map[string]string) error {
	if b.store == nil {
		return ErrDetached
	}
	return b.store.Save(ctx, b.id, values, b.ttl)
}

// Principal собирает типизированное представление сессии.
// Роль берётся из userRole, а при его отсутствии из trainerRole.
func (b *Bag) Principal() models.Principal {
	b.mu.RLock()
	defer b.mu.RUnlock()

	p := models.Principal{Token: b.values[KeyToken]}

	role := b.values[KeyUserRole]
	if role == "" {
		role = b.values[KeyTrainerRole]
	}
	p.Role = models.Role(role)

	switch p.Role {
	case models.RoleTrainer:
		p.ID = b.values[KeyTrainerID]
		p.Name = b.values[KeyTrainerName]
		p.Email = b.values[KeyTrainerEmail]
	default:
		p.ID = b.values[KeyUserID]
		p.Name = b.values[KeyUserName]
		p.Email = b.values[KeyUserEmail]
	}

	if claims, err := jwt.Inspect(p.Token); err == nil {
		if exp, ok := claims.Expiry(); ok {
			p.ExpiresAt = exp.UTC()
			p.Expired = claims.Expired(time.Now())
		}
	}
	return p
}

// LoginKeys возвращает пять ключей, которые сохраняются после входа с ролью role.
func LoginKeys(role models.Role, res models.LoginResult) map[string]string {
	prefix := "user"
	if role == models.RoleTrainer {
		prefix = "trainer"
	}
	return map[string]string{
		KeyToken:         res.Token,
		prefix + "Id":    fmt.Sprintf("%d", res.ID),
		prefix + "Role":  string(res.Role),
		prefix + "Email": res.Email,
		prefix + "Name":  res.FullName,
	}
}

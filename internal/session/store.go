// Package session реализует серверное хранилище сессий браузера.
//
// Браузер получает только непрозрачный идентификатор сессии в cookie,
// а сами ключи (token, userRole и т.д.) лежат в Store: в памяти процесса
// или в redis. Для обработчиков сессия выглядит как плоский набор
// строковых ключей (Bag) с типизированным представлением Principal.
package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"
)

// ErrNotFound возвращается, если сессии с таким идентификатором нет или она истекла.
var ErrNotFound = errors.New("session not found")

// Store описывает хранилище значений сессий.
type Store interface {
	// Load возвращает значения сессии или ErrNotFound.
	Load(ctx context.Context, id string) (map[string]string, error)
	// Save целиком перезаписывает значения сессии и продлевает её на ttl.
	Save(ctx context.Context, id string, values map[string]string, ttl time.Duration) error
	// Destroy удаляет сессию. Удаление отсутствующей сессии не ошибка.
	Destroy(ctx context.Context, id string) error
}

type memoryEntry struct {
	values    map[string]string
	expiresAt time.Time
}

// MemoryStore хранит сессии в памяти процесса.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore создаёт пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Load возвращает копию значений сессии.
func (s *MemoryStore) Load(_ context.Context, id string) (map[string]string, error) {
	const op = "session.MemoryStore.Load"

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return maps.Clone(entry.values), nil
}

// Save сохраняет копию values.
func (s *MemoryStore) Save(_ context.Context, id string, values map[string]string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = memoryEntry{
		values:    maps.Clone(values),
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Destroy удаляет сессию.
func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// Sweep удаляет истёкшие сессии и возвращает их количество.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len возвращает количество хранимых сессий, включая ещё не удалённые истёкшие.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Package credentials хранит пару токенов доступа и обновления между перезапусками процесса.
package credentials

import (
	"context"
	"sync"

	"github.com/mmeshcher/storefront/internal/model"
)

// Фиксированные ключи хранилища.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// Store описывает долговременное хранилище пары токенов.
// Save и Clear записывают или удаляют оба ключа атомарно.
type Store interface {
	Load(ctx context.Context) (model.Credentials, bool, error)
	Save(ctx context.Context, c model.Credentials) error
	Clear(ctx context.Context) error
	AccessToken(ctx context.Context) (string, error)
}

// MemoryStore хранит токены в памяти процесса.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore создаёт пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string, 2)}
}

// Load возвращает сохранённую пару. Второе значение false, если токена доступа нет.
func (m *MemoryStore) Load(ctx context.Context) (model.Credentials, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	access, ok := m.values[KeyAccessToken]
	if !ok || access == "" {
		return model.Credentials{}, false, nil
	}
	return model.Credentials{Access: access, Refresh: m.values[KeyRefreshToken]}, true, nil
}

// Save сохраняет пару токенов.
func (m *MemoryStore) Save(ctx context.Context, c model.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[KeyAccessToken] = c.Access
	m.values[KeyRefreshToken] = c.Refresh
	return nil
}

// Clear удаляет оба токена.
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, KeyAccessToken)
	delete(m.values, KeyRefreshToken)
	return nil
}

// AccessToken возвращает текущий токен доступа или пустую строку.
func (m *MemoryStore) AccessToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[KeyAccessToken], nil
}

// Get возвращает значение по ключу.
func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/jwebster45206/dungeon-engine/internal/engine"
)

// MockStorage is an in-memory Storage for tests.
type MockStorage struct {
	mu        sync.RWMutex
	games     map[string]*engine.Game
	pingError error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{games: make(map[string]*engine.Game)}
}

// SetPingError configures the mock to fail on ping.
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveGame(ctx context.Context, id string, g *engine.Game) error {
	if g == nil {
		return errors.New("game cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[id] = g
	return nil
}

func (m *MockStorage) LoadGame(ctx context.Context, id string) (*engine.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.games[id], nil
}

func (m *MockStorage) DeleteGame(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

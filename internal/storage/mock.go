package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/voidecho/engine/pkg/state"
)

// MockStorage is an in-memory Storage implementation for tests.
type MockStorage struct {
	mu     sync.Mutex
	saves  map[uuid.UUID]*state.GameState
	echoes []string

	PingError   error
	SaveError   error
	LoadError   error
	DeleteError error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		saves: make(map[uuid.UUID]*state.GameState),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.PingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	gs.UpdatedAt = time.Now()
	saved, err := gs.Clone()
	if err != nil {
		return err
	}
	m.saves[id] = saved
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	gs, ok := m.saves[id]
	if !ok {
		return nil, nil
	}
	return gs.Clone()
}

func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saves, id)
	return nil
}

func (m *MockStorage) LoadEchoes(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.echoes))
	copy(out, m.echoes)
	return out, nil
}

func (m *MockStorage) SaveEchoes(ctx context.Context, echoes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.echoes = make([]string, len(echoes))
	copy(m.echoes, echoes)
	return nil
}

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/voidecho/engine/internal/services"
	"github.com/voidecho/engine/internal/storage"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager tracks live sessions by game id. Sessions are created by
// character creation or by loading a save; the manager never invents one.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	oracle services.Oracle
	store  storage.Storage
	logger *slog.Logger
}

func NewManager(oracle services.Oracle, store storage.Storage, logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		oracle:   oracle,
		store:    store,
		logger:   logger,
	}
}

// Create starts a fresh run and registers it.
func (m *Manager) Create(ctx context.Context, params NewGameParams) (*Session, error) {
	sess, err := New(ctx, m.oracle, m.store, m.logger, params)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()
	return sess, nil
}

// Get returns a live session, reviving it from storage if needed. A
// corrupt save surfaces as storage.ErrCorruptSave; the caller starts over.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	if sess, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return sess, nil
	}
	m.mu.Unlock()

	gs, err := m.store.LoadGameState(ctx, id)
	if err != nil {
		return nil, err
	}
	if gs == nil {
		return nil, ErrSessionNotFound
	}

	sess := Resume(gs, m.oracle, m.store, m.logger)
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing, nil
	}
	m.sessions[id] = sess
	return sess, nil
}

// Drop removes a session from the live set without touching storage.
func (m *Manager) Drop(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Wait blocks until background work of every live session has finished.
func (m *Manager) Wait() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()
	for _, s := range sessions {
		s.Wait()
	}
}

package session

import (
	"context"
	"sync"
	"time"

	"github.com/quizfunnel/quizfunnel/internal/engine"
)

// DefaultTTL bounds how long an abandoned session lingers.
const DefaultTTL = 30 * time.Minute

// Store keeps live session state between requests. Implementations must
// satisfy engine.SessionStore and must hand out copies, never shared
// pointers.
type Store = engine.SessionStore

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
}

type entry struct {
	st      *engine.State
	expires time.Time
}

func NewInMemoryStore(ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memoryStore{sessions: map[string]entry{}, ttl: ttl}
}

func (m *memoryStore) Put(_ context.Context, st *engine.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[st.ID] = entry{st: st.Clone(), expires: time.Now().Add(m.ttl)}
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*engine.State, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || time.Now().After(e.expires) {
		return nil, engine.ErrSessionNotFound
	}
	return e.st.Clone(), nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

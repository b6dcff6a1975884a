package session

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/jobcards-api/internal/domain/entity"
	"github.com/jhoicas/jobcards-api/internal/domain/repository"
)

var _ repository.SessionStore = (*MemoryStore)(nil)

type memoryEntry struct {
	session  entity.Session
	deadline time.Time
}

// MemoryStore sesiones en memoria del proceso (cuando no hay REDIS_ADDR).
// Las sesiones vencidas se descartan al leerlas.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryStore crea un store vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

// Save guarda la sesión durante ttl. ttl <= 0 significa sin vencimiento propio.
func (m *MemoryStore) Save(_ context.Context, s *entity.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{session: *s}
	if ttl > 0 {
		e.deadline = m.now().Add(ttl)
	}
	m.sessions[s.ID] = e
	return nil
}

// Get devuelve (nil, nil) si la sesión no existe o venció.
func (m *MemoryStore) Get(_ context.Context, id string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	if !e.deadline.IsZero() && !m.now().Before(e.deadline) {
		delete(m.sessions, id)
		return nil, nil
	}
	s := e.session
	return &s, nil
}

// Delete es idempotente.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len número de sesiones guardadas (incluye vencidas aún no leídas).
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

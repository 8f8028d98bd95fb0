package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"cadastro-service/internal/observability"
)

// ErrSessaoNaoEncontrada indica sessão inexistente ou expirada.
var ErrSessaoNaoEncontrada = errors.New("sessão não encontrada ou expirada")

// Sessao guarda o usuário logado e suas permissões.
type Sessao struct {
	ID         string          `json:"sessionId"`
	Usuario    Usuario         `json:"usuario"`
	Permissoes json.RawMessage `json:"permissoes"`
	ExpiraEm   time.Time       `json:"expiraEm"`
}

// SessionStore persiste sessões com expiração.
type SessionStore interface {
	Save(ctx context.Context, s *Sessao, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Sessao, error)
	Delete(ctx context.Context, id string) error
}

// ---------------------- memória ----------------------

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	sessao   Sessao
	expireAt time.Time
}

// NewMemoryStore cria um store em memória, usado quando não há Redis configurado.
func NewMemoryStore() SessionStore {
	return &memoryStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (m *memoryStore) Save(_ context.Context, s *Sessao, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = memoryEntry{sessao: *s, expireAt: m.now().Add(ttl)}
	observability.SessionOperations.WithLabelValues("save", "success").Inc()
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*Sessao, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || !m.now().Before(entry.expireAt) {
		if ok {
			m.mu.Lock()
			delete(m.sessions, id)
			m.mu.Unlock()
		}
		observability.SessionOperations.WithLabelValues("get", "miss").Inc()
		return nil, ErrSessaoNaoEncontrada
	}

	observability.SessionOperations.WithLabelValues("get", "hit").Inc()
	s := entry.sessao
	return &s, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	observability.SessionOperations.WithLabelValues("delete", "success").Inc()
	return nil
}

package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/shopintake/internal/domain"
)

// sessionStoreInMemory хранит админ-сессии в памяти процесса.
// Сервис обслуживает одну админку, внешнее хранилище сессий не требуется.
type sessionStoreInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Session
}

// NewSessionStore создаёт in-memory реализацию SessionStore.
func NewSessionStore() domain.SessionStore {
	return &sessionStoreInMemory{
		items: make(map[string]domain.Session),
	}
}

func (s *sessionStoreInMemory) Put(session domain.Session) error {
	if strings.TrimSpace(session.Token) == "" {
		return domain.ErrSessionTokenRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[session.Token] = session
	return nil
}

func (s *sessionStoreInMemory) Get(token string) (domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Session{}, domain.ErrSessionTokenRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.items[token]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionStoreInMemory) Delete(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrSessionTokenRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[token]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.items, token)
	return nil
}

func (s *sessionStoreInMemory) DeleteExpired(before time.Time, limit int) (int, error) {
	if before.IsZero() {
		before = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.items {
		if session.ExpiresAt.After(before) {
			continue
		}

		delete(s.items, token)
		removed++
		if limit > 0 && removed >= limit {
			break
		}
	}

	return removed, nil
}

var _ domain.SessionStore = (*sessionStoreInMemory)(nil)

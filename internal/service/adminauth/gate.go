package adminauth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopintake/internal/domain"
)

const (
	// DefaultPassword используется, если секрет не задан в конфигурации.
	// Значение небезопасно и годится только для локальной разработки;
	// в production обязателен собственный пароль через ADMIN_PASSWORD.
	DefaultPassword = "admin123"

	// DefaultSessionTTL — срок жизни админ-сессии по умолчанию.
	DefaultSessionTTL = 12 * time.Hour

	sessionTokenBytes = 32
)

// Gate сверяет пароль администратора и выдаёт сессионные токены.
// Намеренно минимален: без блокировок, rate limiting и хеширования.
type Gate struct {
	secret   string
	sessions domain.SessionStore
	ttl      time.Duration
	logger   *log.Entry
}

// NewGate создаёт гейт. Пустой секрет заменяется документированным
// небезопасным значением по умолчанию.
func NewGate(secret string, sessions domain.SessionStore, ttl time.Duration, logger *log.Entry) *Gate {
	if secret == "" {
		secret = DefaultPassword
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = log.WithField("component", "admin-gate")
	}
	return &Gate{
		secret:   secret,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
	}
}

// Login сверяет пароль (точное, регистрозависимое сравнение) и при успехе
// выдаёт новую сессию.
func (g *Gate) Login(password string) (domain.Session, error) {
	if password != g.secret {
		g.logger.Warn("admin login rejected: invalid password")
		return domain.Session{}, domain.ErrInvalidPassword
	}

	token, err := newToken()
	if err != nil {
		return domain.Session{}, fmt.Errorf("generate session token: %w", err)
	}

	now := time.Now().UTC()
	session := domain.Session{
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(g.ttl),
	}
	if err := g.sessions.Put(session); err != nil {
		return domain.Session{}, fmt.Errorf("store session: %w", err)
	}

	g.logger.WithField("expires_at", session.ExpiresAt).Info("admin session issued")
	return session, nil
}

// Authenticate проверяет токен и срок действия сессии.
// Просроченная сессия удаляется и считается несуществующей.
func (g *Gate) Authenticate(token string) (domain.Session, error) {
	session, err := g.sessions.Get(token)
	if err != nil {
		return domain.Session{}, err
	}

	if session.Expired(time.Now().UTC()) {
		_ = g.sessions.Delete(session.Token)
		return domain.Session{}, domain.ErrSessionExpired
	}

	return session, nil
}

// Logout отзывает сессию; незнакомый токен не считается ошибкой.
func (g *Gate) Logout(token string) error {
	err := g.sessions.Delete(token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	return err
}

func newToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"learn-assist/internal/cache"
	"learn-assist/internal/domain"
	"learn-assist/internal/logger"
	"learn-assist/internal/util"

	"go.uber.org/zap"
)

// ErrClosed is returned by mutating calls on a closed Store.
var ErrClosed = errors.New("session store is closed")

// Manager opens per-session stores over a shared cache.
type Manager struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewManager returns a Manager. A zero ttl keeps session records until logout.
func NewManager(cache domain.Cache, ttl time.Duration) *Manager {
	return &Manager{cache: cache, ttl: ttl}
}

// NewSessionID returns a fresh, unguessable-enough session identifier.
func (m *Manager) NewSessionID() string {
	return util.NewULID()
}

// Open restores the session's user from the cache.
func (m *Manager) Open(ctx context.Context, sessionID string) (*Store, error) {
	return Open(ctx, m.cache, sessionID, m.ttl)
}

// Store owns the current user of one browser session. All methods are safe for
// concurrent use; writes reach the cache before the in-memory copy changes.
type Store struct {
	cache     domain.Cache
	sessionID string
	key       string
	ttl       time.Duration

	mu     sync.RWMutex
	user   *domain.User
	closed bool
}

// Open loads the persisted user, if any. A record that cannot be decoded is
// deleted and the session starts logged out.
func Open(ctx context.Context, c domain.Cache, sessionID string, ttl time.Duration) (*Store, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, domain.NewInvalidInputError("session id is required")
	}
	s := &Store{
		cache:     c,
		sessionID: sessionID,
		key:       cache.SessionUserKey(sessionID),
		ttl:       ttl,
	}

	raw, err := c.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || strings.TrimSpace(user.Email) == "" {
		log := logger.ForSession(sessionID)
		log.Warn("Discarding malformed session record", zap.Error(err))
		if delErr := c.Delete(ctx, s.key); delErr != nil {
			log.Warn("Failed to delete malformed session record", zap.Error(delErr))
		}
		return s, nil
	}

	s.user = &user
	return s, nil
}

func (s *Store) SessionID() string {
	return s.sessionID
}

// Login replaces the current user with a new record built from email and fields.
func (s *Store) Login(ctx context.Context, email string, fields domain.ProfileFields) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, domain.ValidationErrors{domain.NewMissingFieldError("email")}
	}
	user := domain.User{Email: email}.Merge(fields)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.User{}, ErrClosed
	}
	if err := s.persist(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.user = &user
	return user, nil
}

// Logout clears the user from memory and from the cache.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.cache.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", s.sessionID, err)
	}
	s.user = nil
	return nil
}

// UpdateProfile merges fields into the current user. It reports false, without
// error, when nobody is logged in.
func (s *Store) UpdateProfile(ctx context.Context, fields domain.ProfileFields) (domain.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.User{}, false, ErrClosed
	}
	if s.user == nil {
		return domain.User{}, false, nil
	}
	updated := s.user.Merge(fields)
	if err := s.persist(ctx, updated); err != nil {
		return domain.User{}, false, err
	}
	s.user = &updated
	return updated, true, nil
}

// User returns a copy of the current user.
func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Close ends the store's lifecycle. The persisted record is kept.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Store) persist(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}
	if err := s.cache.Set(ctx, s.key, string(data), s.ttl); err != nil {
		return fmt.Errorf("failed to persist session %s: %w", s.sessionID, err)
	}
	return nil
}

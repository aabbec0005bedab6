package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"novare.app/internal/kv"
	"novare.app/internal/obs"
)

// sessionKey is the store key holding the single current session.
const sessionKey = "auth_session"

// SessionTTL is the fixed lifetime of an issued session. Expiry is a logical
// timestamp evaluated on read, not an active timer.
const SessionTTL = 24 * time.Hour

// SessionManager issues, restores and destroys the persisted session.
type SessionManager struct {
	store kv.Store
	now   func() time.Time
}

// SessionOption configures SessionManager behavior.
type SessionOption func(*SessionManager)

// WithClock injects the time source, for expiry tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionManager) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessionManager constructs a SessionManager over the given store.
func NewSessionManager(store kv.Store, opts ...SessionOption) *SessionManager {
	s := &SessionManager{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession persists a fresh session for the profile, overwriting any
// prior session. Write failures are surfaced so the caller can retry.
func (s *SessionManager) CreateSession(ctx context.Context, profile UserProfile) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		User:      profile,
		ExpiresAt: s.now().UTC().Add(SessionTTL),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, sessionKey, data); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// LoadSession restores the persisted session, or nil when there is none.
// Absent, unreadable, corrupt and expired records all resolve to logged-out;
// corrupt and expired records are deleted the first time they are observed.
func (s *SessionManager) LoadSession(ctx context.Context) (*Session, error) {
	data, err := s.store.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			obs.IncSessionLoad("miss")
			return nil, nil
		}
		// Fail open to logged-out, never to logged-in.
		obs.LogEvent(map[string]any{
			"level": "warn",
			"msg":   "session store unreadable, treating as logged out",
			"error": err.Error(),
		})
		obs.IncSessionLoad("miss")
		return nil, nil
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.ExpiresAt.IsZero() {
		_ = s.store.Delete(ctx, sessionKey)
		obs.IncSessionLoad("corrupt")
		return nil, nil
	}
	if !sess.ExpiresAt.After(s.now()) {
		_ = s.store.Delete(ctx, sessionKey)
		obs.IncSessionLoad("expired")
		return nil, nil
	}
	obs.IncSessionLoad("hit")
	return &sess, nil
}

// Logout deletes the persisted session unconditionally. Idempotent.
func (s *SessionManager) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// HasPermission reports whether the session grants the named permission.
// A nil session and unknown permission names are never granted.
func (s *SessionManager) HasPermission(sess *Session, name string) bool {
	if sess == nil {
		return false
	}
	return sess.User.Permissions.Has(name)
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/matchdesk/internal/client/api"
	"github.com/dmitrijs2005/matchdesk/internal/client/models"
	"github.com/dmitrijs2005/matchdesk/internal/client/storage"
	"github.com/dmitrijs2005/matchdesk/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Keys under which the session is persisted.
const (
	KeyToken = "access_token"
	KeyUser  = "user"
)

type Credentials struct {
	Username string
	Password string
}

// Authenticator exchanges credentials for a token. *api.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
}

// Session is a point-in-time copy of the manager's state.
type Session struct {
	Token       string
	Identity    *models.Identity
	Initialized bool
}

type Manager struct {
	store storage.Store
	auth  Authenticator
	log   logging.Logger

	once  sync.Once
	ready chan struct{}

	mu          sync.RWMutex
	token       string
	identity    *models.Identity
	initialized bool
}

func NewManager(store storage.Store, auth Authenticator, log logging.Logger) *Manager {
	if log == nil {
		log = logging.Nop()
	}
	return &Manager{
		store: store,
		auth:  auth,
		log:   log.With("component", "session"),
		ready: make(chan struct{}),
	}
}

// Initialize restores the persisted session. It runs once; later calls
// return immediately. A token without a readable identity, or the reverse,
// is treated as corrupt and both keys are removed.
func (m *Manager) Initialize(ctx context.Context) {
	m.once.Do(func() {
		token, identity := m.restore(ctx)

		m.mu.Lock()
		m.token = token
		m.identity = identity
		m.initialized = true
		m.mu.Unlock()

		close(m.ready)
	})
}

func (m *Manager) restore(ctx context.Context) (string, *models.Identity) {
	rawToken, err := m.store.Get(ctx, KeyToken)
	if err != nil {
		m.log.Warn(ctx, "session token unreadable", "error", err)
		m.discard(ctx)
		return "", nil
	}
	rawUser, err := m.store.Get(ctx, KeyUser)
	if err != nil {
		m.log.Warn(ctx, "session identity unreadable", "error", err)
		m.discard(ctx)
		return "", nil
	}

	if rawToken == nil && rawUser == nil {
		return "", nil
	}

	identity, err := decodeIdentity(rawToken, rawUser)
	if err != nil {
		m.log.Warn(ctx, "discarding stored session", "error", err)
		m.discard(ctx)
		return "", nil
	}

	token := string(rawToken)
	if exp, ok := expiry(token); ok && exp.Before(time.Now()) {
		m.log.Info(ctx, "restored token is past its expiry", "expired_at", exp)
	}
	m.log.Info(ctx, "session restored", "user", identity.Username)
	return token, identity
}

func decodeIdentity(rawToken, rawUser []byte) (*models.Identity, error) {
	if len(rawToken) == 0 {
		return nil, fmt.Errorf("%w: identity without token", ErrStorageCorruption)
	}
	if rawUser == nil {
		return nil, fmt.Errorf("%w: token without identity", ErrStorageCorruption)
	}
	var identity models.Identity
	if err := json.Unmarshal(rawUser, &identity); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageCorruption, err)
	}
	if !identity.Valid() {
		return nil, fmt.Errorf("%w: incomplete identity", ErrStorageCorruption)
	}
	return &identity, nil
}

func (m *Manager) discard(ctx context.Context) {
	if err := m.store.Delete(ctx, KeyToken, KeyUser); err != nil {
		m.log.Warn(ctx, "failed to clear stored session", "error", err)
	}
}

// Ready is closed once Initialize has finished.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Token implements api.TokenSource.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized || m.token == "" {
		return "", false
	}
	return m.token, true
}

func (m *Manager) Identity() (models.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized || m.identity == nil {
		return models.Identity{}, false
	}
	return *m.identity, true
}

// IsAuthenticated requires both a token and an identity.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized && m.token != "" && m.identity != nil
}

func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Session{Token: m.token, Initialized: m.initialized}
	if m.identity != nil {
		id := *m.identity
		s.Identity = &id
	}
	return s
}

// Login authenticates and, on success, replaces the session in storage and
// in memory. On failure the previous session is left exactly as it was.
func (m *Manager) Login(ctx context.Context, creds Credentials) (models.Identity, error) {
	m.Initialize(ctx)

	resp, err := m.auth.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		m.log.Warn(ctx, "login failed", "user", creds.Username, "error", err)
		if isCredentialError(err) {
			return models.Identity{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return models.Identity{}, fmt.Errorf("login error: %w", err)
	}

	if resp == nil || resp.AccessToken == "" || !resp.User.Valid() {
		return models.Identity{}, fmt.Errorf("login error: %w", ErrIncompleteLogin)
	}

	identity := *resp.User
	rawUser, err := json.Marshal(identity)
	if err != nil {
		return models.Identity{}, fmt.Errorf("login error: %w", err)
	}

	if err := m.store.SetMany(ctx, map[string][]byte{
		KeyToken: []byte(resp.AccessToken),
		KeyUser:  rawUser,
	}); err != nil {
		m.log.Warn(ctx, "session not persisted", "error", err)
	}

	m.mu.Lock()
	m.token = resp.AccessToken
	m.identity = &identity
	m.mu.Unlock()

	m.log.Info(ctx, "logged in", "user", identity.Username)
	return identity, nil
}

// Logout forgets the session in memory and in storage. Calling it with no
// session is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	hadSession := m.token != "" || m.identity != nil
	m.token = ""
	m.identity = nil
	m.mu.Unlock()

	m.discard(ctx)
	if hadSession {
		m.log.Info(ctx, "logged out")
	}
}

// ExpiresAt reads the exp claim of the current token without verifying its
// signature. It is for display only; the server stays the judge of validity.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	token, ok := m.Token()
	if !ok {
		return time.Time{}, false
	}
	return expiry(token)
}

func expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func isCredentialError(err error) bool {
	apiErr, ok := api.AsError(err)
	if !ok {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return false
}

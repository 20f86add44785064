package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/matchdesk/internal/client/api"
	"github.com/dmitrijs2005/matchdesk/internal/client/models"
	"github.com/dmitrijs2005/matchdesk/internal/client/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	resp *models.LoginResponse
	err  error

	calls        int
	LastUsername string
	LastPassword string
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (*models.LoginResponse, error) {
	f.calls++
	f.LastUsername, f.LastPassword = username, password
	return f.resp, f.err
}

type flakyStore struct {
	*storage.MemoryStore
	getErr    error
	setErr    error
	deleteErr error
	gets      atomic.Int32
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.gets.Add(1)
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *flakyStore) SetMany(ctx context.Context, values map[string][]byte) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.MemoryStore.SetMany(ctx, values)
}

func (s *flakyStore) Delete(ctx context.Context, keys ...string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.MemoryStore.Delete(ctx, keys...)
}

func newStore(t *testing.T, values map[string]string) *flakyStore {
	t.Helper()
	s := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	for k, v := range values {
		require.NoError(t, s.Set(context.Background(), k, []byte(v)))
	}
	return s
}

func okLogin(token string, id int64, name string) *fakeAuth {
	return &fakeAuth{resp: &models.LoginResponse{
		Status:      "success",
		AccessToken: token,
		User:        &models.Identity{ID: id, Username: name},
	}}
}

func stored(t *testing.T, s storage.Store, key string) []byte {
	t.Helper()
	v, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

func TestToken_NotAuthoritativeBeforeInitialize(t *testing.T) {
	store := newStore(t, map[string]string{KeyToken: "tok", KeyUser: `{"id":1,"username":"ops"}`})
	m := NewManager(store, &fakeAuth{}, nil)

	_, ok := m.Token()
	assert.False(t, ok)
	assert.False(t, m.Initialized())
	assert.False(t, m.IsAuthenticated())

	select {
	case <-m.Ready():
		t.Fatal("ready before initialize")
	default:
	}

	m.Initialize(context.Background())
	<-m.Ready()

	tok, ok := m.Token()
	require.True(t, ok)
	assert.Equal(t, "tok", tok)
	assert.True(t, m.IsAuthenticated())

	id, ok := m.Identity()
	require.True(t, ok)
	assert.Equal(t, models.Identity{ID: 1, Username: "ops"}, id)
}

func TestInitialize_EmptyStore(t *testing.T) {
	m := NewManager(newStore(t, nil), &fakeAuth{}, nil)
	m.Initialize(context.Background())

	assert.True(t, m.Initialized())
	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, Session{Initialized: true}, m.Snapshot())
}

func TestInitialize_ClearsInconsistentState(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{name: "token without identity", values: map[string]string{KeyToken: "tok"}},
		{name: "identity without token", values: map[string]string{KeyUser: `{"id":1,"username":"ops"}`}},
		{name: "empty token", values: map[string]string{KeyToken: "", KeyUser: `{"id":1,"username":"ops"}`}},
		{name: "unparseable identity", values: map[string]string{KeyToken: "tok", KeyUser: `{not json`}},
		{name: "incomplete identity", values: map[string]string{KeyToken: "tok", KeyUser: `{"id":0}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t, tt.values)
			m := NewManager(store, &fakeAuth{}, nil)
			m.Initialize(context.Background())

			assert.True(t, m.Initialized())
			assert.False(t, m.IsAuthenticated())
			_, ok := m.Token()
			assert.False(t, ok)

			assert.Nil(t, stored(t, store, KeyToken))
			assert.Nil(t, stored(t, store, KeyUser))
		})
	}
}

func TestInitialize_StorageFailureMeansNoSession(t *testing.T) {
	store := newStore(t, nil)
	store.getErr = errors.New("disk gone")
	store.deleteErr = errors.New("disk gone")

	m := NewManager(store, &fakeAuth{}, nil)
	m.Initialize(context.Background())

	assert.True(t, m.Initialized())
	assert.False(t, m.IsAuthenticated())
}

func TestInitialize_RunsOnce(t *testing.T) {
	store := newStore(t, map[string]string{KeyToken: "tok", KeyUser: `{"id":1,"username":"ops"}`})
	m := NewManager(store, &fakeAuth{}, nil)

	m.Initialize(context.Background())
	reads := store.gets.Load()
	m.Initialize(context.Background())
	m.Initialize(context.Background())

	assert.Equal(t, reads, store.gets.Load())
}

func TestLogin_PersistsTokenAndIdentity(t *testing.T) {
	store := newStore(t, nil)
	auth := okLogin("jwt-1", 9, "maria")
	m := NewManager(store, auth, nil)
	m.Initialize(context.Background())

	id, err := m.Login(context.Background(), Credentials{Username: "maria", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, models.Identity{ID: 9, Username: "maria"}, id)
	assert.Equal(t, "maria", auth.LastUsername)
	assert.Equal(t, "pw", auth.LastPassword)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, []byte("jwt-1"), stored(t, store, KeyToken))
	assert.JSONEq(t, `{"id":9,"username":"maria"}`, string(stored(t, store, KeyUser)))

	restored := NewManager(store, &fakeAuth{}, nil)
	restored.Initialize(context.Background())
	assert.Equal(t, m.Snapshot(), restored.Snapshot())
}

func TestLogin_InitializesFirst(t *testing.T) {
	m := NewManager(newStore(t, nil), okLogin("t", 1, "ops"), nil)

	_, err := m.Login(context.Background(), Credentials{Username: "ops", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, m.Initialized())
	assert.True(t, m.IsAuthenticated())
}

func TestLogin_FailureKeepsPriorSession(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		invalidCred bool
	}{
		{name: "bad password", err: &api.Error{Kind: api.KindUnauthenticated, StatusCode: 401, Message: "Invalid credentials"}, invalidCred: true},
		{name: "validation", err: &api.Error{Kind: api.KindClient, StatusCode: 400, Message: "This field may not be blank."}, invalidCred: true},
		{name: "server down", err: &api.Error{Kind: api.KindServer, StatusCode: 503, Message: "maintenance"}},
		{name: "network", err: &api.Error{Kind: api.KindNetwork, Message: api.MsgNetwork}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t, map[string]string{KeyToken: "old", KeyUser: `{"id":1,"username":"ops"}`})
			m := NewManager(store, &fakeAuth{err: tt.err}, nil)
			m.Initialize(context.Background())
			before := m.Snapshot()

			_, err := m.Login(context.Background(), Credentials{Username: "x", Password: "y"})
			require.Error(t, err)
			assert.Equal(t, tt.invalidCred, errors.Is(err, ErrInvalidCredentials))

			apiErr, ok := api.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.err, apiErr)

			assert.Equal(t, before, m.Snapshot())
			assert.Equal(t, []byte("old"), stored(t, store, KeyToken))
		})
	}
}

func TestLogin_IncompleteResponse(t *testing.T) {
	m := NewManager(newStore(t, nil), &fakeAuth{resp: &models.LoginResponse{AccessToken: "t"}}, nil)

	_, err := m.Login(context.Background(), Credentials{Username: "ops"})
	require.ErrorIs(t, err, ErrIncompleteLogin)
	assert.False(t, m.IsAuthenticated())
}

func TestLogin_PersistFailureStillAuthenticates(t *testing.T) {
	store := newStore(t, nil)
	store.setErr = errors.New("read-only")
	m := NewManager(store, okLogin("t", 2, "ops"), nil)

	_, err := m.Login(context.Background(), Credentials{Username: "ops", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, m.IsAuthenticated())
}

func TestLogout_Idempotent(t *testing.T) {
	store := newStore(t, nil)
	m := NewManager(store, okLogin("t", 2, "ops"), nil)
	ctx := context.Background()

	_, err := m.Login(ctx, Credentials{Username: "ops", Password: "pw"})
	require.NoError(t, err)

	m.Logout(ctx)
	first := m.Snapshot()
	m.Logout(ctx)

	assert.Equal(t, first, m.Snapshot())
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, stored(t, store, KeyToken))
	assert.Nil(t, stored(t, store, KeyUser))
}

func TestLogout_StorageFailureStillClearsMemory(t *testing.T) {
	store := newStore(t, map[string]string{KeyToken: "tok", KeyUser: `{"id":1,"username":"ops"}`})
	m := NewManager(store, &fakeAuth{}, nil)
	m.Initialize(context.Background())
	store.deleteErr = errors.New("locked")

	m.Logout(context.Background())
	assert.False(t, m.IsAuthenticated())
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	m := NewManager(newStore(t, nil), okLogin(signed, 1, "ops"), nil)
	_, ok := m.ExpiresAt()
	assert.False(t, ok, "no session yet")

	_, err = m.Login(context.Background(), Credentials{Username: "ops", Password: "pw"})
	require.NoError(t, err)

	got, ok := m.ExpiresAt()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	opaque := NewManager(newStore(t, nil), okLogin("not-a-jwt", 1, "ops"), nil)
	_, err = opaque.Login(context.Background(), Credentials{Username: "ops", Password: "pw"})
	require.NoError(t, err)
	_, ok = opaque.ExpiresAt()
	assert.False(t, ok)
}

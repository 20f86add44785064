package fetchers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/matchdesk/internal/client/api"
	"github.com/dmitrijs2005/matchdesk/internal/client/models"
)

type staticTokens string

func (t staticTokens) Token() (string, bool) { return string(t), t != "" }

type apiServer struct {
	srv   *httptest.Server
	hits  atomic.Int32
	mu    sync.Mutex
	reply func(w http.ResponseWriter, r *http.Request)
	last  *http.Request
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()
	s := &apiServer{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.mu.Lock()
		s.last = r
		reply := s.reply
		s.mu.Unlock()
		reply(w, r)
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *apiServer) respond(code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reply = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}

func (s *apiServer) lastRequest() *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *apiServer) client() *api.Client {
	return api.NewClient(s.srv.URL, api.WithTokenSource(staticTokens("tok")))
}

const usersBody = `{
  "status": "success",
  "matchmaker": {"id": 7, "username": "alice"},
  "total_users": 2,
  "data": [
    {"id": 1, "first_name": "Ann", "last_name": "Lee", "age": 30, "city": "Austin", "marital_status": "single"},
    {"id": 2, "first_name": "Bob", "last_name": "Ray", "age": 41, "city": "Boston", "marital_status": "divorced", "income": 120000}
  ]
}`

func TestUsers_FetchReplacesSnapshot(t *testing.T) {
	s := newAPIServer(t)
	s.respond(http.StatusOK, usersBody)

	u := NewUsers(s.client(), nil)
	require.NoError(t, u.Fetch(context.Background(), UsersParams{Limit: 50}))

	req := s.lastRequest()
	assert.Equal(t, "/users/", req.URL.Path)
	assert.Equal(t, "50", req.URL.Query().Get("limit"))
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))

	st := u.State()
	assert.True(t, st.Loaded)
	assert.False(t, st.Loading)
	assert.NoError(t, st.Err)
	assert.Equal(t, 2, st.Data.TotalUsers)
	require.NotNil(t, st.Data.Matchmaker)
	assert.Equal(t, "alice", st.Data.Matchmaker.Username)
	require.Len(t, u.Users(), 2)
	assert.Equal(t, "120000", string(u.Users()[1].Income))
	assert.Equal(t, 50, st.Params.Limit)
}

func TestUsers_ClearResetsState(t *testing.T) {
	s := newAPIServer(t)
	s.respond(http.StatusOK, usersBody)

	u := NewUsers(s.client(), nil)
	require.NoError(t, u.Fetch(context.Background(), UsersParams{Limit: 50}))
	u.Clear()

	st := u.State()
	assert.False(t, st.Loaded)
	assert.Empty(t, u.Users())
	assert.Nil(t, st.Data.Matchmaker)
	assert.Zero(t, st.Data.TotalUsers)
	assert.Zero(t, st.Params.Limit)
}

func TestUsers_NoLimitOmitsQuery(t *testing.T) {
	s := newAPIServer(t)
	s.respond(http.StatusOK, usersBody)

	u := NewUsers(s.client(), nil)
	require.NoError(t, u.Fetch(context.Background(), UsersParams{}))
	assert.False(t, s.lastRequest().URL.Query().Has("limit"))
}

func TestUsers_FailureKeepsPreviousData(t *testing.T) {
	s := newAPIServer(t)
	s.respond(http.StatusOK, usersBody)

	u := NewUsers(s.client(), nil)
	require.NoError(t, u.Fetch(context.Background(), UsersParams{Limit: 10}))

	s.respond(http.StatusInternalServerError, `{"detail":"db down"}`)
	err := u.Refetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrServer))

	st := u.State()
	assert.False(t, st.Loading)
	assert.Equal(t, err, st.Err)
	assert.Len(t, st.Data.Users, 2, "previous snapshot must survive a failed fetch")
	assert.Equal(t, "10", s.lastRequest().URL.Query().Get("limit"), "refetch reuses the last parameters")
}

func TestUsers_NonSuccessStatusIsAnError(t *testing.T) {
	s := newAPIServer(t)
	s.respond(http.StatusOK, `{"status":"error","data":[]}`)

	u := NewUsers(s.client(), nil)
	err := u.Fetch(context.Background(), UsersParams{})
	require.Error(t, err)
	assert.Equal(t, api.KindServer, api.KindOf(err))
	assert.False(t, u.State().Loaded)
}

func TestUsers_EmptyDataIsEmptySlice(t *testing.T) {
	s := newAPIServer(t)
	s.respond(http.StatusOK, `{"status":"success","total_users":0}`)

	u := NewUsers(s.client(), nil)
	require.NoError(t, u.Fetch(context.Background(), UsersParams{}))
	assert.NotNil(t, u.Users())
	assert.Empty(t, u.Users())
}

// gatedRequester answers with the users body registered for the request's
// limit and waits on the limit's gate first, when one exists.
type gatedRequester struct {
	mu     sync.Mutex
	gates  map[string]chan struct{}
	bodies map[string]models.UsersResponse
	calls  int
}

func (g *gatedRequester) Do(ctx context.Context, _ string, opts api.RequestOptions, out any) error {
	limit := opts.Query.Get("limit")
	g.mu.Lock()
	g.calls++
	gate := g.gates[limit]
	body := g.bodies[limit]
	g.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func TestUsers_StaleResponseIsDropped(t *testing.T) {
	gate := make(chan struct{})
	g := &gatedRequester{
		gates: map[string]chan struct{}{"1": gate},
		bodies: map[string]models.UsersResponse{
			"1": {Status: models.StatusSuccess, TotalUsers: 1, Data: []models.User{{ID: 1}}},
			"2": {Status: models.StatusSuccess, TotalUsers: 2, Data: []models.User{{ID: 1}, {ID: 2}}},
		},
	}
	u := NewUsers(g, nil)

	slow := make(chan error, 1)
	go func() { slow <- u.Fetch(context.Background(), UsersParams{Limit: 1}) }()

	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.calls == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, u.Fetch(context.Background(), UsersParams{Limit: 2}))
	close(gate)

	err := <-slow
	assert.ErrorIs(t, err, ErrSuperseded)

	st := u.State()
	assert.Equal(t, 2, st.Data.TotalUsers)
	assert.Equal(t, 2, st.Params.Limit)
	assert.False(t, st.Loading)
	assert.NoError(t, st.Err)
}

const matchesBody = `{
  "status": "success",
  "target_user": {"id": 3, "name": "Ann Lee", "age": 30, "gender": "female", "interested_in": null},
  "total_potential_matches": 12,
  "returned_matches": 1,
  "matches": [
    {"id": 9, "name": "Sam Fox", "first_name": "Sam", "last_name": "Fox", "age": 33, "city": "Dallas",
     "match_score": 8.5, "compatibility_reasons": ["Same city"], "distance_km": null, "profile_completeness": 0.9}
  ]
}`

func TestMatches_Fetch(t *testing.T) {
	s := newAPIServer(t)
	s.respond(http.StatusOK, matchesBody)

	m := NewMatches(s.client(), nil)
	require.NoError(t, m.Fetch(context.Background(), MatchesParams{ID: 3, Limit: 10}))

	q := s.lastRequest().URL.Query()
	assert.Equal(t, "/matches/", s.lastRequest().URL.Path)
	assert.Equal(t, "3", q.Get("id"))
	assert.Equal(t, "10", q.Get("limit"))

	st := m.State()
	require.NotNil(t, st.Data.TargetUser)
	assert.Nil(t, st.Data.TargetUser.InterestedIn)
	assert.Equal(t, 12, st.Data.TotalPotentialMatches)
	assert.Equal(t, 1, st.Data.ReturnedMatches)
	require.Len(t, m.Matches(), 1)
	assert.InDelta(t, 8.5, m.Matches()[0].MatchScore, 1e-9)
	assert.Nil(t, m.Matches()[0].DistanceKM)
}

func TestMatches_MissingIDSendsNothing(t *testing.T) {
	s := newAPIServer(t)
	s.respond(http.StatusOK, matchesBody)

	m := NewMatches(s.client(), nil)
	err := m.Fetch(context.Background(), MatchesParams{Limit: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrMissingParameter)
	assert.Equal(t, api.KindMissingParameter, api.KindOf(err))
	assert.Equal(t, int32(0), s.hits.Load())
	assert.Equal(t, err, m.State().Err)

	err = m.Refetch(context.Background())
	assert.ErrorIs(t, err, api.ErrMissingParameter, "refetch without a prior fetch has no id")
	assert.Equal(t, int32(0), s.hits.Load())
}

func TestMatches_ClearResetsState(t *testing.T) {
	s := newAPIServer(t)
	s.respond(http.StatusOK, matchesBody)

	m := NewMatches(s.client(), nil)
	require.NoError(t, m.Fetch(context.Background(), MatchesParams{ID: 3}))
	m.Clear()

	st := m.State()
	assert.False(t, st.Loaded)
	assert.Nil(t, st.Data.Matches)
	assert.Nil(t, st.Data.TargetUser)
	assert.Zero(t, st.Params.ID)
}

func TestMatches_UnauthenticatedWithoutToken(t *testing.T) {
	s := newAPIServer(t)
	s.respond(http.StatusOK, matchesBody)

	m := NewMatches(api.NewClient(s.srv.URL), nil)
	err := m.Fetch(context.Background(), MatchesParams{ID: 3})
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
	assert.Equal(t, int32(0), s.hits.Load())
}

func TestStats_Fetch(t *testing.T) {
	s := newAPIServer(t)
	s.respond(http.StatusOK, `{"stats":{"totalUsers":40,"totalMatches":12,"averageMatchScore":7.5}}`)

	st := NewStats(s.client(), nil)
	require.NoError(t, st.Fetch(context.Background()))
	assert.Equal(t, "/dashboard/stats/", s.lastRequest().URL.Path)

	got := st.State()
	assert.True(t, got.Loaded)
	assert.Equal(t, 40, got.Data.TotalUsers)

	s.respond(http.StatusBadGateway, ``)
	require.Error(t, st.Fetch(context.Background()))
	assert.Equal(t, 40, st.State().Data.TotalUsers)
}

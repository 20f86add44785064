package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/matchdesk/internal/client/api"
	"github.com/dmitrijs2005/matchdesk/internal/client/models"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(DefaultConfig(), nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postLogin(t *testing.T, ts *httptest.Server, username, password string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	body, err := json.Marshal(models.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+APIPrefix+"/login/", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func login(t *testing.T, ts *httptest.Server, username, password string) models.LoginResponse {
	t.Helper()
	resp, raw := postLogin(t, ts, username, password)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	b, err := json.Marshal(raw)
	require.NoError(t, err)
	var lr models.LoginResponse
	require.NoError(t, json.Unmarshal(b, &lr))
	return lr
}

func get(t *testing.T, ts *httptest.Server, path, token string, out any) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+APIPrefix+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestLogin_RegistersThenAuthenticates(t *testing.T) {
	_, ts := newTestServer(t)

	first := login(t, ts, "alice", "s3cret")
	assert.Equal(t, models.StatusSuccess, first.Status)
	assert.Equal(t, "Account created", first.Message)
	require.True(t, first.User.Valid())
	assert.NotEmpty(t, first.AccessToken)

	second := login(t, ts, "alice", "s3cret")
	assert.Equal(t, "Login successful", second.Message)
	assert.Equal(t, first.User.ID, second.User.ID)

	other := login(t, ts, "bob", "pw")
	assert.NotEqual(t, first.User.ID, other.User.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, ts := newTestServer(t)
	login(t, ts, "alice", "s3cret")

	resp, body := postLogin(t, ts, "alice", "nope")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `["Invalid password"]`, string(body["password"]))
}

func TestLogin_MissingFields(t *testing.T) {
	_, ts := newTestServer(t)

	resp, body := postLogin(t, ts, "  ", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "username")
	assert.Contains(t, body, "password")
}

func TestLogin_Deactivated(t *testing.T) {
	s, ts := newTestServer(t)
	lr := login(t, ts, "alice", "s3cret")
	require.True(t, s.Deactivate("alice"))
	assert.False(t, s.Deactivate("nobody"))

	resp, body := postLogin(t, ts, "alice", "s3cret")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `["Account is deactivated"]`, string(body["email"]))

	assert.Equal(t, http.StatusForbidden, get(t, ts, "/users/", lr.AccessToken, nil))
}

func TestUsers_RequiresBearerToken(t *testing.T) {
	_, ts := newTestServer(t)

	var body map[string]string
	assert.Equal(t, http.StatusUnauthorized, get(t, ts, "/users/", "", &body))
	assert.Equal(t, "Authentication credentials were not provided.", body["detail"])

	assert.Equal(t, http.StatusUnauthorized, get(t, ts, "/users/", "garbage", nil))

	forged, err := GenerateToken(1, []byte("other-secret"), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(t, ts, "/users/", forged, nil))
}

func TestUsers_Limit(t *testing.T) {
	_, ts := newTestServer(t)
	lr := login(t, ts, "alice", "s3cret")

	var resp models.UsersResponse
	require.Equal(t, http.StatusOK, get(t, ts, "/users/?limit=50", lr.AccessToken, &resp))
	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.Len(t, resp.Data, 50)
	assert.Equal(t, 100, resp.TotalUsers)
	require.NotNil(t, resp.Matchmaker)
	assert.Equal(t, "alice", resp.Matchmaker.Username)
	for _, u := range resp.Data {
		assert.Equal(t, lr.User.ID, u.Matchmaker)
		require.NotNil(t, u.MatchmakerInfo)
	}

	require.Equal(t, http.StatusOK, get(t, ts, "/users/", lr.AccessToken, &resp))
	assert.Len(t, resp.Data, 100)

	var errBody map[string]string
	assert.Equal(t, http.StatusBadRequest, get(t, ts, "/users/?limit=-3", lr.AccessToken, &errBody))
	assert.NotEmpty(t, errBody["error"])
}

func TestMatches(t *testing.T) {
	_, ts := newTestServer(t)
	lr := login(t, ts, "alice", "s3cret")

	var errBody map[string]string
	assert.Equal(t, http.StatusBadRequest, get(t, ts, "/matches/", lr.AccessToken, &errBody))
	assert.Equal(t, "User ID is required", errBody["error"])
	assert.Equal(t, http.StatusNotFound, get(t, ts, "/matches/?id=9999", lr.AccessToken, nil))

	var resp models.MatchesResponse
	require.Equal(t, http.StatusOK, get(t, ts, "/matches/?id=1&limit=5", lr.AccessToken, &resp))
	require.NotNil(t, resp.TargetUser)
	assert.Equal(t, int64(1), resp.TargetUser.ID)
	assert.LessOrEqual(t, len(resp.Matches), 5)
	assert.Equal(t, len(resp.Matches), resp.ReturnedMatches)
	assert.GreaterOrEqual(t, resp.TotalPotentialMatches, resp.ReturnedMatches)

	for i, m := range resp.Matches {
		assert.NotEqual(t, int64(1), m.ID)
		assert.GreaterOrEqual(t, m.MatchScore, 0.0)
		assert.LessOrEqual(t, m.MatchScore, 10.0)
		if resp.TargetUser.InterestedIn != nil {
			assert.Equal(t, *resp.TargetUser.InterestedIn, m.Gender)
		}
		if i > 0 {
			assert.GreaterOrEqual(t, resp.Matches[i-1].MatchScore, m.MatchScore, "sorted by score")
		}
	}
}

func TestStats(t *testing.T) {
	_, ts := newTestServer(t)
	lr := login(t, ts, "alice", "s3cret")

	var st models.DashboardStats
	require.Equal(t, http.StatusOK, get(t, ts, "/dashboard/stats/", lr.AccessToken, &st))
	assert.Equal(t, 100, st.TotalUsers)
	assert.GreaterOrEqual(t, st.TotalMatches, st.SuccessfulMatches)
	assert.LessOrEqual(t, st.ActiveUsers, st.TotalUsers)
	assert.Greater(t, st.AverageMatchScore, 0.0)
}

func TestHitsAndRequestID(t *testing.T) {
	s, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + APIPrefix + "/users/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	get(t, ts, "/matches/?id=1", "", nil)
	assert.Equal(t, 1, s.Hits(APIPrefix+"/users/"))
	assert.Equal(t, 1, s.Hits(APIPrefix+"/matches/"))
	assert.Equal(t, 0, s.Hits(APIPrefix+"/dashboard/stats/"))
}

func TestProfilesAreDeterministic(t *testing.T) {
	ref := DefaultConfig().Reference
	a := generateProfiles(30, 7, ref)
	b := generateProfiles(30, 7, ref)
	c := generateProfiles(30, 8, ref)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	for i, p := range a {
		assert.Equal(t, int64(i+1), p.ID)
		assert.GreaterOrEqual(t, p.Age, 20)
		assert.LessOrEqual(t, p.Age, 50)
		assert.NotEmpty(t, p.Email)
	}
}

func TestScore(t *testing.T) {
	base := models.User{ID: 1, Gender: "male", Age: 30, City: "Pune", Country: "India",
		Religion: "jainism", WantKids: "yes", LanguagesKnown: []int64{1, 2}}
	twin := models.User{ID: 2, Gender: "female", Age: 31, City: "Pune", Country: "India",
		Religion: "jainism", WantKids: "yes", LanguagesKnown: []int64{2}}

	sc, reasons, dist := score(base, twin)
	assert.Equal(t, 10.0, sc)
	assert.Len(t, reasons, 5)
	require.NotNil(t, dist)
	assert.Zero(t, *dist)

	far := models.User{ID: 3, Gender: "female", Age: 50, City: "Toronto", Country: "Canada"}
	sc, reasons, dist = score(base, far)
	assert.Equal(t, 3.0, sc)
	assert.Empty(t, reasons)
	assert.Nil(t, dist)

	assert.True(t, eligible(base, twin))
	assert.False(t, eligible(base, base))
	assert.False(t, eligible(base, models.User{ID: 9, Gender: "male"}))
	assert.True(t, eligible(models.User{ID: 9, Gender: "other"}, base))
}

func TestToken(t *testing.T) {
	secret := []byte("k")
	tok, err := GenerateToken(42, secret, time.Hour)
	require.NoError(t, err)

	id, err := UserIDFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = UserIDFromToken(tok, []byte("other"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateToken(42, secret, -time.Minute)
	require.NoError(t, err)
	_, err = UserIDFromToken(expired, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 42}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = UserIDFromToken(unsigned, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestServe_StopsOnCancel(t *testing.T) {
	s := NewServer(DefaultConfig(), nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + APIPrefix + "/dashboard/stats/"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusUnauthorized
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestWithAPIClient(t *testing.T) {
	_, ts := newTestServer(t)
	c := api.NewClient(ts.URL + APIPrefix)

	lr, err := c.Login(context.Background(), "carol", "pw")
	require.NoError(t, err)
	assert.Equal(t, "carol", lr.User.Username)

	_, err = c.Login(context.Background(), "carol", "wrong")
	require.Error(t, err)
	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid password", apiErr.UserMessage())
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

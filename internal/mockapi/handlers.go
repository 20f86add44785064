package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/matchdesk/internal/client/models"
)

type ctxKey string

const accountKey ctxKey = "account"

const (
	defaultMatchesLimit = 10
	maxLimit            = 1000
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body.")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	fields := map[string][]string{}
	if req.Username == "" {
		fields["username"] = []string{"This field is required."}
	}
	if req.Password == "" {
		fields["password"] = []string{"This field is required."}
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	acc, created, err := s.accounts.authenticate(req.Username, req.Password)
	switch {
	case errors.Is(err, ErrWrongPassword):
		s.log.Warn(r.Context(), "login rejected", "username", req.Username)
		writeFieldErrors(w, map[string][]string{"password": {"Invalid password"}})
		return
	case errors.Is(err, ErrInactive):
		writeFieldErrors(w, map[string][]string{"email": {"Account is deactivated"}})
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Login failed.")
		return
	}

	token, err := GenerateToken(acc.ID, s.cfg.Secret, s.cfg.TokenTTL)
	if err != nil {
		s.log.Error(r.Context(), "token signing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed.")
		return
	}

	msg := "Login successful"
	if created {
		msg = "Account created"
		s.log.Info(r.Context(), "operator registered", "id", acc.ID, "username", acc.Username)
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{
		Status:      models.StatusSuccess,
		Message:     msg,
		User:        &models.Identity{ID: acc.ID, Username: acc.Username},
		AccessToken: token,
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		id, err := UserIDFromToken(token, s.cfg.Secret)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Given token not valid for any user")
			return
		}
		acc, ok := s.accounts.get(id)
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Given token not valid for any user")
			return
		}
		if !acc.Active {
			writeDetail(w, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}

		ctx := context.WithValue(r.Context(), accountKey, acc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accountFrom(ctx context.Context) account {
	acc, _ := ctx.Value(accountKey).(account)
	return acc
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, 0)
	if !ok {
		return
	}

	acc := accountFrom(r.Context())
	me := &models.Identity{ID: acc.ID, Username: acc.Username}

	data := s.profiles
	if limit > 0 && limit < len(data) {
		data = data[:limit]
	}
	out := make([]models.User, len(data))
	for i, u := range data {
		u.Matchmaker = me.ID
		u.MatchmakerInfo = me
		out[i] = u
	}

	writeJSON(w, http.StatusOK, models.UsersResponse{
		Status:     models.StatusSuccess,
		Matchmaker: me,
		TotalUsers: len(s.profiles),
		Data:       out,
	})
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "User ID must be a positive integer")
		return
	}
	limit, ok := parseLimit(w, r, defaultMatchesLimit)
	if !ok {
		return
	}

	target, found := s.byID[id]
	if !found {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, findMatches(target, s.profiles, limit))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stats)
}

// parseLimit reads ?limit=, writing a 400 and returning false when it is
// not a positive integer.
func parseLimit(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return min(n, maxLimit), true
}

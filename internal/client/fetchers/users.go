package fetchers

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/matchdesk/internal/client/models"
	"github.com/dmitrijs2005/matchdesk/internal/logging"
)

type UsersParams struct {
	// Limit caps the number of profiles; zero leaves it to the server.
	Limit int
}

type UsersData struct {
	Users      []models.User
	Matchmaker *models.Identity
	TotalUsers int
}

type Users struct {
	req Requester
	log logging.Logger
	res resource[UsersParams, UsersData]
}

func NewUsers(req Requester, log logging.Logger) *Users {
	if log == nil {
		log = logging.Nop()
	}
	return &Users{req: req, log: log.With("component", "users")}
}

// Fetch loads the operator's customer profiles.
func (u *Users) Fetch(ctx context.Context, p UsersParams) error {
	gen := u.res.begin(p)

	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}

	var resp models.UsersResponse
	err := u.req.Do(ctx, "/users/", withQuery(q), &resp)
	if err == nil && resp.Status != models.StatusSuccess {
		err = unexpectedStatus(resp.Status, "Failed to fetch users")
	}

	data := UsersData{Users: resp.Data, Matchmaker: resp.Matchmaker, TotalUsers: resp.TotalUsers}
	if data.Users == nil {
		data.Users = []models.User{}
	}

	err = u.res.finish(gen, data, err)
	switch {
	case errors.Is(err, ErrSuperseded):
		u.log.Debug(ctx, "dropped stale users response", "limit", p.Limit)
	case err != nil:
		u.log.Error(ctx, "users fetch failed", "error", err)
	default:
		u.log.Info(ctx, "users loaded", "count", len(data.Users), "total", data.TotalUsers)
	}
	return err
}

// Refetch repeats the last Fetch with the same parameters.
func (u *Users) Refetch(ctx context.Context) error {
	return u.Fetch(ctx, u.res.lastParams())
}

// Clear drops the snapshot, the error and any response still in flight.
func (u *Users) Clear() {
	u.res.reset()
}

func (u *Users) State() State[UsersParams, UsersData] {
	return u.res.snapshot()
}

func (u *Users) Users() []models.User {
	return u.res.snapshot().Data.Users
}

package fetchers

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/matchdesk/internal/client/api"
	"github.com/dmitrijs2005/matchdesk/internal/client/models"
	"github.com/dmitrijs2005/matchdesk/internal/logging"
)

type MatchesParams struct {
	// ID of the profile to find matches for. Required.
	ID    int64
	Limit int
}

type MatchesData struct {
	Matches               []models.Match
	TargetUser            *models.TargetUser
	TotalPotentialMatches int
	ReturnedMatches       int
}

type Matches struct {
	req Requester
	log logging.Logger
	res resource[MatchesParams, MatchesData]
}

func NewMatches(req Requester, log logging.Logger) *Matches {
	if log == nil {
		log = logging.Nop()
	}
	return &Matches{req: req, log: log.With("component", "matches")}
}

// Fetch loads the computed matches for p.ID. Without an ID nothing is sent
// and an api.ErrMissingParameter error is returned.
func (m *Matches) Fetch(ctx context.Context, p MatchesParams) error {
	if p.ID <= 0 {
		return m.res.fail(api.MissingParameter("User ID"))
	}

	gen := m.res.begin(p)

	q := url.Values{}
	q.Set("id", strconv.FormatInt(p.ID, 10))
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}

	var resp models.MatchesResponse
	err := m.req.Do(ctx, "/matches/", withQuery(q), &resp)
	if err == nil && resp.Status != models.StatusSuccess {
		err = unexpectedStatus(resp.Status, "Failed to fetch matches")
	}

	data := MatchesData{
		Matches:               resp.Matches,
		TargetUser:            resp.TargetUser,
		TotalPotentialMatches: resp.TotalPotentialMatches,
		ReturnedMatches:       resp.ReturnedMatches,
	}
	if data.Matches == nil {
		data.Matches = []models.Match{}
	}

	err = m.res.finish(gen, data, err)
	switch {
	case errors.Is(err, ErrSuperseded):
		m.log.Debug(ctx, "dropped stale matches response", "id", p.ID)
	case err != nil:
		m.log.Error(ctx, "matches fetch failed", "id", p.ID, "error", err)
	default:
		m.log.Info(ctx, "matches loaded", "id", p.ID, "returned", data.ReturnedMatches)
	}
	return err
}

// Refetch repeats the last Fetch. It fails with ErrMissingParameter if
// there was none.
func (m *Matches) Refetch(ctx context.Context) error {
	return m.Fetch(ctx, m.res.lastParams())
}

// Clear drops the snapshot, the error and any response still in flight.
func (m *Matches) Clear() {
	m.res.reset()
}

func (m *Matches) State() State[MatchesParams, MatchesData] {
	return m.res.snapshot()
}

func (m *Matches) Matches() []models.Match {
	return m.res.snapshot().Data.Matches
}

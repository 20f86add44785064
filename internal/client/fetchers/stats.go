package fetchers

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/matchdesk/internal/client/api"
	"github.com/dmitrijs2005/matchdesk/internal/client/models"
	"github.com/dmitrijs2005/matchdesk/internal/logging"
)

type Stats struct {
	req Requester
	log logging.Logger
	res resource[struct{}, models.DashboardStats]
}

func NewStats(req Requester, log logging.Logger) *Stats {
	if log == nil {
		log = logging.Nop()
	}
	return &Stats{req: req, log: log.With("component", "stats")}
}

func (s *Stats) Fetch(ctx context.Context) error {
	gen := s.res.begin(struct{}{})

	var resp models.DashboardStats
	err := s.req.Do(ctx, "/dashboard/stats/", api.RequestOptions{}, &resp)

	err = s.res.finish(gen, resp, err)
	if err != nil && !errors.Is(err, ErrSuperseded) {
		s.log.Error(ctx, "stats fetch failed", "error", err)
	}
	return err
}

func (s *Stats) State() State[struct{}, models.DashboardStats] {
	return s.res.snapshot()
}

// Package dashboard assembles the client core behind one facade: the
// session, the request pipeline, the diagnostics aggregator, the entity
// fetchers and the two listings. Every failure that reaches the operator
// is recorded in the aggregator as a plain message.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/matchdesk/internal/client/api"
	"github.com/dmitrijs2005/matchdesk/internal/client/config"
	"github.com/dmitrijs2005/matchdesk/internal/client/diag"
	"github.com/dmitrijs2005/matchdesk/internal/client/fetchers"
	"github.com/dmitrijs2005/matchdesk/internal/client/models"
	"github.com/dmitrijs2005/matchdesk/internal/client/session"
	"github.com/dmitrijs2005/matchdesk/internal/client/storage"
	"github.com/dmitrijs2005/matchdesk/internal/client/table"
	"github.com/dmitrijs2005/matchdesk/internal/filex"
	"github.com/dmitrijs2005/matchdesk/internal/logging"
)

// MemoryDSN selects the in-memory session store instead of a database file.
const MemoryDSN = ":memory:"

type Dashboard struct {
	cfg *config.Config
	log logging.Logger

	store  storage.Store
	closer io.Closer

	Session *session.Manager
	API     *api.Client
	Diag    *diag.Aggregator

	Users   *fetchers.Users
	Matches *fetchers.Matches
	Stats   *fetchers.Stats

	UserTable  *table.Engine[models.User]
	MatchTable *table.Engine[models.Match]
}

type options struct {
	store      storage.Store
	httpClient *http.Client
	logger     logging.Logger
	diagOpts   []diag.Option
}

type Option func(*options)

// WithStore overrides the session store chosen from the config. The caller
// keeps ownership of it.
func WithStore(s storage.Store) Option {
	return func(o *options) { o.store = s }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithDiagOptions(opts ...diag.Option) Option {
	return func(o *options) { o.diagOpts = append(o.diagOpts, opts...) }
}

// New wires the components for cfg. Call Start before use and Close after.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Dashboard, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = logging.Nop()
	}

	d := &Dashboard{cfg: cfg, log: log, store: o.store}

	if d.store == nil {
		switch cfg.SessionDBPath {
		case "", MemoryDSN:
			d.store = storage.NewMemoryStore()
		default:
			if err := filex.EnsureParentDir(cfg.SessionDBPath); err != nil {
				return nil, fmt.Errorf("session store: %w", err)
			}
			s, err := storage.OpenSQLite(ctx, cfg.SessionDBPath)
			if err != nil {
				return nil, fmt.Errorf("session store: %w", err)
			}
			d.store = s
			d.closer = s
		}
	}

	clientOpts := []api.Option{api.WithLogger(log), api.WithTimeout(cfg.RequestTimeout)}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(o.httpClient))
	}
	d.API = api.NewClient(cfg.APIBaseURL, clientOpts...)
	d.Session = session.NewManager(d.store, d.API, log)
	// The manager owns the token; the client reads it per request.
	api.WithTokenSource(d.Session)(d.API)

	diagOpts := append([]diag.Option{
		diag.WithLogger(log),
		diag.WithMaxAge(cfg.ErrorMaxAge),
		diag.WithSweepInterval(cfg.SweepInterval),
	}, o.diagOpts...)
	d.Diag = diag.New(diagOpts...)

	d.Users = fetchers.NewUsers(d.API, log)
	d.Matches = fetchers.NewMatches(d.API, log)
	d.Stats = fetchers.NewStats(d.API, log)

	d.UserTable = table.NewUsers(cfg.PageSize)
	d.MatchTable = table.NewMatches(cfg.NestedPageSize)

	return d, nil
}

// Start restores the persisted session and starts expiring old errors.
func (d *Dashboard) Start(ctx context.Context) {
	d.Session.Initialize(ctx)
	d.Diag.Start(ctx)
	if id, ok := d.Session.Identity(); ok {
		d.log.Info(ctx, "session restored", "user", id.Username)
	}
}

func (d *Dashboard) Close() error {
	d.Diag.Close()
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}

func (d *Dashboard) Config() *config.Config {
	return d.cfg
}

func (d *Dashboard) Login(ctx context.Context, username, password string) (models.Identity, error) {
	id, err := d.Session.Login(ctx, session.Credentials{Username: username, Password: password})
	if err != nil {
		if errors.Is(err, session.ErrIncompleteLogin) {
			d.Diag.AddError(api.MsgBadResponse, api.KindServer.String())
		} else {
			d.Diag.HandleAPIError(err)
		}
		return models.Identity{}, err
	}
	d.Diag.ShowSuccess(fmt.Sprintf("Signed in as %s", id.Username))
	return id, nil
}

// Logout ends the session and drops everything fetched under it.
func (d *Dashboard) Logout(ctx context.Context) {
	authenticated := d.Session.IsAuthenticated()
	d.Session.Logout(ctx)
	d.Users.Clear()
	d.Matches.Clear()
	d.UserTable.SetData(nil)
	d.MatchTable.SetData(nil)
	if authenticated {
		d.Diag.ShowInfo("Signed out")
	}
}

// LoadUsers fetches up to limit profiles, the configured default when
// limit is not positive, and feeds them to the user listing.
func (d *Dashboard) LoadUsers(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = d.cfg.UsersLimit
	}
	err := d.Users.Fetch(ctx, fetchers.UsersParams{Limit: limit})
	return d.afterUsers(err)
}

// RetryUsers repeats the last users fetch.
func (d *Dashboard) RetryUsers(ctx context.Context) error {
	return d.afterUsers(d.Users.Refetch(ctx))
}

func (d *Dashboard) afterUsers(err error) error {
	if err != nil {
		return d.report(err)
	}
	d.UserTable.SetData(d.Users.Users())
	return nil
}

// LoadMatches fetches the matches of profile id and feeds the match listing.
func (d *Dashboard) LoadMatches(ctx context.Context, id int64, limit int) error {
	if limit <= 0 {
		limit = d.cfg.MatchesLimit
	}
	err := d.Matches.Fetch(ctx, fetchers.MatchesParams{ID: id, Limit: limit})
	return d.afterMatches(err)
}

func (d *Dashboard) RetryMatches(ctx context.Context) error {
	return d.afterMatches(d.Matches.Refetch(ctx))
}

func (d *Dashboard) afterMatches(err error) error {
	if err != nil {
		return d.report(err)
	}
	d.MatchTable.SetData(d.Matches.Matches())
	return nil
}

func (d *Dashboard) LoadStats(ctx context.Context) error {
	if err := d.Stats.Fetch(ctx); err != nil {
		return d.report(err)
	}
	return nil
}

// Refresh reloads the profiles and the statistics concurrently.
func (d *Dashboard) Refresh(ctx context.Context) error {
	// Plain group: one failure must not cancel the other fetch.
	var g errgroup.Group
	g.Go(func() error { return d.LoadUsers(ctx, 0) })
	g.Go(func() error { return d.LoadStats(ctx) })
	return g.Wait()
}

// report records err for the operator. A superseded response is not a
// failure and yields nil.
func (d *Dashboard) report(err error) error {
	if errors.Is(err, fetchers.ErrSuperseded) {
		return nil
	}
	d.Diag.HandleAPIError(err)
	return err
}

package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/matchdesk/internal/client/dashboard"
	"github.com/dmitrijs2005/matchdesk/internal/client/diag"
	"github.com/dmitrijs2005/matchdesk/internal/client/models"
	"github.com/dmitrijs2005/matchdesk/internal/client/table"
	"github.com/dmitrijs2005/matchdesk/internal/logging"
)

type listing string

const (
	listUsers   listing = "users"
	listMatches listing = "matches"
)

type App struct {
	dash *dashboard.Dashboard
	log  logging.Logger
	out  io.Writer
	in   *prompter

	active listing

	// Set around a table dispatch so that bound actions can fetch.
	actCtx context.Context
	actErr error

	mu      sync.Mutex
	pending []diag.Entry
}

func NewApp(d *dashboard.Dashboard, in io.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	a := &App{
		dash:   d,
		log:    log,
		out:    out,
		in:     newPrompter(in, out),
		active: listUsers,
	}
	a.bindActions()
	return a
}

func (a *App) bindActions() {
	users := a.dash.UserTable
	users.Bind(table.ActionView, func(u models.User) { renderUser(a.out, u) })
	users.Bind(table.ActionEmail, func(u models.User) { a.mailto(u.FirstName+" "+u.LastName, u.Email) })
	users.Bind(table.ActionMatches, func(u models.User) { a.actErr = a.loadMatches(a.actCtx, u.ID, 0) })
	users.Bind(table.ActionEdit, func(u models.User) { a.unsupported("Editing", u.ID) })
	users.Bind(table.ActionDelete, func(u models.User) { a.unsupported("Deleting", u.ID) })
	users.Bind(table.ActionMessage, func(u models.User) { a.unsupported("Messaging", u.ID) })

	matches := a.dash.MatchTable
	matches.Bind(table.ActionView, func(m models.Match) { renderMatch(a.out, m) })
	matches.Bind(table.ActionEmail, func(m models.Match) { a.mailto(m.FirstName+" "+m.LastName, m.Email) })
}

// Run restores the session and serves commands from input until it ends,
// the operator exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.dash.Diag.Subscribe(a.onChange); err != nil {
		return fmt.Errorf("subscribe to diagnostics: %w", err)
	}
	defer func() { _ = a.dash.Diag.Unsubscribe(a.onChange) }()

	fmt.Fprintln(a.out, "Welcome to MatchDesk (type 'help' for commands)")
	if id, ok := a.dash.Session.Identity(); ok {
		fmt.Fprintf(a.out, "Signed in as %s\n", id.Username)
		a.afterCommand(ctx, a.Users(ctx, nil))
	} else {
		fmt.Fprintln(a.out, "Not signed in. Type 'login' to start.")
	}

	runREPL(ctx, a, a.getStatus, a.in, a.out)
	return nil
}

func (a *App) getStatus() string {
	s := ""
	if id, ok := a.dash.Session.Identity(); ok {
		s = id.Username + " "
	}
	return fmt.Sprintf("(%s%s)", s, a.active)
}

func (a *App) isLoggedIn() bool {
	return a.dash.Session.IsAuthenticated()
}

func (a *App) onChange(c diag.Change) {
	if c.Op != diag.OpAdded {
		return
	}
	a.mu.Lock()
	a.pending = append(a.pending, c.Entry)
	a.mu.Unlock()
}

// flush prints diagnostics added since the previous flush.
func (a *App) flush() {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()

	for _, e := range pending {
		renderEntry(a.out, e)
	}
}

func (a *App) mailto(name, email string) {
	if email == "" {
		fmt.Fprintf(a.out, "%s has no email address on file\n", name)
		return
	}
	fmt.Fprintf(a.out, "mailto:%s\n", email)
}

func (a *App) unsupported(what string, id int64) {
	a.dash.Diag.ShowWarning(fmt.Sprintf("%s profile #%d is not available from the console", what, id))
}

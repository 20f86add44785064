package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/matchdesk/internal/client/api"
	"github.com/dmitrijs2005/matchdesk/internal/client/session"
	"github.com/dmitrijs2005/matchdesk/internal/client/table"
)

// afterCommand applies the console's error policy and prints diagnostics.
// Usage mistakes are printed directly; request failures were already
// recorded by the dashboard. A rejected token ends the session; a rejected
// login attempt does not.
func (a *App) afterCommand(ctx context.Context, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrUsage), errors.Is(err, ErrUnknownCommand),
		errors.Is(err, table.ErrUnknownColumn), errors.Is(err, table.ErrUnknownAction):
		fmt.Fprintln(a.out, err)
	case errors.Is(err, ErrNoInput):
	case errors.Is(err, session.ErrInvalidCredentials):
		// a rejected login attempt leaves the current session alone
		a.log.Debug(ctx, "login rejected", "error", err)
	case api.KindOf(err) == api.KindUnauthenticated:
		if a.dash.Session.IsAuthenticated() {
			a.dash.Logout(ctx)
			fmt.Fprintln(a.out, "Session expired. Please log in again.")
		} else {
			fmt.Fprintln(a.out, "Please log in first (type 'login').")
		}
	default:
		a.log.Debug(ctx, "command failed", "error", err)
	}
	a.flush()
}

func (a *App) Login(ctx context.Context, args []string) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		u, err := a.in.Text("Username")
		if err != nil {
			return err
		}
		username = u
	}
	if username == "" {
		return usage("login [username]")
	}

	password, err := a.in.Password("Password")
	if err != nil {
		return err
	}

	if _, err := a.dash.Login(ctx, username, password); err != nil {
		return err
	}
	a.active = listUsers
	return a.Users(ctx, nil)
}

func (a *App) Logout(ctx context.Context) error {
	a.dash.Logout(ctx)
	a.active = listUsers
	return nil
}

func (a *App) Users(ctx context.Context, args []string) error {
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return usage("users [limit]")
		}
		limit = n
	}
	err := a.dash.LoadUsers(ctx, limit)
	if err != nil {
		return err
	}
	a.active = listUsers
	return a.Show()
}

func (a *App) Matches(ctx context.Context, args []string) error {
	var id int64
	limit := 0
	if len(args) > 0 {
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return usage("matches <id> [limit]")
		}
		id = n
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return usage("matches <id> [limit]")
		}
		limit = n
	}
	return a.loadMatches(ctx, id, limit)
}

func (a *App) loadMatches(ctx context.Context, id int64, limit int) error {
	if err := a.dash.LoadMatches(ctx, id, limit); err != nil {
		return err
	}
	a.active = listMatches
	return a.Show()
}

func (a *App) Stats(ctx context.Context) error {
	if err := a.dash.LoadStats(ctx); err != nil {
		return err
	}
	renderStats(a.out, a.dash.Stats.State().Data)
	return nil
}

// Show prints the current page of the active listing.
func (a *App) Show() error {
	if a.active == listMatches {
		title := "Matches"
		if t := a.dash.Matches.State().Data.TargetUser; t != nil {
			title = fmt.Sprintf("Matches for %s (#%d)", t.Name, t.ID)
		}
		renderTable(a.out, title, a.dash.MatchTable.View())
		return nil
	}
	title := "Customers"
	if mm := a.dash.Users.State().Data.Matchmaker; mm != nil {
		title = fmt.Sprintf("Customers of %s", mm.Username)
	}
	renderTable(a.out, title, a.dash.UserTable.View())
	return nil
}

// tableOps is the listing-independent part of table.Engine.
type tableOps interface {
	SetGlobalFilter(string)
	SetStatusFilter(string)
	ToggleSort(table.Column) table.SortSpec
	SetPage(int) int
	NextPage() int
	PrevPage() int
	FirstPage() int
	LastPage() int
}

func (a *App) activeTable() tableOps {
	if a.active == listMatches {
		return a.dash.MatchTable
	}
	return a.dash.UserTable
}

func (a *App) Search(args []string) error {
	a.activeTable().SetGlobalFilter(strings.Join(args, " "))
	return a.Show()
}

func (a *App) Status(args []string) error {
	if len(args) != 1 {
		return usage("status all|active|matched|pending|inactive")
	}
	a.activeTable().SetStatusFilter(args[0])
	return a.Show()
}

func (a *App) Sort(args []string) error {
	if len(args) != 1 {
		return usage("sort name|age|city|marital|status|email|id")
	}
	col, err := table.ParseColumn(args[0])
	if err != nil {
		return err
	}
	a.activeTable().ToggleSort(col)
	return a.Show()
}

func (a *App) Page(args []string) error {
	if len(args) != 1 {
		return usage("page next|prev|first|last|<n>")
	}
	t := a.activeTable()
	switch args[0] {
	case "next", "n":
		t.NextPage()
	case "prev", "p":
		t.PrevPage()
	case "first":
		t.FirstPage()
	case "last":
		t.LastPage()
	default:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("page next|prev|first|last|<n>")
		}
		t.SetPage(n - 1)
	}
	return a.Show()
}

// Act runs a row action on the active listing. A row that is no longer
// listed is reported and otherwise ignored.
func (a *App) Act(ctx context.Context, action table.Action, args []string) error {
	if len(args) != 1 {
		return usage("%s <row id>", action)
	}
	id := args[0]

	a.actCtx, a.actErr = ctx, nil
	defer func() { a.actCtx, a.actErr = nil, nil }()

	var ok bool
	if a.active == listMatches {
		ok = a.dash.MatchTable.Dispatch(action, id)
	} else {
		ok = a.dash.UserTable.Dispatch(action, id)
	}
	if !ok {
		fmt.Fprintf(a.out, "Nothing to %s for row %s\n", action, id)
		return nil
	}
	return a.actErr
}

func (a *App) Errors() error {
	errs := a.dash.Diag.Errors()
	notes := a.dash.Diag.Notifications()
	if len(errs) == 0 && len(notes) == 0 {
		fmt.Fprintln(a.out, "No errors or notifications")
		return nil
	}
	for _, e := range errs {
		renderEntry(a.out, e)
	}
	for _, n := range notes {
		renderEntry(a.out, n)
	}
	return nil
}

func (a *App) Dismiss(args []string) error {
	if len(args) != 1 {
		return usage("dismiss <error id>")
	}
	a.dash.Diag.ClearError(args[0])
	a.dash.Diag.ClearNotification(args[0])
	return nil
}

func (a *App) Clear() error {
	a.dash.Diag.ClearAllErrors()
	a.dash.Diag.ClearAllNotifications()
	return nil
}

// Retry repeats the last fetch of the active listing.
func (a *App) Retry(ctx context.Context) error {
	var err error
	if a.active == listMatches {
		err = a.dash.RetryMatches(ctx)
	} else {
		err = a.dash.RetryUsers(ctx)
	}
	if err != nil {
		return err
	}
	return a.Show()
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/matchdesk/internal/client/table"
	"github.com/dmitrijs2005/matchdesk/internal/logging"
)

// execIface is the command surface the REPL drives. App satisfies it;
// tests use a recording stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Users(ctx context.Context, args []string) error
	Matches(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
	Show() error
	Search(args []string) error
	Status(args []string) error
	Sort(args []string) error
	Page(args []string) error
	Act(ctx context.Context, action table.Action, args []string) error
	Errors() error
	Dismiss(args []string) error
	Clear() error
	Retry(ctx context.Context) error
	afterCommand(ctx context.Context, err error)
}

const (
	helpLoggedOut = "Available commands: login, errors, dismiss, clear, help, exit"
	helpLoggedIn  = `Available commands:
  users [limit]            list profiles
  matches <id> [limit]     list matches of a profile
  stats                    show dashboard statistics
  show                     print the current listing again
  search <text>            filter rows by text (no text clears)
  status <tag|all>         filter rows by status tag
  sort <column>            toggle sorting: asc, desc, off
  page next|prev|first|last|<n>
  view|edit|delete|email|message <row id>
  retry                    repeat the last failed listing fetch
  errors | dismiss <id> | clear
  logout | exit`
)

// runREPL reads commands from in until input ends, the operator types
// "exit" or "quit", or ctx is cancelled. Handler errors are reported
// through afterCommand and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *prompter, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "md %s> ", statusFn())
		line, err := in.readLine()
		if err != nil {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		cmdCtx := logging.ContextWith(ctx, "command", cmd)

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpLoggedIn)
			} else {
				fmt.Fprintln(w, helpLoggedOut)
			}
		case "login":
			cmdErr = a.Login(cmdCtx, args)
		case "logout":
			cmdErr = a.Logout(cmdCtx)
		case "users", "u":
			cmdErr = a.Users(cmdCtx, args)
		case "matches":
			cmdErr = a.Matches(cmdCtx, args)
		case "stats":
			cmdErr = a.Stats(cmdCtx)
		case "show", "ls":
			cmdErr = a.Show()
		case "search", "find":
			cmdErr = a.Search(args)
		case "status":
			cmdErr = a.Status(args)
		case "sort":
			cmdErr = a.Sort(args)
		case "page", "p":
			cmdErr = a.Page(args)
		case "next", "n":
			cmdErr = a.Page([]string{"next"})
		case "prev":
			cmdErr = a.Page([]string{"prev"})
		case "view", "edit", "delete", "email", "message":
			cmdErr = a.Act(cmdCtx, table.Action(cmd), args)
		case "errors":
			cmdErr = a.Errors()
		case "dismiss":
			cmdErr = a.Dismiss(args)
		case "clear":
			cmdErr = a.Clear()
		case "retry":
			cmdErr = a.Retry(cmdCtx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			cmdErr = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		}
		a.afterCommand(cmdCtx, cmdErr)
	}
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/matchdesk/internal/cryptox"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// ErrNoInput is returned when input ends before a prompt was answered.
var ErrNoInput = errors.New("no input")

// prompter reads answers from the same scanner the REPL reads commands from.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
	fd  int
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &prompter{in: bufio.NewScanner(in), out: out, fd: fd}
}

// readLine returns the next input line, trimmed.
func (p *prompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", ErrNoInput
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Text prints prompt and reads one line.
//
//	Username: _
func (p *prompter) Text(prompt string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", prompt); err != nil {
		return "", err
	}
	return p.readLine()
}

// Password reads without echo when input is a terminal and falls back to a
// plain line otherwise, e.g. when input is piped.
func (p *prompter) Password(prompt string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", prompt); err != nil {
		return "", err
	}
	if p.fd < 0 || !isTerminal(p.fd) {
		return p.readLine()
	}
	pw, err := readPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	defer cryptox.Wipe(pw)
	return string(pw), nil
}

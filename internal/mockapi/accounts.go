package mockapi

import (
	"errors"
	"sync"

	"github.com/dmitrijs2005/matchdesk/internal/cryptox"
)

var (
	ErrWrongPassword = errors.New("wrong password")
	ErrInactive      = errors.New("account is deactivated")
)

type account struct {
	ID       int64
	Username string
	Salt     []byte
	Verifier []byte
	Active   bool
}

// accounts registers unknown usernames on their first login, like the
// production backend does.
type accounts struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*account
	byID   map[int64]*account
}

func newAccounts() *accounts {
	return &accounts{
		nextID: 1,
		byName: map[string]*account{},
		byID:   map[int64]*account{},
	}
}

// authenticate returns the account for username, creating it with password
// when it does not exist yet. created reports the registration.
func (a *accounts) authenticate(username, password string) (acc account, created bool, err error) {
	a.mu.Lock()
	existing, ok := a.byName[username]
	a.mu.Unlock()

	if ok {
		if !cryptox.CheckPassword(password, existing.Salt, existing.Verifier) {
			return account{}, false, ErrWrongPassword
		}
		if !existing.Active {
			return account{}, false, ErrInactive
		}
		return *existing, false, nil
	}

	salt, verifier := cryptox.NewVerifier(password)

	a.mu.Lock()
	defer a.mu.Unlock()
	// Lost a registration race; check against the winner.
	if existing, ok := a.byName[username]; ok {
		if !cryptox.CheckPassword(password, existing.Salt, existing.Verifier) {
			return account{}, false, ErrWrongPassword
		}
		return *existing, false, nil
	}
	n := &account{ID: a.nextID, Username: username, Salt: salt, Verifier: verifier, Active: true}
	a.nextID++
	a.byName[username] = n
	a.byID[n.ID] = n
	return *n, true, nil
}

func (a *accounts) get(id int64) (account, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.byID[id]
	if !ok {
		return account{}, false
	}
	return *acc, true
}

func (a *accounts) deactivate(username string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.byName[username]
	if ok {
		acc.Active = false
	}
	return ok
}

package table

import "fmt"

type Action string

const (
	ActionView    Action = "view"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionMatches Action = "matches"
	ActionMessage Action = "message"
	ActionEmail   Action = "email"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionView, ActionEdit, ActionDelete, ActionMatches, ActionMessage, ActionEmail:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Bind registers fn for action a, replacing any previous handler. A nil fn
// unbinds.
func (e *Engine[E]) Bind(a Action, fn func(E)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fn == nil {
		delete(e.actions, a)
		return
	}
	e.actions[a] = fn
}

// Dispatch runs the handler bound to a with the entity behind row id. When
// the id no longer resolves or nothing is bound it does nothing and
// returns false.
func (e *Engine[E]) Dispatch(a Action, id string) bool {
	e.mu.Lock()
	fn, bound := e.actions[a]
	ent, found := e.index[id]
	e.mu.Unlock()

	if !bound || !found {
		return false
	}
	fn(ent)
	return true
}

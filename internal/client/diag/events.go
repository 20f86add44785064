package diag

// TopicChanged is published after every change to either list.
const TopicChanged = "diag:changed"

type Op string

const (
	OpAdded   Op = "added"
	OpRemoved Op = "removed"
	OpExpired Op = "expired"
	OpCleared Op = "cleared"
)

// Change describes one mutation. Entry is zero for OpCleared.
type Change struct {
	Op    Op
	Entry Entry
}

// Subscribe registers fn for TopicChanged. Handlers run synchronously on the
// goroutine that made the change, which may be a timer goroutine, and must
// not subscribe or unsubscribe themselves.
func (a *Aggregator) Subscribe(fn func(Change)) error {
	return a.bus.Subscribe(TopicChanged, fn)
}

func (a *Aggregator) Unsubscribe(fn func(Change)) error {
	return a.bus.Unsubscribe(TopicChanged, fn)
}

func (a *Aggregator) publish(changes ...Change) {
	for _, c := range changes {
		a.bus.Publish(TopicChanged, c)
	}
}

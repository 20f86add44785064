package diag

import (
	"context"
	"slices"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/dmitrijs2005/matchdesk/internal/logging"
)

const (
	DefaultMaxAge        = 30 * time.Second
	DefaultSweepInterval = 5 * time.Second
)

type Aggregator struct {
	mu            sync.Mutex
	errors        []Entry
	notifications []Entry
	timers        map[string]*expiry
	closed        bool

	now        func() time.Time
	maxAge     time.Duration
	sweepEvery time.Duration
	bus        evbus.Bus
	log        logging.Logger

	stop context.CancelFunc
	done chan struct{}
}

// expiry is the pending removal of one notification. t stays nil until the
// OpAdded change for the entry has been published.
type expiry struct {
	t *time.Timer
}

func (x *expiry) stop() {
	if x.t != nil {
		x.t.Stop()
	}
}

type Option func(*Aggregator)

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

func WithMaxAge(d time.Duration) Option {
	return func(a *Aggregator) { a.maxAge = d }
}

func WithSweepInterval(d time.Duration) Option {
	return func(a *Aggregator) { a.sweepEvery = d }
}

func WithLogger(l logging.Logger) Option {
	return func(a *Aggregator) { a.log = l }
}

func WithBus(b evbus.Bus) Option {
	return func(a *Aggregator) { a.bus = b }
}

func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		timers:     make(map[string]*expiry),
		now:        time.Now,
		maxAge:     DefaultMaxAge,
		sweepEvery: DefaultSweepInterval,
		log:        logging.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.bus == nil {
		a.bus = evbus.New()
	}
	a.log = a.log.With("component", "diag")
	return a
}

// Start launches the periodic error sweep. It stops when ctx is done or
// Close is called. Calling Start twice has no effect.
func (a *Aggregator) Start(ctx context.Context) {
	a.mu.Lock()
	if a.done != nil || a.closed {
		a.mu.Unlock()
		return
	}
	ctx, a.stop = context.WithCancel(ctx)
	a.done = make(chan struct{})
	done := a.done
	a.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(a.sweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.Sweep()
			}
		}
	}()
}

// Close stops the sweep and cancels every pending notification timer.
// Entries already present stay readable; new ones are ignored.
func (a *Aggregator) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	for id, e := range a.timers {
		e.stop()
		delete(a.timers, id)
	}
	stop, done := a.stop, a.done
	a.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
}

// AddError records a persistent error and returns its id, or "" after Close.
func (a *Aggregator) AddError(message, code string) string {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ""
	}
	now := a.now()
	e := Entry{
		ID:         newID(now),
		Message:    message,
		Kind:       KindError,
		Code:       code,
		CreatedAt:  now,
		Persistent: true,
	}
	a.errors = append(a.errors, e)
	a.mu.Unlock()

	a.log.Warn(context.Background(), "error recorded", "id", e.ID, "code", code, "message", message)
	a.publish(Change{Op: OpAdded, Entry: e})
	return e.ID
}

// AddNotification records a notification and, unless it is persistent,
// schedules its removal. Subscribers always see OpAdded before OpExpired.
// It returns the id, or "" after Close.
func (a *Aggregator) AddNotification(n Notification) string {
	if n.Kind == "" {
		n.Kind = KindInfo
	}
	ttl := n.Duration
	if ttl <= 0 {
		ttl = DefaultTTL(n.Kind)
	}

	start := time.Now()
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ""
	}
	now := a.now()
	e := Entry{
		ID:         newID(now),
		Message:    n.Message,
		Kind:       n.Kind,
		CreatedAt:  now,
		Persistent: n.Persistent,
	}
	var x *expiry
	if !n.Persistent {
		e.TTL = ttl
		x = &expiry{}
		a.timers[e.ID] = x
	}
	a.notifications = append(a.notifications, e)
	a.mu.Unlock()

	a.publish(Change{Op: OpAdded, Entry: e})

	if x != nil {
		a.mu.Lock()
		// cleared or closed while subscribers ran
		if a.timers[e.ID] == x {
			id := e.ID
			x.t = time.AfterFunc(max(ttl-time.Since(start), 0), func() { a.expire(id, x) })
		}
		a.mu.Unlock()
	}
	return e.ID
}

func (a *Aggregator) expire(id string, x *expiry) {
	a.mu.Lock()
	if a.timers[id] != x {
		a.mu.Unlock()
		return
	}
	delete(a.timers, id)
	e, ok := removeByID(&a.notifications, id)
	a.mu.Unlock()

	if ok {
		a.publish(Change{Op: OpExpired, Entry: e})
	}
}

func (a *Aggregator) ShowSuccess(message string) string {
	return a.AddNotification(Notification{Message: message, Kind: KindSuccess})
}

func (a *Aggregator) ShowInfo(message string) string {
	return a.AddNotification(Notification{Message: message, Kind: KindInfo})
}

func (a *Aggregator) ShowWarning(message string) string {
	return a.AddNotification(Notification{Message: message, Kind: KindWarning})
}

// Sweep removes errors older than the maximum age. The background loop
// calls it; it is exported so callers with their own scheduler can too.
func (a *Aggregator) Sweep() int {
	a.mu.Lock()
	cutoff := a.now().Add(-a.maxAge)
	var expired []Change
	a.errors = slices.DeleteFunc(a.errors, func(e Entry) bool {
		if e.CreatedAt.After(cutoff) {
			return false
		}
		expired = append(expired, Change{Op: OpExpired, Entry: e})
		return true
	})
	a.mu.Unlock()

	a.publish(expired...)
	return len(expired)
}

func (a *Aggregator) ClearError(id string) {
	a.mu.Lock()
	e, ok := removeByID(&a.errors, id)
	a.mu.Unlock()

	if ok {
		a.publish(Change{Op: OpRemoved, Entry: e})
	}
}

func (a *Aggregator) ClearAllErrors() {
	a.mu.Lock()
	n := len(a.errors)
	a.errors = nil
	a.mu.Unlock()

	if n > 0 {
		a.publish(Change{Op: OpCleared})
	}
}

func (a *Aggregator) ClearNotification(id string) {
	a.mu.Lock()
	if x, ok := a.timers[id]; ok {
		x.stop()
		delete(a.timers, id)
	}
	e, ok := removeByID(&a.notifications, id)
	a.mu.Unlock()

	if ok {
		a.publish(Change{Op: OpRemoved, Entry: e})
	}
}

func (a *Aggregator) ClearAllNotifications() {
	a.mu.Lock()
	for id, x := range a.timers {
		x.stop()
		delete(a.timers, id)
	}
	n := len(a.notifications)
	a.notifications = nil
	a.mu.Unlock()

	if n > 0 {
		a.publish(Change{Op: OpCleared})
	}
}

// Errors returns a copy of the current errors, oldest first.
func (a *Aggregator) Errors() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.errors)
}

// Notifications returns a copy of the current notifications, oldest first.
func (a *Aggregator) Notifications() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.notifications)
}

func (a *Aggregator) HasErrors() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.errors) > 0
}

func (a *Aggregator) HasNotifications() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.notifications) > 0
}

func removeByID(list *[]Entry, id string) (Entry, bool) {
	i := slices.IndexFunc(*list, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return Entry{}, false
	}
	e := (*list)[i]
	*list = slices.Delete(*list, i, i+1)
	return e, true
}

package fetchers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/matchdesk/internal/client/api"
)

// ErrSuperseded is returned by a fetch whose response arrived after a newer
// fetch had started. Its result was discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// Requester is the part of *api.Client the fetchers use.
type Requester interface {
	Do(ctx context.Context, endpoint string, opts api.RequestOptions, out any) error
}

// State is what a fetcher exposes for rendering.
type State[P, D any] struct {
	Data      D
	Loaded    bool
	Loading   bool
	Err       error
	Params    P
	FetchedAt time.Time
}

type resource[P, D any] struct {
	mu    sync.Mutex
	gen   uint64
	state State[P, D]
}

func (r *resource[P, D]) begin(p P) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.state.Loading = true
	r.state.Err = nil
	r.state.Params = p
	return r.gen
}

// finish applies the outcome of call gen unless a newer call has started.
func (r *resource[P, D]) finish(gen uint64, data D, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return ErrSuperseded
	}
	r.state.Loading = false
	if err != nil {
		r.state.Err = err
		return err
	}
	r.state.Data = data
	r.state.Loaded = true
	r.state.FetchedAt = time.Now()
	return nil
}

// fail records an error without a request having been made.
func (r *resource[P, D]) fail(err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.state.Loading = false
	r.state.Err = err
	return err
}

func (r *resource[P, D]) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.state = State[P, D]{}
}

func (r *resource[P, D]) snapshot() State[P, D] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *resource[P, D]) lastParams() P {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Params
}

func unexpectedStatus(status, fallback string) error {
	return &api.Error{
		Kind:    api.KindServer,
		Message: fallback,
		Err:     errors.New("response status " + status),
	}
}

package storefront

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period a Refetcher waits for before querying.
const DefaultDebounce = 400 * time.Millisecond

// FetchFunc runs one product query. (*Client).Products satisfies it.
type FetchFunc func(ctx context.Context, req FilterRequest) ([]Result, error)

// Update is a fetch outcome delivered to the Refetcher callback.
type Update struct {
	Seq     uint64
	Request FilterRequest
	Results []Result
	Err     error
}

// Refetcher coalesces bursts of filter changes into one query and delivers only
// responses newer than the last one applied. In-flight queries are never cancelled;
// a response that arrives after a newer one has been applied is dropped.
type Refetcher struct {
	ctx      context.Context
	fetch    FetchFunc
	onUpdate func(Update)
	delay    time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending FilterRequest
	gen     uint64
	seq     uint64
	stopped bool

	applyMu sync.Mutex
	applied uint64

	wg sync.WaitGroup
}

// NewRefetcher creates a Refetcher with DefaultDebounce. onUpdate is called from
// fetch goroutines, one call at a time.
func NewRefetcher(ctx context.Context, fetch FetchFunc, onUpdate func(Update)) *Refetcher {
	return NewRefetcherWithDelay(ctx, fetch, onUpdate, DefaultDebounce)
}

// NewRefetcherWithDelay is NewRefetcher with a custom debounce window.
func NewRefetcherWithDelay(
	ctx context.Context, fetch FetchFunc, onUpdate func(Update), delay time.Duration,
) *Refetcher {
	return &Refetcher{ctx: ctx, fetch: fetch, onUpdate: onUpdate, delay: delay}
}

// Trigger schedules a query for req, replacing any query still waiting out the
// debounce window.
func (r *Refetcher) Trigger(req FilterRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	r.pending = req
	if r.timer != nil {
		r.timer.Stop()
	}
	r.gen++
	gen := r.gen
	r.timer = time.AfterFunc(r.delay, func() { r.fire(gen) })
}

// fire starts the query for timer generation gen unless a later Trigger superseded it.
func (r *Refetcher) fire(gen uint64) {
	r.mu.Lock()
	if r.stopped || gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.seq++
	seq, req := r.seq, r.pending
	r.timer = nil
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		results, err := r.fetch(r.ctx, req)
		r.apply(Update{Seq: seq, Request: req, Results: results, Err: err})
	}()
}

func (r *Refetcher) apply(u Update) {
	r.applyMu.Lock()
	defer r.applyMu.Unlock()

	if u.Seq <= r.applied {
		return
	}
	r.applied = u.Seq
	if r.onUpdate != nil {
		r.onUpdate(u)
	}
}

// Stop drops any pending trigger and waits for in-flight queries to finish.
func (r *Refetcher) Stop() {
	r.mu.Lock()
	r.stopped = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

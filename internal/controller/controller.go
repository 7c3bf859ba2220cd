// Package controller implements the client-side search state machine:
// debounced query input, immediate filter/sort/page changes, and in-flight
// request cancellation so a stale response can never overwrite a newer one.
package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/ProductSearchGo/internal/domain"
)

// State describes where the controller is in its fetch lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateDebouncing State = "debouncing"
	StateFetching   State = "fetching"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// DefaultDebounce is the delay applied to query keystrokes before a fetch.
const DefaultDebounce = 300 * time.Millisecond

// Fetcher executes a search. *service.SearchService satisfies it.
type Fetcher interface {
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error)
}

// Snapshot is an immutable view of the controller for rendering.
type Snapshot struct {
	State    State
	Request  domain.SearchRequest
	Response *domain.SearchResponse
	Err      error
}

// Listener receives a snapshot after every state transition.
type Listener func(Snapshot)

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce overrides the query debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithLogger sets the controller logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithListener registers a state-change listener. The listener is invoked
// synchronously while the controller lock is held, so it must not call back
// into the controller.
func WithListener(fn Listener) Option {
	return func(c *Controller) { c.listener = fn }
}

// Controller drives search requests from user input. All methods are safe
// for concurrent use.
type Controller struct {
	fetcher  Fetcher
	debounce time.Duration
	logger   *slog.Logger
	listener Listener

	mu         sync.Mutex
	state      State
	req        domain.SearchRequest
	resp       *domain.SearchResponse
	err        error
	timer      *time.Timer
	generation uint64
	cancel     context.CancelFunc
	closed     bool
}

// New creates an idle controller.
func New(fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:  fetcher,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		state:    StateIdle,
		req:      domain.SearchRequest{Page: domain.DefaultPage, PageSize: domain.DefaultPageSize},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetQuery records a new query string and schedules a debounced fetch. Rapid
// successive calls coalesce into a single request. Changing the query resets
// pagination to the first page.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.req.Query = query
	c.req.Page = domain.DefaultPage

	c.cancelInFlightLocked()
	c.transitionLocked(StateDebouncing)

	if c.timer != nil {
		c.timer.Stop()
	}
	gen := c.nextGenerationLocked()
	c.timer = time.AfterFunc(c.debounce, func() {
		c.fireDebounced(gen)
	})
}

// SetFilters replaces the active filters and fetches immediately, resetting
// pagination to the first page.
func (c *Controller) SetFilters(filters *domain.SearchFilters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.req.Filters = filters
	c.req.Page = domain.DefaultPage
	c.startFetchLocked()
}

// SetSort replaces the sort order and fetches immediately.
func (c *Controller) SetSort(sort *domain.SearchSort) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.req.Sort = sort
	c.startFetchLocked()
}

// SetPage moves to a different result page and fetches immediately.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.req.Page = page
	c.startFetchLocked()
}

// Refresh re-runs the current request immediately, bypassing the debounce.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startFetchLocked()
}

// Snapshot returns the current state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close stops the debounce timer and cancels any in-flight fetch. The
// controller ignores input after Close.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.cancelInFlightLocked()
	// Invalidate any completion still racing toward the lock.
	c.generation++
	c.transitionLocked(StateIdle)
}

// fireDebounced runs when the debounce timer elapses. A generation check
// covers the window between the timer firing and the lock being taken: if
// newer input arrived, this trigger is obsolete.
func (c *Controller) fireDebounced(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		return
	}
	c.startFetchLocked()
}

// startFetchLocked cancels any in-flight request and launches a new fetch
// for the current request under a fresh generation.
func (c *Controller) startFetchLocked() {
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.cancelInFlightLocked()

	gen := c.nextGenerationLocked()
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.transitionLocked(StateFetching)

	req := c.req
	go c.fetch(ctx, gen, &req)
}

func (c *Controller) fetch(ctx context.Context, gen uint64, req *domain.SearchRequest) {
	resp, err := c.fetcher.Search(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// A newer request superseded this one; its result no longer matters.
		c.logger.Debug("dropping stale search completion",
			slog.Uint64("generation", gen),
			slog.Uint64("current", c.generation),
		)
		return
	}
	c.cancel = nil

	if err != nil {
		c.err = err
		c.transitionLocked(StateError)
		return
	}
	c.resp = resp
	c.err = nil
	c.transitionLocked(StateSuccess)
}

func (c *Controller) cancelInFlightLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) nextGenerationLocked() uint64 {
	c.generation++
	return c.generation
}

func (c *Controller) transitionLocked(next State) {
	c.state = next
	if c.listener != nil {
		c.listener(c.snapshotLocked())
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:    c.state,
		Request:  c.req,
		Response: c.resp,
		Err:      c.err,
	}
}

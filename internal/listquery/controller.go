// Package listquery drives paginated, searchable resource lists against the
// backend. One Controller exists per resource page.
package listquery

import (
	"context"
	"sync"

	"github.com/matheus3301/shlokadmin/internal/api"
	"github.com/matheus3301/shlokadmin/internal/bus"
	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/matheus3301/shlokadmin/internal/state"
	"go.uber.org/zap"
)

// Status is the fetch lifecycle of a controller.
type Status string

const (
	Idle    Status = "IDLE"
	Loading Status = "LOADING"
	Loaded  Status = "LOADED"
	Failed  Status = "FAILED"
)

var transitions = state.Table[Status]{
	Idle:    {Loading},
	Loading: {Loading, Loaded, Failed},
	Loaded:  {Loading},
	Failed:  {Loading},
}

// Query is the parameter set of one list fetch.
type Query struct {
	Page     int
	PageSize int
	Search   string
}

// Fetcher performs one list read.
type Fetcher[T any] func(ctx context.Context, q Query) (model.Page[T], error)

// Controls describes which pagination moves are currently possible.
type Controls struct {
	CanPrev bool
	CanNext bool
	Visible bool
}

// Snapshot is a consistent copy of a controller's state. Query is the latest
// requested query; Shown is the query that produced Items and stays zero until
// the first successful fetch.
type Snapshot[T any] struct {
	Query      Query
	Shown      Query
	Items      []T
	Pagination model.Pagination
	Status     Status
	Error      string
}

// Loading reports whether a fetch is outstanding for the latest query.
func (s Snapshot[T]) Loading() bool { return s.Status == Loading }

// Controller owns the query state and last fetched page of one resource.
// Every trigger issues exactly one fetch; only the response to the most
// recently issued fetch is applied.
type Controller[T any] struct {
	resource string
	fetch    Fetcher[T]
	machine  *state.Machine[Status]
	bus      *bus.Bus
	logger   *zap.Logger

	mu         sync.Mutex
	query      Query
	shown      Query
	items      []T
	pagination model.Pagination
	errMsg     string
	seq        uint64

	inflight sync.WaitGroup
}

// New creates a controller at page 1 with an empty search.
func New[T any](resource string, pageSize int, fetch Fetcher[T], b *bus.Bus, logger *zap.Logger) *Controller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T]{
		resource: resource,
		fetch:    fetch,
		machine:  state.NewMachine(Idle, transitions, b, bus.Topic("query", resource)),
		bus:      b,
		logger:   logger.Named("listquery").With(zap.String("resource", resource)),
		query:    Query{Page: 1, PageSize: pageSize},
	}
}

// Resource returns the resource name, e.g. "shloks".
func (c *Controller[T]) Resource() string { return c.resource }

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		Query:      c.query,
		Shown:      c.shown,
		Items:      items,
		Pagination: c.pagination,
		Status:     c.machine.Current(),
		Error:      c.errMsg,
	}
}

// Query returns the current query state.
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Shown returns the query whose response is currently held. The second
// result is false before any fetch has succeeded.
func (c *Controller[T]) Shown() (Query, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shown, c.shown.Page > 0
}

// Controls reports the pagination moves available from the current state.
func (c *Controller[T]) Controls() Controls {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controls()
}

func (c *Controller[T]) controls() Controls {
	pages := c.pagination.Pages
	return Controls{
		CanPrev: c.query.Page > 1,
		CanNext: c.query.Page < pages,
		Visible: pages > 1,
	}
}

// Start issues the initial fetch for the current query.
func (c *Controller[T]) Start(ctx context.Context) {
	c.trigger(ctx, func(*Query) bool { return true })
}

// Refetch re-issues the current query unchanged.
func (c *Controller[T]) Refetch(ctx context.Context) {
	c.trigger(ctx, func(*Query) bool { return true })
}

// SetPage moves to page n. Pages below 1, or beyond the last known page, are
// ignored. It reports whether a fetch was issued.
func (c *Controller[T]) SetPage(ctx context.Context, n int) bool {
	return c.trigger(ctx, func(q *Query) bool {
		if n < 1 || (c.pagination.Pages > 0 && n > c.pagination.Pages) {
			return false
		}
		q.Page = n
		return true
	})
}

// NextPage advances one page when the next control is enabled.
func (c *Controller[T]) NextPage(ctx context.Context) bool {
	return c.trigger(ctx, func(q *Query) bool {
		if !c.controls().CanNext {
			return false
		}
		q.Page++
		return true
	})
}

// PrevPage goes back one page when the previous control is enabled.
func (c *Controller[T]) PrevPage(ctx context.Context) bool {
	return c.trigger(ctx, func(q *Query) bool {
		if !c.controls().CanPrev {
			return false
		}
		q.Page--
		return true
	})
}

// SetSearch replaces the search term and returns to page 1.
func (c *Controller[T]) SetSearch(ctx context.Context, term string) {
	c.trigger(ctx, func(q *Query) bool {
		q.Search = term
		q.Page = 1
		return true
	})
}

// Wait blocks until every issued fetch has resolved.
func (c *Controller[T]) Wait() {
	c.inflight.Wait()
}

// trigger applies mutate to the query under the lock and, if it reports a
// change, issues one fetch tagged with a fresh sequence number.
func (c *Controller[T]) trigger(ctx context.Context, mutate func(*Query) bool) bool {
	c.mu.Lock()
	q := c.query
	if !mutate(&q) {
		c.mu.Unlock()
		return false
	}
	c.query = q
	c.seq++
	seq := c.seq
	c.transition(Loading)
	c.inflight.Add(1)
	c.mu.Unlock()

	c.bus.Emit(bus.Topic("query", c.resource, "loading"), q)
	go c.run(ctx, seq, q)
	return true
}

func (c *Controller[T]) run(ctx context.Context, seq uint64, q Query) {
	defer c.inflight.Done()

	page, err := c.fetch(ctx, q)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("dropping stale response", zap.Uint64("seq", seq), zap.Int("page", q.Page), zap.String("search", q.Search))
		c.bus.Emit(bus.Topic("query", c.resource, "stale_dropped"), q)
		return
	}
	if err != nil {
		c.errMsg = api.Message(err, "Failed to fetch "+c.resource)
		c.transition(Failed)
		msg := c.errMsg
		c.mu.Unlock()
		c.logger.Warn("fetch failed", zap.Int("page", q.Page), zap.String("search", q.Search), zap.Error(err))
		c.bus.Emit(bus.Topic("query", c.resource, "failed"), msg)
		return
	}
	c.items = page.Items
	c.shown = q
	c.pagination = page.Pagination
	c.errMsg = ""
	c.transition(Loaded)
	c.mu.Unlock()

	c.logger.Debug("fetched", zap.Int("page", q.Page), zap.Int("items", len(page.Items)), zap.Int("pages", page.Pagination.Pages))
	c.bus.Emit(bus.Topic("query", c.resource, "loaded"), page.Pagination)
}

func (c *Controller[T]) transition(to Status) {
	if err := c.machine.Transition(to); err != nil {
		c.logger.Warn("controller transition", zap.Error(err))
	}
}

package listquery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matheus3301/shlokadmin/internal/api"
	"github.com/matheus3301/shlokadmin/internal/bus"
	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	q       Query
	release chan result
}

type result struct {
	page model.Page[string]
	err  error
}

// gate hands every fetch to the test, which decides when and how it resolves.
type gate struct {
	calls chan call
}

func newGate() *gate { return &gate{calls: make(chan call, 16)} }

func (g *gate) fetch(ctx context.Context, q Query) (model.Page[string], error) {
	c := call{q: q, release: make(chan result, 1)}
	g.calls <- c
	r := <-c.release
	return r.page, r.err
}

func (g *gate) next(t *testing.T) call {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(time.Second):
		t.Fatal("expected a fetch")
		return call{}
	}
}

func (g *gate) none(t *testing.T) {
	t.Helper()
	select {
	case c := <-g.calls:
		t.Fatalf("unexpected fetch %+v", c.q)
	case <-time.After(20 * time.Millisecond):
	}
}

func page(pageNo, pages int, items ...string) result {
	return result{page: model.Page[string]{Items: items, Pagination: model.Pagination{Page: pageNo, Pages: pages, Total: pages * 20}}}
}

// instant resolves every fetch immediately from the given pages count.
func instant(pages int, calls *[]Query, mu *sync.Mutex) Fetcher[string] {
	return func(_ context.Context, q Query) (model.Page[string], error) {
		mu.Lock()
		*calls = append(*calls, q)
		mu.Unlock()
		return page(q.Page, pages, "row").page, nil
	}
}

func TestStartLoadsFirstPage(t *testing.T) {
	var mu sync.Mutex
	var calls []Query
	c := New("shloks", 20, instant(5, &calls, &mu), nil, nil)
	assert.Equal(t, Idle, c.Snapshot().Status)

	c.Start(context.Background())
	c.Wait()

	snap := c.Snapshot()
	assert.Equal(t, Loaded, snap.Status)
	assert.Equal(t, []string{"row"}, snap.Items)
	assert.Equal(t, []Query{{Page: 1, PageSize: 20}}, calls)
	assert.Equal(t, Controls{CanPrev: false, CanNext: true, Visible: true}, c.Controls())
}

func TestSearchResetsPageToOne(t *testing.T) {
	var mu sync.Mutex
	var calls []Query
	c := New("shloks", 20, instant(5, &calls, &mu), nil, nil)
	ctx := context.Background()

	c.Start(ctx)
	c.Wait()
	require.True(t, c.SetPage(ctx, 3))
	c.Wait()
	c.SetSearch(ctx, "karma")
	c.Wait()

	require.Len(t, calls, 3)
	assert.Equal(t, Query{Page: 3, PageSize: 20}, calls[1])
	assert.Equal(t, Query{Page: 1, PageSize: 20, Search: "karma"}, calls[2])
	assert.Equal(t, 1, c.Query().Page)
}

func TestPaginationBoundaries(t *testing.T) {
	var mu sync.Mutex
	var calls []Query
	c := New("users", 20, instant(3, &calls, &mu), nil, nil)
	ctx := context.Background()

	c.Start(ctx)
	c.Wait()
	assert.False(t, c.PrevPage(ctx), "previous is disabled on page 1")

	require.True(t, c.SetPage(ctx, 3))
	c.Wait()
	ctrl := c.Controls()
	assert.True(t, ctrl.CanPrev)
	assert.False(t, ctrl.CanNext, "next is disabled on the last page")
	assert.False(t, c.NextPage(ctx))
	assert.False(t, c.SetPage(ctx, 4))
	assert.False(t, c.SetPage(ctx, 0))

	require.True(t, c.PrevPage(ctx))
	c.Wait()
	assert.Equal(t, 2, c.Query().Page)
	assert.Len(t, calls, 3, "disabled moves issue no fetch")
}

func TestControlsHiddenForSinglePage(t *testing.T) {
	var mu sync.Mutex
	var calls []Query
	c := New("videos", 0, instant(1, &calls, &mu), nil, nil)
	c.Start(context.Background())
	c.Wait()

	assert.Equal(t, Controls{}, c.Controls())
}

func TestLatestRequestWins(t *testing.T) {
	g := newGate()
	b := bus.New()
	events, unsub := b.Subscribe("query.shloks.stale_dropped", 4)
	defer unsub()
	c := New("shloks", 20, g.fetch, b, nil)
	ctx := context.Background()

	c.Start(ctx)
	g.next(t).release <- page(1, 5, "p1")
	c.Wait()

	require.True(t, c.SetPage(ctx, 2))
	p2 := g.next(t)
	require.True(t, c.SetPage(ctx, 3))
	p3 := g.next(t)

	// page 3 resolves first, page 2 arrives late
	p3.release <- page(3, 5, "p3")
	time.Sleep(10 * time.Millisecond)
	p2.release <- page(2, 5, "p2")
	c.Wait()

	snap := c.Snapshot()
	assert.Equal(t, 3, snap.Query.Page)
	assert.Equal(t, []string{"p3"}, snap.Items)
	assert.Equal(t, Loaded, snap.Status)

	select {
	case evt := <-events:
		assert.Equal(t, 2, evt.Payload.(Query).Page)
	case <-time.After(time.Second):
		t.Fatal("no stale_dropped event")
	}
}

func TestLoadingUntilLatestResolves(t *testing.T) {
	g := newGate()
	c := New("shloks", 20, g.fetch, nil, nil)
	ctx := context.Background()

	c.Start(ctx)
	first := g.next(t)
	c.SetSearch(ctx, "gita")
	second := g.next(t)

	first.release <- page(1, 2, "old")
	time.Sleep(10 * time.Millisecond)
	assert.True(t, c.Snapshot().Loading(), "stale response must not end loading")

	second.release <- page(1, 1, "new")
	c.Wait()
	assert.Equal(t, []string{"new"}, c.Snapshot().Items)
	g.none(t)
}

func TestFailureKeepsStaleSnapshot(t *testing.T) {
	g := newGate()
	c := New("users", 20, g.fetch, nil, nil)
	ctx := context.Background()

	c.Start(ctx)
	g.next(t).release <- page(1, 4, "u1", "u2")
	c.Wait()

	require.True(t, c.NextPage(ctx))
	g.next(t).release <- result{err: &api.NetworkError{Op: "GET /users", Err: errors.New("connection reset")}}
	c.Wait()

	snap := c.Snapshot()
	assert.Equal(t, Failed, snap.Status)
	assert.Equal(t, "Failed to fetch users", snap.Error)
	assert.Equal(t, []string{"u1", "u2"}, snap.Items, "previous rows stay visible")
	g.none(t)
}

func TestShownFollowsLastSuccessfulFetch(t *testing.T) {
	g := newGate()
	c := New("shloks", 20, g.fetch, nil, nil)
	ctx := context.Background()

	_, ok := c.Shown()
	assert.False(t, ok)

	c.Start(ctx)
	g.next(t).release <- page(1, 3, "s1")
	c.Wait()

	require.True(t, c.NextPage(ctx))
	pending := g.next(t)
	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Query.Page)
	assert.Equal(t, 1, snap.Shown.Page, "rows on screen still come from page 1")

	pending.release <- result{err: errors.New("timeout")}
	c.Wait()
	shown, ok := c.Shown()
	require.True(t, ok)
	assert.Equal(t, Query{Page: 1, PageSize: 20}, shown)

	c.SetSearch(ctx, "gita")
	g.next(t).release <- page(1, 1, "s9")
	c.Wait()
	shown, _ = c.Shown()
	assert.Equal(t, "gita", shown.Search)
}

func TestFailureUsesServerMessage(t *testing.T) {
	g := newGate()
	c := New("videos", 0, g.fetch, nil, nil)

	c.Start(context.Background())
	g.next(t).release <- result{err: &api.RejectedError{Status: 500, Message: "Database unavailable"}}
	c.Wait()

	assert.Equal(t, "Database unavailable", c.Snapshot().Error)
}

func TestRefetchKeepsPageAndSearch(t *testing.T) {
	var mu sync.Mutex
	var calls []Query
	c := New("shloks", 20, instant(5, &calls, &mu), nil, nil)
	ctx := context.Background()

	c.SetSearch(ctx, "dharma")
	c.Wait()
	require.True(t, c.SetPage(ctx, 2))
	c.Wait()
	c.Refetch(ctx)
	c.Wait()

	require.Len(t, calls, 3)
	assert.Equal(t, Query{Page: 2, PageSize: 20, Search: "dharma"}, calls[2])
}

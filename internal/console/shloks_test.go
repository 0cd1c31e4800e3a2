package console

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/matheus3301/shlokadmin/internal/api"
	"github.com/matheus3301/shlokadmin/internal/bus"
	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeShloks serves three full pages. Pages listed in fail error out and
// pages listed in hold block until their channel closes.
type fakeShloks struct {
	mu      sync.Mutex
	fail    map[int]error
	hold    map[int]chan struct{}
	updated []int
	deleted []int
}

func (f *fakeShloks) ListShloks(_ context.Context, p api.ListParams) (model.Page[model.Shlok], error) {
	f.mu.Lock()
	err, hold := f.fail[p.Page], f.hold[p.Page]
	f.mu.Unlock()
	if hold != nil {
		<-hold
	}
	if err != nil {
		return model.Page[model.Shlok]{}, err
	}
	items := make([]model.Shlok, p.Limit)
	for i := range items {
		items[i] = model.Shlok{ChapterName: "Chapter 1", Shlok: (p.Page-1)*p.Limit + i + 1}
	}
	return model.Page[model.Shlok]{Items: items, Pagination: model.Pagination{Page: p.Page, Pages: 3, Total: 3 * p.Limit}}, nil
}

func (f *fakeShloks) UpdateShlok(_ context.Context, pos int, _ model.Shlok) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, pos)
	return nil
}

func (f *fakeShloks) DeleteShlok(_ context.Context, pos int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, pos)
	return nil
}

func TestShlokRowsResolveAgainstShownPage(t *testing.T) {
	offline := &api.NetworkError{Op: "GET /shloks", Err: errors.New("connection refused")}

	tests := []struct {
		name string
		// arrange runs against a fresh page and returns a func releasing held fetches.
		arrange func(ctx context.Context, f *fakeShloks, s *Shloks) (release func())
		row     int
		want    []int
	}{
		{
			name: "second page loaded",
			arrange: func(ctx context.Context, _ *fakeShloks, s *Shloks) func() {
				s.List.Start(ctx)
				s.List.Wait()
				s.List.NextPage(ctx)
				s.List.Wait()
				return func() {}
			},
			row:  1,
			want: []int{21},
		},
		{
			name: "failed move to second page",
			arrange: func(ctx context.Context, f *fakeShloks, s *Shloks) func() {
				f.fail[2] = offline
				s.List.Start(ctx)
				s.List.Wait()
				s.List.NextPage(ctx)
				s.List.Wait()
				return func() {}
			},
			row:  0,
			want: []int{0},
		},
		{
			name: "second page still loading",
			arrange: func(ctx context.Context, f *fakeShloks, s *Shloks) func() {
				s.List.Start(ctx)
				s.List.Wait()
				held := make(chan struct{})
				f.mu.Lock()
				f.hold[2] = held
				f.mu.Unlock()
				s.List.NextPage(ctx)
				return func() { close(held) }
			},
			row:  3,
			want: []int{3},
		},
		{
			name: "nothing loaded",
			arrange: func(ctx context.Context, f *fakeShloks, s *Shloks) func() {
				f.fail[1] = offline
				s.List.Start(ctx)
				s.List.Wait()
				return func() {}
			},
			row: 0,
		},
		{
			name: "search shown",
			arrange: func(ctx context.Context, _ *fakeShloks, s *Shloks) func() {
				s.List.SetSearch(ctx, "karma")
				s.List.Wait()
				return func() {}
			},
			row: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := &fakeShloks{fail: map[int]error{}, hold: map[int]chan struct{}{}}
			s := NewShloks(f, 20, bus.New(), nil)
			release := tt.arrange(ctx, f, s)

			res := s.Delete(ctx, tt.row)
			upd := s.Update(ctx, tt.row, model.Shlok{ChapterName: "Chapter 1", Shlok: 1})
			release()
			s.List.Wait()

			f.mu.Lock()
			defer f.mu.Unlock()
			if tt.want == nil {
				assert.False(t, res.OK)
				assert.False(t, upd.OK)
				assert.Equal(t, unaddressable, res.Error)
				assert.Empty(t, f.deleted)
				assert.Empty(t, f.updated)
				return
			}
			require.True(t, res.OK, res.Error)
			require.True(t, upd.OK, upd.Error)
			assert.Equal(t, tt.want, f.deleted)
			assert.Equal(t, tt.want, f.updated)
		})
	}
}

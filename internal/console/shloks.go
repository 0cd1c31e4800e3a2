package console

import (
	"context"

	"github.com/matheus3301/shlokadmin/internal/api"
	"github.com/matheus3301/shlokadmin/internal/bus"
	"github.com/matheus3301/shlokadmin/internal/crud"
	"github.com/matheus3301/shlokadmin/internal/listquery"
	"github.com/matheus3301/shlokadmin/internal/model"
	"go.uber.org/zap"
)

// ShlokService is the content record surface of the backend.
type ShlokService interface {
	ListShloks(ctx context.Context, p api.ListParams) (model.Page[model.Shlok], error)
	UpdateShlok(ctx context.Context, position int, s model.Shlok) error
	DeleteShlok(ctx context.Context, position int) error
}

const unaddressable = "Shlok rows can only be changed on a loaded, unfiltered page"

// Shloks is the content records page. Records have no stable key; updates and
// deletes address the absolute position of a visible row in the unfiltered
// list, which is only correct while no search is active.
type Shloks struct {
	List *listquery.Controller[model.Shlok]
	svc  ShlokService
	exec *crud.Executor
}

// NewShloks creates the page.
func NewShloks(svc ShlokService, pageSize int, b *bus.Bus, logger *zap.Logger) *Shloks {
	list := listquery.New("shloks", pageSize, func(ctx context.Context, q listquery.Query) (model.Page[model.Shlok], error) {
		return svc.ListShloks(ctx, api.ListParams{Page: q.Page, Limit: q.PageSize, Search: q.Search})
	}, b, logger)
	return &Shloks{
		List: list,
		svc:  svc,
		exec: crud.NewExecutor("shloks", list, b, logger),
	}
}

// Position resolves a visible row to the absolute position the backend uses.
// Rows are resolved against the page currently on screen, not a page still
// loading or one whose fetch failed. It reports false when no unfiltered page
// is shown.
func (s *Shloks) Position(row int) (int, bool) {
	q, ok := s.List.Shown()
	if !ok || q.Search != "" || row < 0 {
		return 0, false
	}
	return crud.ShlokPosition(q.Page, q.PageSize, row), true
}

// Update replaces the record shown at row.
func (s *Shloks) Update(ctx context.Context, row int, sh model.Shlok) crud.Result {
	pos, ok := s.Position(row)
	if !ok {
		return crud.Result{Error: unaddressable}
	}
	return s.exec.Execute(ctx, crud.Command{
		Verb: crud.Update,
		Noun: "shlok",
		Run:  func(ctx context.Context) error { return s.svc.UpdateShlok(ctx, pos, sh) },
	})
}

// Delete removes the record shown at row.
func (s *Shloks) Delete(ctx context.Context, row int) crud.Result {
	pos, ok := s.Position(row)
	if !ok {
		return crud.Result{Error: unaddressable}
	}
	return s.exec.Execute(ctx, crud.Command{
		Verb: crud.Delete,
		Noun: "shlok",
		Run:  func(ctx context.Context) error { return s.svc.DeleteShlok(ctx, pos) },
	})
}

// DeletePrompt is the confirmation question for Delete.
func (s *Shloks) DeletePrompt() string { return "Delete this shlok?" }

package views

import (
	"context"

	"github.com/matheus3301/shlokadmin/internal/console"
	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/matheus3301/shlokadmin/internal/tui/ui"
)

// VideoTable lists every video link.
type VideoTable struct {
	*resourceTable
	ctx   context.Context
	page  *console.Videos
	shown []model.VideoLink
}

// NewVideoTable creates the links table over page.
func NewVideoTable(ctx context.Context, theme *ui.Theme, page *console.Videos) *VideoTable {
	return &VideoTable{
		resourceTable: newResourceTable(theme, "Videos", []Column{
			{Title: "KEY", MaxWidth: 32},
			{Title: "URL", Expansion: 1},
		}),
		ctx:  ctx,
		page: page,
	}
}

// Name implements Component.
func (vt *VideoTable) Name() string { return PageVideos }

// Start implements Component.
func (vt *VideoTable) Start() { startList(vt.ctx, vt.page.List) }

// Stop implements Component.
func (vt *VideoTable) Stop() {}

// Hints implements Component.
func (vt *VideoTable) Hints() []ui.MenuHint { return nil }

// Refresh redraws from the controller.
func (vt *VideoTable) Refresh() {
	snap := vt.page.List.Snapshot()
	vt.shown = snap.Items
	render(vt.resourceTable, snap, vt.page.List.Controls(), func(_ int, v model.VideoLink) []string {
		return []string{v.Key, v.URL}
	})
}

// Selected returns the highlighted link.
func (vt *VideoTable) Selected() (model.VideoLink, bool) {
	i := vt.selected()
	if i < 0 || i >= len(vt.shown) {
		return model.VideoLink{}, false
	}
	return vt.shown[i], true
}

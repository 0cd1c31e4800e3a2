package views

import (
	"context"
	"strconv"

	"github.com/matheus3301/shlokadmin/internal/console"
	"github.com/matheus3301/shlokadmin/internal/crud"
	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/matheus3301/shlokadmin/internal/tui/ui"
)

// Page names.
const (
	PageLogin     = "login"
	PageDashboard = "dashboard"
	PageShloks    = "shloks"
	PageShlokEdit = "shlok"
	PageVideos    = "videos"
	PageVideoForm = "video"
	PageUsers     = "users"
	PageUser      = "user"
	PageAnalytics = "analytics"
	PageHelp      = "help"
	PageConfirm   = "confirm"
)

// ShlokTable lists content records a page at a time.
type ShlokTable struct {
	*resourceTable
	ctx   context.Context
	page  *console.Shloks
	shown []model.Shlok
}

// NewShlokTable creates the records table over page.
func NewShlokTable(ctx context.Context, theme *ui.Theme, page *console.Shloks) *ShlokTable {
	return &ShlokTable{
		resourceTable: newResourceTable(theme, "Shloks", []Column{
			{Title: "#", Right: true},
			{Title: "CHAPTER", MaxWidth: 14},
			{Title: "SHLOK", Right: true},
			{Title: "SPEAKER", MaxWidth: 16},
			{Title: "THEME", MaxWidth: 18},
			{Title: "SUMMARY", Expansion: 1},
			{Title: "VIDEO", MaxWidth: 20},
		}),
		ctx:  ctx,
		page: page,
	}
}

// Name implements Component.
func (st *ShlokTable) Name() string { return PageShloks }

// Start loads the current query, or the first page on the first visit.
func (st *ShlokTable) Start() { startList(st.ctx, st.page.List) }

// Stop implements Component.
func (st *ShlokTable) Stop() {}

// Hints implements Component.
func (st *ShlokTable) Hints() []ui.MenuHint { return nil }

// Refresh redraws from the controller.
func (st *ShlokTable) Refresh() {
	snap := st.page.List.Snapshot()
	st.shown = snap.Items
	render(st.resourceTable, snap, st.page.List.Controls(), func(i int, s model.Shlok) []string {
		pos := ""
		if snap.Shown.Search == "" {
			pos = strconv.Itoa(crud.ShlokPosition(snap.Shown.Page, snap.Shown.PageSize, i))
		}
		return []string{
			pos,
			s.ChapterName,
			strconv.Itoa(s.Shlok),
			s.Speaker,
			s.Theme,
			console.Preview(s.Summary, console.SummaryPreviewLen),
			s.VideoFile,
		}
	})
}

// Selected returns the highlighted row and its record.
func (st *ShlokTable) Selected() (int, model.Shlok, bool) {
	i := st.selected()
	if i < 0 || i >= len(st.shown) {
		return 0, model.Shlok{}, false
	}
	return i, st.shown[i], true
}

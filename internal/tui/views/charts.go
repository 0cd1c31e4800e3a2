package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/shlokadmin/internal/analytics"
	"github.com/matheus3301/shlokadmin/internal/console"
	"github.com/matheus3301/shlokadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

const barWidth = 30

// Bar draws count relative to maxCount as at most width blocks. A non-zero
// count always gets one block.
func Bar(count, maxCount, width int) string {
	if count <= 0 || maxCount <= 0 {
		return ""
	}
	n := count * width / maxCount
	return strings.Repeat("█", max(n, 1))
}

type chartRow struct {
	label string
	count int
}

func writeChart(b *strings.Builder, theme *ui.Theme, rows []chartRow) {
	if len(rows) == 0 {
		fmt.Fprintf(b, "  [%s]No data[-]\n", ui.Tag(theme.MutedColor))
		return
	}
	top, width := 0, 0
	for _, r := range rows {
		top = max(top, r.count)
		width = max(width, len([]rune(r.label)))
	}
	for _, r := range rows {
		pad := strings.Repeat(" ", width-len([]rune(r.label)))
		fmt.Fprintf(b, "  %s%s [%s]%s[-] %d\n", tview.Escape(r.label), pad, ui.Tag(theme.BarColor), Bar(r.count, top, barWidth), r.count)
	}
}

func heading(b *strings.Builder, theme *ui.Theme, title string) {
	fmt.Fprintf(b, "\n [%s::b]%s[-:-:-]\n", ui.Tag(theme.TitleColor), title)
}

// DashboardText renders the overview page.
func DashboardText(theme *ui.Theme, d *analytics.Dashboard) string {
	var b strings.Builder
	val := ui.Tag(theme.CounterColor)
	heading(&b, theme, "Overview")
	fmt.Fprintf(&b, "  Users [%[1]s]%[2]d[-]   Shloks [%[1]s]%[3]d[-]   Bookmarks [%[1]s]%[4]d[-]   Themes [%[1]s]%[5]d[-]\n",
		val, d.Overview.TotalUsers, d.Overview.TotalShloks, d.Overview.TotalBookmarks, d.Overview.TotalThemes)

	heading(&b, theme, fmt.Sprintf("Top %d themes", analytics.TopThemes))
	themes := make([]chartRow, len(d.Themes))
	for i, t := range d.Themes {
		themes[i] = chartRow{t.Theme, t.Count}
	}
	writeChart(&b, theme, themes)

	heading(&b, theme, "Shloks per chapter")
	chapters := make([]chartRow, len(d.Chapters))
	for i, c := range d.Chapters {
		chapters[i] = chartRow{c.Label, c.Count}
	}
	writeChart(&b, theme, chapters)

	heading(&b, theme, "Recent users")
	if len(d.RecentUsers) == 0 {
		fmt.Fprintf(&b, "  [%s]No users yet[-]\n", ui.Tag(theme.MutedColor))
	}
	for _, u := range d.RecentUsers {
		joined := u.CreatedAt
		fmt.Fprintf(&b, "  %-32s %-24s %s\n", tview.Escape(u.Email), tview.Escape(console.OrNA(u.Name)), console.Date(&joined))
	}
	return b.String()
}

// ReportText renders the analytics page.
func ReportText(theme *ui.Theme, r *analytics.Report) string {
	var b strings.Builder
	muted := ui.Tag(theme.MutedColor)
	skipped := make(map[string]bool, len(r.Skipped))
	for _, s := range r.Skipped {
		skipped[s] = true
	}

	heading(&b, theme, "Popular shloks")
	switch {
	case skipped[analytics.SectionPopular]:
		fmt.Fprintf(&b, "  [%s]Unavailable[-]\n", muted)
	case len(r.Popular) == 0:
		fmt.Fprintf(&b, "  [%s]No bookmarks yet[-]\n", muted)
	}
	for i, p := range r.Popular {
		fmt.Fprintf(&b, "  %2d. %-12s %3d  [%s]%s[-]  %s\n",
			i+1, tview.Escape(p.ChapterName+" "+fmt.Sprint(p.ShlokNum)), p.BookmarkCount,
			ui.Tag(theme.BarColor), tview.Escape(p.Theme),
			tview.Escape(cellText(console.Preview(p.Summary, console.PopularPreviewLen))))
	}

	heading(&b, theme, "User growth")
	switch {
	case skipped[analytics.SectionGrowth]:
		fmt.Fprintf(&b, "  [%s]Unavailable[-]\n", muted)
	case len(r.Growth) == 0:
		fmt.Fprintf(&b, "  [%s]No users yet[-]\n", muted)
	default:
		fmt.Fprintf(&b, "  [%s]%-12s %7s %5s[-]\n", muted, "DATE", "TOTAL", "NEW")
		for _, g := range r.Growth {
			fmt.Fprintf(&b, "  %-12s %7d %+5d\n", g.Date, g.TotalUsers, g.NewUsers)
		}
	}

	heading(&b, theme, "Bookmarks by theme")
	if skipped[analytics.SectionThemes] {
		fmt.Fprintf(&b, "  [%s]Unavailable[-]\n", muted)
	} else {
		rows := make([]chartRow, len(r.Themes))
		for i, t := range r.Themes {
			rows[i] = chartRow{t.Theme, t.Count}
		}
		writeChart(&b, theme, rows)
	}
	return b.String()
}

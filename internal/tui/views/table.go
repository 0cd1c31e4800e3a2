package views

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/shlokadmin/internal/listquery"
	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/matheus3301/shlokadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

// Column describes one table column.
type Column struct {
	Title     string
	Expansion int
	MaxWidth  int
	Right     bool
}

// resourceTable is a bordered table with a header row and a one-line footer
// for the pagination line and the last fetch error.
type resourceTable struct {
	*tview.Flex
	table   *tview.Table
	footer  *tview.TextView
	theme   *ui.Theme
	title   string
	columns []Column
}

func newResourceTable(theme *ui.Theme, title string, columns []Column) *resourceTable {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	footer := tview.NewTextView().SetDynamicColors(true)
	footer.SetBackgroundColor(theme.BgColor)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(table, 0, 1, true).
		AddItem(footer, 1, 0, false)
	flex.SetBorder(true)
	flex.SetBorderColor(theme.BorderColor)
	flex.SetBackgroundColor(theme.BgColor)
	flex.SetTitleColor(theme.TitleColor)
	flex.SetTitle(" " + title + " ")

	return &resourceTable{
		Flex:    flex,
		table:   table,
		footer:  footer,
		theme:   theme,
		title:   title,
		columns: columns,
	}
}

// selected returns the 0-based index of the highlighted data row, or -1.
func (t *resourceTable) selected() int {
	row, _ := t.table.GetSelection()
	if row < 1 || row >= t.table.GetRowCount() {
		return -1
	}
	return row - 1
}

func (t *resourceTable) setRows(rows [][]string) {
	prev, _ := t.table.GetSelection()
	t.table.Clear()
	for col, c := range t.columns {
		cell := tview.NewTableCell(" " + c.Title).
			SetSelectable(false).
			SetTextColor(t.theme.TableHeaderFg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(c.Expansion)
		t.table.SetCell(0, col, cell)
	}
	for i, r := range rows {
		for col, text := range r {
			c := t.columns[col]
			cell := tview.NewTableCell(" " + tview.Escape(cellText(text))).
				SetTextColor(t.theme.FgColor).
				SetExpansion(c.Expansion)
			if c.MaxWidth > 0 {
				cell.SetMaxWidth(c.MaxWidth)
			}
			if c.Right {
				cell.SetAlign(tview.AlignRight)
			}
			t.table.SetCell(i+1, col, cell)
		}
	}
	switch {
	case len(rows) == 0:
		t.table.Select(0, 0)
	case prev < 1:
		t.table.Select(1, 0)
	case prev > len(rows):
		t.table.Select(len(rows), 0)
	}
}

// render draws a controller snapshot: rows, title counters, loading marker,
// pagination line and error.
func render[T any](t *resourceTable, snap listquery.Snapshot[T], controls listquery.Controls, row func(i int, item T) []string) {
	rows := make([][]string, len(snap.Items))
	for i, item := range snap.Items {
		rows[i] = row(i, item)
	}
	t.setRows(rows)

	title := fmt.Sprintf(" %s [%s](%d)[-] ", t.title, ui.Tag(t.theme.CounterColor), snap.Pagination.Total)
	if snap.Query.Search != "" {
		title = fmt.Sprintf(" %s [%s](%d)[-] /%s ", t.title, ui.Tag(t.theme.CounterColor), snap.Pagination.Total, tview.Escape(snap.Query.Search))
	}
	if snap.Loading() {
		title += fmt.Sprintf("[%s]loading…[-] ", ui.Tag(t.theme.MutedColor))
	}
	t.SetTitle(title)

	t.footer.Clear()
	line := ""
	if controls.Visible {
		line = PageLine(snap.Pagination)
	}
	if snap.Status == listquery.Failed {
		if line != "" {
			line += "  "
		}
		line += fmt.Sprintf("[%s]%s[-]", ui.Tag(t.theme.FlashErrColor), tview.Escape(snap.Error))
	} else if len(snap.Items) == 0 && snap.Status == listquery.Loaded {
		line = fmt.Sprintf("[%s]No records[-]", ui.Tag(t.theme.MutedColor))
	}
	_, _ = fmt.Fprint(t.footer, " "+line)
}

// PageLine returns "Page p of n", or "" when there is a single page.
func PageLine(p model.Pagination) string {
	if p.Pages <= 1 {
		return ""
	}
	return fmt.Sprintf("Page %d of %d", p.Page, p.Pages)
}

// startList fetches the first page on the first visit and refetches the
// current query on later ones.
func startList[T any](ctx context.Context, c *listquery.Controller[T]) {
	if c.Snapshot().Status == listquery.Idle {
		c.Start(ctx)
		return
	}
	c.Refetch(ctx)
}

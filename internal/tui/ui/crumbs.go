package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// Crumbs is a breadcrumb bar showing the page stack and the active search.
type Crumbs struct {
	*tview.TextView
	theme  *Theme
	stack  []string
	search string
}

// NewCrumbs creates a new breadcrumb bar.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &Crumbs{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the trail for stack.
func (c *Crumbs) Update(stack []string) {
	c.stack = stack
	c.render()
}

// SetSearch shows term as a trailing filter crumb. Empty hides it.
func (c *Crumbs) SetSearch(term string) {
	c.search = term
	c.render()
}

func (c *Crumbs) render() {
	c.Clear()
	_, _ = fmt.Fprint(c, Trail(c.theme, c.stack, c.search))
}

// Trail formats the breadcrumb markup for stack and an optional search term.
func Trail(theme *Theme, stack []string, search string) string {
	if len(stack) == 0 {
		return ""
	}
	parts := make([]string, 0, len(stack)+1)
	for i, name := range stack {
		fg, bg, attr := theme.CrumbInactiveFg, theme.CrumbInactiveBg, ""
		if i == len(stack)-1 {
			fg, bg, attr = theme.CrumbActiveFg, theme.CrumbActiveBg, "b"
		}
		parts = append(parts, fmt.Sprintf("[%s:%s:%s] <%s> [-:-:-]", Tag(fg), Tag(bg), attr, name))
	}
	if search != "" {
		parts = append(parts, fmt.Sprintf("[%s]/%s[-]", Tag(theme.CounterColor), tview.Escape(search)))
	}
	return strings.Join(parts, " ")
}

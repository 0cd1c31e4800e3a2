package views

import (
	"fmt"

	"github.com/matheus3301/shlokadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

// TextPage is a scrollable page whose content is loaded when it starts. The
// dashboard and analytics pages are TextPages.
type TextPage struct {
	*tview.TextView
	theme  *ui.Theme
	name   string
	onLoad func()
}

// NewTextPage creates a page called name.
func NewTextPage(theme *ui.Theme, name, title string) *TextPage {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" " + title + " ")
	tv.SetTitleColor(theme.TitleColor)
	return &TextPage{TextView: tv, theme: theme, name: name}
}

// SetOnLoad sets the callback run each time the page starts.
func (tp *TextPage) SetOnLoad(fn func()) { tp.onLoad = fn }

// Loading marks the page as waiting for data.
func (tp *TextPage) Loading() {
	tp.Clear()
	_, _ = fmt.Fprintf(tp, "\n  [%s]Loading…[-]", ui.Tag(tp.theme.MutedColor))
}

// Show replaces the content with markup.
func (tp *TextPage) Show(markup string) {
	tp.Clear()
	_, _ = fmt.Fprint(tp, markup)
	tp.ScrollToBeginning()
}

// ShowError replaces the content with a failure message.
func (tp *TextPage) ShowError(msg string) {
	tp.Clear()
	_, _ = fmt.Fprintf(tp, "\n  [%s]%s[-]", ui.Tag(tp.theme.FlashErrColor), tview.Escape(msg))
}

// Name implements Component.
func (tp *TextPage) Name() string { return tp.name }

// Start loads the content.
func (tp *TextPage) Start() {
	if tp.onLoad != nil {
		tp.onLoad()
	}
}

// Stop implements Component.
func (tp *TextPage) Stop() {}

// Hints implements Component.
func (tp *TextPage) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "j/k", Description: "Scroll"}}
}

package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/shlokadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays the key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	_, _ = fmt.Fprint(hv, HelpText(theme))
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return PageHelp }

// Start implements Component.
func (hv *HelpView) Start() {}

// Stop implements Component.
func (hv *HelpView) Stop() {}

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "esc", Description: "Back"},
	}
}

var helpSections = []struct {
	title string
	keys  [][2]string
}{
	{"Global", [][2]string{
		{":", "Command mode"},
		{"ctrl-p/n", "Previous / next command in command mode"},
		{"/", "Search the current list (empty clears)"},
		{"esc", "Back / cancel"},
		{"?", "Help"},
		{"ctrl-r", "Reload the current page"},
		{"ctrl-c", "Quit"},
	}},
	{"Lists", [][2]string{
		{"[ / ]", "Previous / next page"},
		{"j/k, ↑/↓", "Move selection"},
	}},
	{"Shloks", [][2]string{
		{"e, enter", "Edit the selected shlok"},
		{"ctrl-d", "Delete the selected shlok"},
	}},
	{"Videos", [][2]string{
		{"a", "Add a video link"},
		{"e, enter", "Change the URL of the selected link"},
		{"ctrl-d", "Delete the selected link"},
	}},
	{"Users", [][2]string{
		{"enter", "Show account details"},
		{"ctrl-d", "Delete the selected account"},
	}},
	{"Commands", [][2]string{
		{":dashboard", "Overview and charts"},
		{":shloks", "Content records"},
		{":videos", "Video links"},
		{":users", "End-user accounts"},
		{":analytics", "Popular shloks, growth, themes"},
		{":logout", "Sign out and forget the stored session"},
		{":quit, :q", "Quit"},
	}},
}

// HelpText renders the reference.
func HelpText(theme *ui.Theme) string {
	kc := ui.Tag(theme.MenuKeyColor)
	var b strings.Builder
	for _, s := range helpSections {
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for _, k := range s.keys {
			fmt.Fprintf(&b, "  [%s]%-12s[-:-:-] %s\n", kc, tview.Escape(k[0]), k[1])
		}
	}
	return b.String()
}

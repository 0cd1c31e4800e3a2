package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Logo displays the console banner.
type Logo struct {
	*tview.TextView
	theme *Theme
}

// NewLogo creates a new logo component.
func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 0)

	l := &Logo{
		TextView: tv,
		theme:    theme,
	}
	l.render()
	return l
}

func (l *Logo) render() {
	title := Tag(l.theme.TitleColor)
	_, _ = fmt.Fprintf(l,
		"[%[1]s::b]╔═╗╦ ╦╦  ╔═╗╦╔═[-:-:-]\n"+
			"[%[1]s::b]╚═╗╠═╣║  ║ ║╠╩╗[-:-:-]\n"+
			"[%[1]s::b]╚═╝╩ ╩╩═╝╚═╝╩ ╩[-:-:-]\n"+
			"[%[2]s]admin console[-:-:-]",
		title, Tag(l.theme.MutedColor),
	)
}

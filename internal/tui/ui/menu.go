package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// MenuRows is the number of hints per menu column.
const MenuRows = 5

// Menu displays keyboard shortcut hints in columns of MenuRows.
type Menu struct {
	*tview.TextView
	theme *Theme
}

// NewMenu creates a new menu hint bar.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)

	return &Menu{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders hints column by column.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()
	_, _ = fmt.Fprint(m, m.layout(hints))
}

func (m *Menu) layout(hints []MenuHint) string {
	cols := (len(hints) + MenuRows - 1) / MenuRows
	cells := make([]string, len(hints))
	width := 0
	for i, h := range hints {
		cells[i] = fmt.Sprintf("<%s> %s", h.Key, h.Description)
		width = max(width, len(cells[i]))
	}

	var b strings.Builder
	for row := 0; row < MenuRows && row < len(hints); row++ {
		for col := 0; col < cols; col++ {
			i := col*MenuRows + row
			if i >= len(hints) {
				break
			}
			kc := m.theme.MenuKeyColor
			if hints[i].Danger {
				kc = m.theme.DangerKeyColor
			}
			pad := strings.Repeat(" ", width-len(cells[i])+2)
			fmt.Fprintf(&b, "[%s::b]<%s>[-:-:-] %s%s", Tag(kc), tview.Escape(hints[i].Key), hints[i].Description, pad)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

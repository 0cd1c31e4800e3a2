package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// OperatorData is what the header shows about the signed-in operator.
type OperatorData struct {
	Operator string
	Email    string
	Backend  string
	Profile  string
	Status   string
	Expires  time.Time // zero when the token carries no expiry
}

// OperatorInfo displays the session summary in the header.
type OperatorInfo struct {
	*tview.TextView
	theme *Theme
	now   func() time.Time
}

// NewOperatorInfo creates the header panel.
func NewOperatorInfo(theme *Theme) *OperatorInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &OperatorInfo{
		TextView: tv,
		theme:    theme,
		now:      time.Now,
	}
}

// Update renders data.
func (oi *OperatorInfo) Update(data OperatorData) {
	oi.Clear()

	rows := []struct{ label, value string }{
		{"Operator", dash(data.Operator)},
		{"Email", dash(data.Email)},
		{"Backend", dash(data.Backend)},
		{"Profile", dash(data.Profile)},
		{"Session", dash(data.Status)},
		{"Expires", Remaining(data.Expires, oi.now())},
	}
	fg, val := Tag(oi.theme.FgColor), Tag(oi.theme.CounterColor)
	for i, r := range rows {
		if i > 0 {
			_, _ = fmt.Fprint(oi, "\n")
		}
		_, _ = fmt.Fprintf(oi, "[%s::b]%-9s[-:-:-] [%s]%s[-]", fg, r.label+":", val, tview.Escape(r.value))
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Remaining formats the time left until expires.
func Remaining(expires, now time.Time) string {
	if expires.IsZero() {
		return "-"
	}
	d := expires.Sub(now)
	if d <= 0 {
		return "expired"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h >= 24 {
		return fmt.Sprintf("%dd%dh", h/24, h%24)
	}
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", max(m, 1))
}

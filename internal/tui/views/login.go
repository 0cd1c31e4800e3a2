package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/shlokadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

// LoginView collects the operator's email and password.
type LoginView struct {
	*tview.Flex
	form     *tview.Form
	email    *tview.InputField
	password *tview.InputField
	status   *tview.TextView
	theme    *ui.Theme
	backend  string
	busy     bool
	onSubmit func(email, password string)
}

// NewLoginView creates the login page. backend is shown under the form.
func NewLoginView(theme *ui.Theme, backend string) *LoginView {
	lv := &LoginView{
		form:     newForm(theme, "Sign in"),
		email:    field("Email", 36),
		password: field("Password", 36).SetMaskCharacter('*'),
		status:   tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter),
		theme:    theme,
		backend:  backend,
	}
	lv.status.SetBackgroundColor(theme.BgColor)
	lv.form.AddFormItem(lv.email).
		AddFormItem(lv.password).
		AddButton("Login", lv.submit)
	lv.form.SetButtonsAlign(tview.AlignCenter)
	lv.password.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			lv.submit()
		}
	})

	body := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(lv.form, 9, 0, true).
		AddItem(lv.status, 2, 0, false)
	lv.Flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(ui.Centered(body, 56, 11), 11, 0, true).
		AddItem(nil, 0, 1, false)
	lv.Flex.SetBackgroundColor(theme.BgColor)
	lv.info("Backend " + backend)
	return lv
}

// SetOnSubmit sets the callback receiving the entered credentials.
func (lv *LoginView) SetOnSubmit(fn func(email, password string)) { lv.onSubmit = fn }

// SetBusy disables submission and shows msg while a login or restore is in
// flight. An empty msg re-enables the form.
func (lv *LoginView) SetBusy(msg string) {
	lv.busy = msg != ""
	if lv.busy {
		lv.info(msg)
		return
	}
	lv.info("Backend " + lv.backend)
}

// ShowError shows a failed login and clears the password.
func (lv *LoginView) ShowError(msg string) {
	lv.password.SetText("")
	lv.status.Clear()
	_, _ = fmt.Fprintf(lv.status, "[%s]%s[-]", ui.Tag(lv.theme.FlashErrColor), tview.Escape(msg))
	lv.form.SetFocus(1)
}

// Reset clears the password and re-enables the form.
func (lv *LoginView) Reset() {
	lv.SetBusy("")
	lv.password.SetText("")
	lv.form.SetFocus(0)
}

func (lv *LoginView) info(msg string) {
	lv.status.Clear()
	_, _ = fmt.Fprintf(lv.status, "[%s]%s[-]", ui.Tag(lv.theme.MutedColor), tview.Escape(msg))
}

func (lv *LoginView) submit() {
	if lv.busy || lv.onSubmit == nil {
		return
	}
	email := strings.TrimSpace(lv.email.GetText())
	if email == "" || lv.password.GetText() == "" {
		lv.ShowError("Email and password are required")
		return
	}
	lv.onSubmit(email, lv.password.GetText())
}

// Name implements Component.
func (lv *LoginView) Name() string { return PageLogin }

// Start implements Component.
func (lv *LoginView) Start() {}

// Stop implements Component.
func (lv *LoginView) Stop() {}

// Hints implements Component.
func (lv *LoginView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "tab", Description: "Next field"},
		{Key: "enter", Description: "Login"},
		{Key: "ctrl-c", Description: "Quit"},
	}
}

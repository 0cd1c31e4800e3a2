package views

import (
	"context"
	"fmt"
	"strconv"

	"github.com/matheus3301/shlokadmin/internal/console"
	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/matheus3301/shlokadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

// UserTable lists end-user accounts a page at a time.
type UserTable struct {
	*resourceTable
	ctx   context.Context
	page  *console.Users
	shown []model.User
}

// NewUserTable creates the accounts table over page.
func NewUserTable(ctx context.Context, theme *ui.Theme, page *console.Users) *UserTable {
	return &UserTable{
		resourceTable: newResourceTable(theme, "Users", []Column{
			{Title: "EMAIL", Expansion: 1},
			{Title: "NAME", MaxWidth: 24},
			{Title: "PHONE", MaxWidth: 16},
			{Title: "BOOKMARKS", Right: true},
			{Title: "JOINED"},
		}),
		ctx:  ctx,
		page: page,
	}
}

// Name implements Component.
func (ut *UserTable) Name() string { return PageUsers }

// Start implements Component.
func (ut *UserTable) Start() { startList(ut.ctx, ut.page.List) }

// Stop implements Component.
func (ut *UserTable) Stop() {}

// Hints implements Component.
func (ut *UserTable) Hints() []ui.MenuHint { return nil }

// Refresh redraws from the controller.
func (ut *UserTable) Refresh() {
	snap := ut.page.List.Snapshot()
	ut.shown = snap.Items
	render(ut.resourceTable, snap, ut.page.List.Controls(), func(_ int, u model.User) []string {
		return []string{
			u.Email,
			console.OrNA(u.Name),
			console.OrNA(u.Phone),
			strconv.Itoa(len(u.Bookmarks)),
			console.Date(u.CreatedAt),
		}
	})
}

// Selected returns the highlighted account.
func (ut *UserTable) Selected() (model.User, bool) {
	i := ut.selected()
	if i < 0 || i >= len(ut.shown) {
		return model.User{}, false
	}
	return ut.shown[i], true
}

// UserDetailsView shows one account.
type UserDetailsView struct {
	*tview.TextView
	theme  *ui.Theme
	email  string
	onLoad func(email string)
}

// NewUserDetailsView creates the details page.
func NewUserDetailsView(theme *ui.Theme) *UserDetailsView {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitleColor(theme.TitleColor)
	tv.SetTitle(" User ")
	return &UserDetailsView{TextView: tv, theme: theme}
}

// SetOnLoad sets the callback fetching the account when the page starts.
func (uv *UserDetailsView) SetOnLoad(fn func(email string)) { uv.onLoad = fn }

// Open selects the account to show next.
func (uv *UserDetailsView) Open(email string) {
	uv.email = email
	uv.Clear()
	uv.SetTitle(" User " + tview.Escape(email) + " ")
	_, _ = fmt.Fprintf(uv, "\n  [%s]Loading…[-]", ui.Tag(uv.theme.MutedColor))
}

// Email returns the account being shown.
func (uv *UserDetailsView) Email() string { return uv.email }

// Show renders d.
func (uv *UserDetailsView) Show(d console.UserDetails) {
	uv.Clear()
	label := ui.Tag(uv.theme.FgColor)
	value := ui.Tag(uv.theme.CounterColor)
	rows := []struct{ k, v string }{
		{"Email", d.Email},
		{"Name", d.Name},
		{"Phone", d.Phone},
		{"Date of birth", d.DOB},
		{"Bookmarks", strconv.Itoa(d.Bookmarks)},
		{"Joined", d.Joined},
	}
	_, _ = fmt.Fprint(uv, "\n")
	for _, r := range rows {
		_, _ = fmt.Fprintf(uv, "  [%s::b]%-14s[-:-:-] [%s]%s[-]\n", label, r.k, value, tview.Escape(r.v))
	}
}

// ShowError renders a failed read.
func (uv *UserDetailsView) ShowError(msg string) {
	uv.Clear()
	_, _ = fmt.Fprintf(uv, "\n  [%s]%s[-]", ui.Tag(uv.theme.FlashErrColor), tview.Escape(msg))
}

// Name implements Component.
func (uv *UserDetailsView) Name() string { return PageUser }

// Start fetches the selected account.
func (uv *UserDetailsView) Start() {
	if uv.onLoad != nil && uv.email != "" {
		uv.onLoad(uv.email)
	}
}

// Stop implements Component.
func (uv *UserDetailsView) Stop() {}

// Hints implements Component.
func (uv *UserDetailsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "esc", Description: "Back"}}
}

// Package tui is the interactive terminal console.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/shlokadmin/internal/bus"
	"github.com/matheus3301/shlokadmin/internal/console"
	"github.com/matheus3301/shlokadmin/internal/crud"
	"github.com/matheus3301/shlokadmin/internal/listquery"
	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/matheus3301/shlokadmin/internal/tui/keys"
	"github.com/matheus3301/shlokadmin/internal/tui/ui"
	"github.com/matheus3301/shlokadmin/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const headerHeight = 6

// Options describes the environment shown in the header.
type Options struct {
	Profile string
	Backend string
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	console  *console.Console
	bus      *bus.Bus
	logger   *zap.Logger
	opts     Options
	theme    *ui.Theme
	registry *keys.Registry

	pages    *ui.Pages
	body     *tview.Flex
	prompt   *ui.Prompt
	flash    *ui.FlashModel
	flashBar *ui.FlashBar
	crumbs   *ui.Crumbs
	menu     *ui.Menu
	info     *ui.OperatorInfo

	login     *views.LoginView
	dashboard *views.TextPage
	analytics *views.TextPage
	shloks    *views.ShlokTable
	shlokForm *views.ShlokForm
	videos    *views.VideoTable
	videoForm *views.VideoForm
	users     *views.UserTable
	user      *views.UserDetailsView
	help      *views.HelpView
	confirm   *views.Confirm

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI over c. Events from b drive redraws.
func NewApp(c *console.Console, b *bus.Bus, logger *zap.Logger, opts Options) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:       tview.NewApplication(),
		console:   c,
		bus:       b,
		logger:    logger.Named("tui"),
		opts:      opts,
		theme:     theme,
		registry:  keys.NewRegistry(),
		pages:     ui.NewPages(),
		prompt:    ui.NewPrompt(theme, CommandNames()),
		flash:     ui.NewFlashModel(),
		flashBar:  ui.NewFlashBar(theme),
		crumbs:    ui.NewCrumbs(theme),
		menu:      ui.NewMenu(theme),
		info:      ui.NewOperatorInfo(theme),
		login:     views.NewLoginView(theme, opts.Backend),
		dashboard: views.NewTextPage(theme, views.PageDashboard, "Dashboard"),
		analytics: views.NewTextPage(theme, views.PageAnalytics, "Analytics"),
		shloks:    views.NewShlokTable(ctx, theme, c.Shloks),
		shlokForm: views.NewShlokForm(theme),
		videos:    views.NewVideoTable(ctx, theme, c.Videos),
		videoForm: views.NewVideoForm(theme),
		users:     views.NewUserTable(ctx, theme, c.Users),
		user:      views.NewUserDetailsView(theme),
		help:      views.NewHelpView(theme),
		confirm:   views.NewConfirm(theme),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.setupPages()
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	a.updateInfo()

	return a
}

func (a *App) setupPages() {
	for _, c := range []ui.Component{a.login, a.dashboard, a.analytics, a.shloks, a.videos, a.users, a.user, a.help} {
		a.pages.Add(c)
	}
	a.pages.AddOverlay(a.shlokForm, 72, 21)
	a.pages.AddOverlay(a.videoForm, 76, 9)
	a.pages.AddOverlay(a.confirm, 0, 0)

	a.pages.SetOnChange(func(stack []string) {
		a.crumbs.Update(stack)
		a.crumbs.SetSearch(a.searchTerm())
		a.menu.Update(a.hints())
		if c := a.pages.Component(a.pages.Current()); c != nil {
			a.app.SetFocus(c)
		}
	})
}

func (a *App) signedIn() bool { return a.console.Session.IsAuthenticated() }

func (a *App) setupBindings() {
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: ':', Description: "Command", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptCommand) },
		When:    a.signedIn,
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: '/', Description: "Search", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptFilter) },
		When:    func() bool { return a.signedIn() && a.searchable() },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyCtrlR, Label: "ctrl-r", Description: "Reload", Visible: true,
		Handler: a.reload,
		When:    a.signedIn,
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: '?', Description: "Help", Visible: true,
		Handler: func() { a.pages.Push(views.PageHelp) },
		When:    a.signedIn,
	})

	a.addPaging(views.PageShloks, a.console.Shloks.List)
	a.addPaging(views.PageUsers, a.console.Users.List)

	edit := func() {
		row, sh, ok := a.shloks.Selected()
		if !ok {
			return
		}
		if !a.shlokAddressable(row, "editing") {
			return
		}
		a.shlokForm.Edit(row, sh)
		a.pages.Push(views.PageShlokEdit)
	}
	a.registry.AddView(views.PageShloks, &keys.Action{Key: tcell.KeyRune, Rune: 'e', Description: "Edit", Visible: true, Handler: edit})
	a.registry.AddView(views.PageShloks, &keys.Action{Key: tcell.KeyEnter, Label: "enter", Description: "Edit", Handler: edit})
	a.registry.AddView(views.PageShloks, &keys.Action{
		Key: tcell.KeyCtrlD, Label: "ctrl-d", Description: "Delete", Visible: true, Danger: true,
		Handler: func() {
			row, _, ok := a.shloks.Selected()
			if !ok {
				return
			}
			if !a.shlokAddressable(row, "deleting") {
				return
			}
			a.ask(a.console.Shloks.DeletePrompt(), func(ctx context.Context) crud.Result {
				return a.console.Shloks.Delete(ctx, row)
			})
		},
	})

	editVideo := func() {
		v, ok := a.videos.Selected()
		if !ok {
			return
		}
		a.videoForm.Edit(v)
		a.pages.Push(views.PageVideoForm)
	}
	a.registry.AddView(views.PageVideos, &keys.Action{
		Key: tcell.KeyRune, Rune: 'a', Description: "Add", Visible: true,
		Handler: func() {
			a.videoForm.Add()
			a.pages.Push(views.PageVideoForm)
		},
	})
	a.registry.AddView(views.PageVideos, &keys.Action{Key: tcell.KeyRune, Rune: 'e', Description: "Edit", Visible: true, Handler: editVideo})
	a.registry.AddView(views.PageVideos, &keys.Action{Key: tcell.KeyEnter, Label: "enter", Description: "Edit", Handler: editVideo})
	a.registry.AddView(views.PageVideos, &keys.Action{
		Key: tcell.KeyCtrlD, Label: "ctrl-d", Description: "Delete", Visible: true, Danger: true,
		Handler: func() {
			v, ok := a.videos.Selected()
			if !ok {
				return
			}
			a.ask(a.console.Videos.DeletePrompt(v.Key), func(ctx context.Context) crud.Result {
				return a.console.Videos.Delete(ctx, v.Key)
			})
		},
	})

	a.registry.AddView(views.PageUsers, &keys.Action{
		Key: tcell.KeyEnter, Label: "enter", Description: "Details", Visible: true,
		Handler: func() {
			if u, ok := a.users.Selected(); ok {
				a.user.Open(u.Email)
				a.pages.Push(views.PageUser)
			}
		},
	})
	a.registry.AddView(views.PageUsers, &keys.Action{
		Key: tcell.KeyCtrlD, Label: "ctrl-d", Description: "Delete", Visible: true, Danger: true,
		Handler: func() {
			u, ok := a.users.Selected()
			if !ok {
				return
			}
			a.ask(a.console.Users.DeletePrompt(u.Email), func(ctx context.Context) crud.Result {
				return a.console.Users.Delete(ctx, u.Email)
			})
		},
	})
}

type pager interface {
	PrevPage(ctx context.Context) bool
	NextPage(ctx context.Context) bool
	Controls() listquery.Controls
}

func (a *App) addPaging(view string, p pager) {
	a.registry.AddView(view, &keys.Action{
		Key: tcell.KeyRune, Rune: '[', Description: "Prev page", Visible: true,
		Handler: func() { p.PrevPage(a.ctx) },
		When:    func() bool { return p.Controls().Visible },
	})
	a.registry.AddView(view, &keys.Action{
		Key: tcell.KeyRune, Rune: ']', Description: "Next page", Visible: true,
		Handler: func() { p.NextPage(a.ctx) },
		When:    func() bool { return p.Controls().Visible },
	})
}

func (a *App) setupCallbacks() {
	a.login.SetOnSubmit(func(email, password string) {
		a.login.SetBusy("Signing in…")
		go func() {
			res := a.console.Session.Login(a.ctx, email, password)
			a.app.QueueUpdateDraw(func() {
				a.login.SetBusy("")
				if !res.OK {
					a.login.ShowError(res.Error)
					return
				}
				a.login.Reset()
				a.flash.Info("Signed in as " + a.console.Session.Principal().DisplayName())
				a.enterConsole()
			})
		}()
	})

	a.dashboard.SetOnLoad(func() {
		a.dashboard.Loading()
		go func() {
			d, err := a.console.Analytics.Dashboard(a.ctx)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.dashboard.ShowError(err.Error())
					return
				}
				a.dashboard.Show(views.DashboardText(a.theme, d))
			})
		}()
	})
	a.analytics.SetOnLoad(func() {
		a.analytics.Loading()
		go func() {
			r, err := a.console.Analytics.Report(a.ctx)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.analytics.ShowError(err.Error())
					return
				}
				a.analytics.Show(views.ReportText(a.theme, r))
			})
		}()
	})
	a.user.SetOnLoad(func(email string) {
		go func() {
			d, err := a.console.Users.Details(a.ctx, email)
			a.app.QueueUpdateDraw(func() {
				if a.user.Email() != email {
					return
				}
				if err != nil {
					a.user.ShowError(err.Error())
					return
				}
				a.user.Show(d)
			})
		}()
	})

	a.shlokForm.SetOnDone(a.closeOverlay)
	a.shlokForm.SetOnSave(func(row int, s model.Shlok) {
		a.submit(func(ctx context.Context) crud.Result { return a.console.Shloks.Update(ctx, row, s) }, true)
	})
	a.videoForm.SetOnDone(a.closeOverlay)
	a.videoForm.SetOnSave(func(editing bool, v model.VideoLink) {
		a.submit(func(ctx context.Context) crud.Result {
			if editing {
				return a.console.Videos.Update(ctx, v.Key, v.URL)
			}
			return a.console.Videos.Create(ctx, v)
		}, true)
	})
	a.confirm.SetOnDone(a.closeOverlay)

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptCommand:
			a.execute(text)
		case ui.PromptFilter:
			a.search(text)
		}
	})
	a.prompt.SetOnCancel(a.hidePrompt)
}

func (a *App) setupLayout() {
	logo := ui.NewLogo(a.theme)
	header := tview.NewFlex().
		AddItem(a.info, 0, 2, false).
		AddItem(a.menu, 0, 3, false).
		AddItem(logo, 18, 0, false)

	a.body = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, headerHeight, 0, false).
		AddItem(a.body, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Text input widgets, forms and modals handle their own keys.
		switch a.app.GetFocus().(type) {
		case *tview.InputField, *tview.TextArea, *tview.Button:
			return event
		}
		if event.Key() == tcell.KeyEscape {
			if a.pages.Depth() > 1 && a.pages.Current() != views.PageConfirm {
				a.pages.Pop()
				return nil
			}
			return event
		}
		if a.registry.HandleEvent(a.pages.Current(), event) {
			a.menu.Update(a.hints())
			return nil
		}
		return event
	})
}

func (a *App) hints() []ui.MenuHint {
	current := a.pages.Current()
	var hints []ui.MenuHint
	if c := a.pages.Component(current); c != nil {
		hints = append(hints, c.Hints()...)
	}
	if current == views.PageLogin {
		return hints
	}
	return append(hints, a.registry.Hints(current)...)
}

// enterConsole shows the dashboard after a login or a restored session.
func (a *App) enterConsole() {
	a.updateInfo()
	a.pages.Reset(views.PageDashboard)
}

// toLogin tears the console down to the login page.
func (a *App) toLogin() {
	a.hidePrompt()
	a.updateInfo()
	a.login.Reset()
	a.pages.Reset(views.PageLogin)
}

func (a *App) closeOverlay() {
	if a.pages.Current() != a.pages.Base() {
		a.pages.Pop()
	}
}

// shlokAddressable warns and reports false unless row maps to a position on
// the page on screen.
func (a *App) shlokAddressable(row int, doing string) bool {
	if _, ok := a.console.Shloks.Position(row); ok {
		return true
	}
	if q, loaded := a.console.Shloks.List.Shown(); loaded && q.Search != "" {
		a.flash.Warn("Clear the search before " + doing + ": rows are addressed by position")
	} else {
		a.flash.Warn("Wait for the page to load before " + doing)
	}
	return false
}

// ask confirms a destructive command, then runs it.
func (a *App) ask(question string, run func(ctx context.Context) crud.Result) {
	a.confirm.Ask(question, func() { a.submit(run, false) })
	a.pages.Push(views.PageConfirm)
}

// submit runs a command off the UI goroutine and reports its outcome. With
// closeOnSuccess the open form is dismissed when the command succeeds.
func (a *App) submit(run func(ctx context.Context) crud.Result, closeOnSuccess bool) {
	go func() {
		res := run(a.ctx)
		a.app.QueueUpdateDraw(func() {
			a.flash.Outcome(res.OK, res.Message, res.Error)
			if res.OK && closeOnSuccess {
				a.closeOverlay()
			}
		})
	}()
}

func (a *App) showPrompt(mode ui.PromptMode) {
	text := ""
	if mode == ui.PromptFilter {
		text = a.searchTerm()
	}
	a.prompt.Activate(mode, text)
	a.body.Clear().
		AddItem(a.prompt, 3, 0, true).
		AddItem(a.pages, 0, 1, false)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.body.Clear().AddItem(a.pages, 0, 1, true)
	if c := a.pages.Component(a.pages.Current()); c != nil {
		a.app.SetFocus(c)
	}
}

// execute runs a ':' command.
func (a *App) execute(input string) {
	cmd := ParseCommand(input)
	switch cmd.Name {
	case CmdDashboard, CmdShloks, CmdVideos, CmdUsers, CmdAnalytics:
		a.pages.Reset(cmd.Name)
		if cmd.Args != "" && a.searchable() {
			a.search(cmd.Args)
		}
	case CmdHelp:
		a.pages.Push(views.PageHelp)
	case CmdLogout:
		a.console.Session.Logout()
		a.toLogin()
		a.flash.Info("Signed out")
	case CmdQuit:
		a.Stop()
	default:
		a.flash.Warn("Unknown command: " + cmd.Name)
	}
}

func (a *App) searchable() bool {
	switch a.pages.Base() {
	case views.PageShloks, views.PageUsers:
		return true
	}
	return false
}

func (a *App) searchTerm() string {
	switch a.pages.Base() {
	case views.PageShloks:
		return a.console.Shloks.List.Query().Search
	case views.PageUsers:
		return a.console.Users.List.Query().Search
	}
	return ""
}

func (a *App) search(term string) {
	term = strings.TrimSpace(term)
	switch a.pages.Base() {
	case views.PageShloks:
		a.console.Shloks.List.SetSearch(a.ctx, term)
	case views.PageUsers:
		a.console.Users.List.SetSearch(a.ctx, term)
	default:
		return
	}
	a.crumbs.SetSearch(term)
}

func (a *App) reload() {
	switch a.pages.Base() {
	case views.PageShloks:
		a.console.Shloks.List.Refetch(a.ctx)
	case views.PageVideos:
		a.console.Videos.List.Refetch(a.ctx)
	case views.PageUsers:
		a.console.Users.List.Refetch(a.ctx)
	default:
		if c := a.pages.Component(a.pages.Base()); c != nil {
			c.Start()
		}
	}
}

func (a *App) updateInfo() {
	s := a.console.Session
	data := ui.OperatorData{
		Backend: a.opts.Backend,
		Profile: a.opts.Profile,
		Status:  strings.ToLower(string(s.Status())),
	}
	if p := s.Principal(); p != nil {
		data.Operator = p.DisplayName()
		data.Email = p.Email
	}
	if exp, ok := s.TokenExpiry(); ok {
		data.Expires = exp
	}
	a.info.Update(data)
}

// watch turns bus events and flash messages into redraws until the app stops.
func (a *App) watch() {
	queries, stopQueries := a.bus.Subscribe("query.", 64)
	defer stopQueries()
	sessions, stopSessions := a.bus.Subscribe("session.", 8)
	defer stopSessions()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt := <-queries:
			a.app.QueueUpdateDraw(func() { a.refreshList(evt.Kind) })
		case evt := <-sessions:
			a.logger.Debug("session event", zap.String("kind", evt.Kind))
			a.app.QueueUpdateDraw(func() {
				a.updateInfo()
				if evt.Kind == "session.logout" && a.pages.Current() != views.PageLogin {
					a.toLogin()
					a.flash.Warn("Session ended, please sign in again")
				}
			})
		case <-a.flash.Watch():
			a.app.QueueUpdateDraw(func() { a.flashBar.Update(a.flash.Current()) })
		case <-ticker.C:
			a.app.QueueUpdateDraw(func() {
				a.flashBar.Update(a.flash.Current())
				a.updateInfo()
			})
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) refreshList(kind string) {
	switch {
	case strings.HasPrefix(kind, "query.shloks."):
		a.shloks.Refresh()
		if a.pages.Base() == views.PageShloks {
			a.menu.Update(a.hints())
		}
	case strings.HasPrefix(kind, "query.videos."):
		a.videos.Refresh()
	case strings.HasPrefix(kind, "query.users."):
		a.users.Refresh()
		if a.pages.Base() == views.PageUsers {
			a.menu.Update(a.hints())
		}
	}
}

// Run restores the persisted session, then blocks running the UI.
func (a *App) Run() error {
	a.pages.Reset(views.PageLogin)
	a.login.SetBusy("Restoring session…")

	go a.watch()
	go func() {
		ok, err := a.console.Session.Restore(a.ctx)
		if err != nil {
			a.logger.Warn("restore session", zap.Error(err))
		}
		a.app.QueueUpdateDraw(func() {
			if ok {
				a.flash.Info("Welcome back, " + a.console.Session.Principal().DisplayName())
				a.enterConsole()
				return
			}
			a.login.Reset()
			if err != nil {
				a.flash.Err("Could not restore session: " + err.Error())
			}
		})
	}()

	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/matheus3301/shlokadmin/internal/analytics"
	"github.com/matheus3301/shlokadmin/internal/console"
	"github.com/matheus3301/shlokadmin/internal/crud"
	"github.com/matheus3301/shlokadmin/internal/listquery"
	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/matheus3301/shlokadmin/internal/session"
	"golang.org/x/term"
)

const envPassword = "SHLOK_PASSWORD"

var errNotSignedIn = errors.New("not signed in; run shlokctl login <email>")

// usageError carries the usage line of a malformed command.
type usageError string

func (e usageError) Error() string { return "usage: shlokctl " + string(e) }

// readPassword reads from the terminal without echo. Tests replace it.
var readPassword = func() (string, error) {
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	return string(b), err
}

type ctl struct {
	console *console.Console
	out     io.Writer
	errOut  io.Writer
	in      *bufio.Reader
	json    bool
	yes     bool
}

func (x *ctl) dispatch(ctx context.Context, args []string) error {
	switch args[0] {
	case "login":
		if len(args) != 2 {
			return usageError("login <email>")
		}
		return x.cmdLogin(ctx, args[1])
	case "logout":
		x.console.Session.Logout()
		return x.done("Signed out")
	}

	if err := x.restore(ctx); err != nil {
		return err
	}
	defer x.settle()

	switch args[0] {
	case "whoami":
		return x.cmdWhoami()
	case "shloks":
		return x.cmdShloks(ctx, args[1:])
	case "videos":
		return x.cmdVideos(ctx, args[1:])
	case "users":
		return x.cmdUsers(ctx, args[1:])
	case "stats":
		return x.cmdStats(ctx)
	case "analytics", "report":
		return x.cmdAnalytics(ctx)
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (x *ctl) restore(ctx context.Context) error {
	ok, err := x.console.Session.Restore(ctx)
	if err != nil && !errors.Is(err, session.ErrAlreadyRestored) {
		return err
	}
	if !ok && !x.console.Session.IsAuthenticated() {
		return errNotSignedIn
	}
	return nil
}

// settle waits for refetches issued by a mutation.
func (x *ctl) settle() {
	x.console.Shloks.List.Wait()
	x.console.Videos.List.Wait()
	x.console.Users.List.Wait()
}

func (x *ctl) cmdLogin(ctx context.Context, email string) error {
	password := os.Getenv(envPassword)
	if password == "" {
		fmt.Fprint(x.errOut, "Password: ")
		pw, err := readPassword()
		fmt.Fprintln(x.errOut)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = pw
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return errors.New("Email and password are required")
	}
	res := x.console.Session.Login(ctx, email, password)
	if !res.OK {
		return errors.New(res.Error)
	}
	return x.cmdWhoami()
}

func (x *ctl) cmdWhoami() error {
	p := x.console.Session.Principal()
	if p == nil {
		return errNotSignedIn
	}
	exp, hasExp := x.console.Session.TokenExpiry()
	if x.json {
		out := struct {
			model.Principal
			Expires *time.Time `json:"expires,omitempty"`
		}{Principal: *p}
		if hasExp {
			out.Expires = &exp
		}
		return outputJSON(x.out, out)
	}
	fmt.Fprintf(x.out, "Operator: %s\n", p.DisplayName())
	fmt.Fprintf(x.out, "Email:    %s\n", console.OrNA(p.Email))
	if hasExp {
		fmt.Fprintf(x.out, "Expires:  %s\n", console.DateTime(&exp))
	}
	return nil
}

func (x *ctl) cmdShloks(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("shloks <list|update|delete>")
	}
	fs := flag.NewFlagSet("shloks "+args[0], flag.ContinueOnError)
	fs.SetOutput(x.errOut)
	page := fs.Int("page", 1, "page number")
	row := fs.Int("row", -1, "0-based row on the page")
	search := fs.String("search", "", "search term")
	chapter := fs.String("chapter", "", "chapter name")
	number := fs.Int("shlok", 0, "shlok number")
	speaker := fs.String("speaker", "", "speaker")
	theme := fs.String("theme", "", "theme")
	summary := fs.String("summary", "", "summary")
	video := fs.String("video", "", "video file key")
	if err := fs.Parse(args[1:]); err != nil {
		return usageError("shloks " + args[0] + " [flags]")
	}

	list := x.console.Shloks.List
	switch args[0] {
	case "list":
		snap, err := load(ctx, list, *page, *search)
		if err != nil {
			return err
		}
		return x.printShloks(snap)
	case "update", "delete":
		if *row < 0 {
			return usageError("shloks " + args[0] + " --page N --row R")
		}
		snap, err := load(ctx, list, *page, "")
		if err != nil {
			return err
		}
		if *row >= len(snap.Items) {
			return fmt.Errorf("row %d not on page %d (%d rows)", *row, *page, len(snap.Items))
		}
		if args[0] == "delete" {
			if !x.confirm(x.console.Shloks.DeletePrompt()) {
				return nil
			}
			return x.result(x.console.Shloks.Delete(ctx, *row))
		}
		sh := snap.Items[*row]
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "chapter":
				sh.ChapterName = *chapter
			case "shlok":
				sh.Shlok = *number
			case "speaker":
				sh.Speaker = *speaker
			case "theme":
				sh.Theme = *theme
			case "summary":
				sh.Summary = *summary
			case "video":
				sh.VideoFile = *video
			}
		})
		return x.result(x.console.Shloks.Update(ctx, *row, sh))
	default:
		return fmt.Errorf("unknown shloks subcommand: %s", args[0])
	}
}

func (x *ctl) printShloks(snap listquery.Snapshot[model.Shlok]) error {
	q := snap.Shown
	if x.json {
		// Positions are omitted while searching; they only address the unfiltered list.
		type row struct {
			Position *int `json:"position,omitempty"`
			model.Shlok
		}
		rows := make([]row, len(snap.Items))
		for i, s := range snap.Items {
			rows[i] = row{Shlok: s}
			if q.Search == "" {
				pos := crud.ShlokPosition(q.Page, q.PageSize, i)
				rows[i].Position = &pos
			}
		}
		return outputJSON(x.out, map[string]any{"items": rows, "pagination": snap.Pagination})
	}
	w := tabwriter.NewWriter(x.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROW\t#\tCHAPTER\tSHLOK\tSPEAKER\tTHEME\tSUMMARY")
	for i, s := range snap.Items {
		pos := ""
		if q.Search == "" {
			pos = fmt.Sprint(crud.ShlokPosition(q.Page, q.PageSize, i))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n", i, pos, s.ChapterName, s.Shlok, s.Speaker, s.Theme,
			console.Preview(oneLine(s.Summary), console.SummaryPreviewLen))
	}
	_ = w.Flush()
	x.footer(snap.Pagination, len(snap.Items))
	return nil
}

func (x *ctl) cmdVideos(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("videos <list|add|update|delete>")
	}
	v := x.console.Videos
	switch args[0] {
	case "list":
		snap, err := load(ctx, v.List, 1, "")
		if err != nil {
			return err
		}
		if x.json {
			return outputJSON(x.out, snap.Items)
		}
		w := tabwriter.NewWriter(x.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tURL")
		for _, l := range snap.Items {
			fmt.Fprintf(w, "%s\t%s\n", l.Key, l.URL)
		}
		_ = w.Flush()
		x.footer(snap.Pagination, len(snap.Items))
		return nil
	case "add":
		if len(args) != 3 {
			return usageError("videos add <key> <url>")
		}
		return x.result(v.Create(ctx, model.VideoLink{Key: args[1], URL: args[2]}))
	case "update":
		if len(args) != 3 {
			return usageError("videos update <key> <url>")
		}
		return x.result(v.Update(ctx, args[1], args[2]))
	case "delete":
		if len(args) != 2 {
			return usageError("videos delete <key>")
		}
		if !x.confirm(v.DeletePrompt(args[1])) {
			return nil
		}
		return x.result(v.Delete(ctx, args[1]))
	default:
		return fmt.Errorf("unknown videos subcommand: %s", args[0])
	}
}

func (x *ctl) cmdUsers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("users <list|show|delete>")
	}
	u := x.console.Users
	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("users list", flag.ContinueOnError)
		fs.SetOutput(x.errOut)
		page := fs.Int("page", 1, "page number")
		search := fs.String("search", "", "search term")
		if err := fs.Parse(args[1:]); err != nil {
			return usageError("users list [--page N] [--search S]")
		}
		snap, err := load(ctx, u.List, *page, *search)
		if err != nil {
			return err
		}
		if x.json {
			return outputJSON(x.out, map[string]any{"items": snap.Items, "pagination": snap.Pagination})
		}
		w := tabwriter.NewWriter(x.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "EMAIL\tNAME\tPHONE\tBOOKMARKS\tJOINED")
		for _, user := range snap.Items {
			d := console.DescribeUser(user)
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", d.Email, d.Name, d.Phone, d.Bookmarks, console.Date(user.CreatedAt))
		}
		_ = w.Flush()
		x.footer(snap.Pagination, len(snap.Items))
		return nil
	case "show":
		if len(args) != 2 {
			return usageError("users show <email>")
		}
		d, err := u.Details(ctx, args[1])
		if err != nil {
			return err
		}
		if x.json {
			return outputJSON(x.out, d)
		}
		fmt.Fprintf(x.out, "Email:     %s\n", d.Email)
		fmt.Fprintf(x.out, "Name:      %s\n", d.Name)
		fmt.Fprintf(x.out, "Phone:     %s\n", d.Phone)
		fmt.Fprintf(x.out, "Born:      %s\n", d.DOB)
		fmt.Fprintf(x.out, "Bookmarks: %d\n", d.Bookmarks)
		fmt.Fprintf(x.out, "Joined:    %s\n", d.Joined)
		return nil
	case "delete":
		if len(args) != 2 {
			return usageError("users delete <email>")
		}
		if !x.confirm(u.DeletePrompt(args[1])) {
			return nil
		}
		return x.result(u.Delete(ctx, args[1]))
	default:
		return fmt.Errorf("unknown users subcommand: %s", args[0])
	}
}

func (x *ctl) cmdStats(ctx context.Context) error {
	d, err := x.console.Analytics.Dashboard(ctx)
	if err != nil {
		return err
	}
	if x.json {
		return outputJSON(x.out, d)
	}
	o := d.Overview
	fmt.Fprintf(x.out, "Users:     %d\n", o.TotalUsers)
	fmt.Fprintf(x.out, "Shloks:    %d\n", o.TotalShloks)
	fmt.Fprintf(x.out, "Bookmarks: %d\n", o.TotalBookmarks)
	fmt.Fprintf(x.out, "Themes:    %d\n", o.TotalThemes)

	w := tabwriter.NewWriter(x.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nTHEME\tCOUNT")
	for _, t := range d.Themes {
		fmt.Fprintf(w, "%s\t%d\n", t.Theme, t.Count)
	}
	fmt.Fprintln(w, "\nCHAPTER\tSHLOKS")
	for _, c := range d.Chapters {
		fmt.Fprintf(w, "%s\t%d\n", c.Label, c.Count)
	}
	fmt.Fprintln(w, "\nRECENT USER\tJOINED")
	for _, u := range d.RecentUsers {
		name := u.Name
		if name == "" {
			name = u.Email
		}
		fmt.Fprintf(w, "%s\t%s\n", name, console.Date(&u.CreatedAt))
	}
	return w.Flush()
}

func (x *ctl) cmdAnalytics(ctx context.Context) error {
	r, err := x.console.Analytics.Report(ctx)
	if err != nil {
		return err
	}
	if x.json {
		return outputJSON(x.out, r)
	}
	w := tabwriter.NewWriter(x.out, 0, 0, 2, ' ', 0)
	if skipped(r, analytics.SectionPopular) {
		fmt.Fprintln(w, "POPULAR SHLOKS\tunavailable")
	} else {
		fmt.Fprintln(w, "#\tKEY\tBOOKMARKS\tTHEME\tSUMMARY")
		for i, p := range r.Popular {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", i+1, p.Key, p.BookmarkCount, p.Theme,
				console.Preview(oneLine(p.Summary), console.PopularPreviewLen))
		}
	}
	if skipped(r, analytics.SectionGrowth) {
		fmt.Fprintln(w, "\nUSER GROWTH\tunavailable")
	} else {
		fmt.Fprintln(w, "\nDATE\tTOTAL\tNEW")
		for _, g := range r.Growth {
			fmt.Fprintf(w, "%s\t%d\t%d\n", g.Date, g.TotalUsers, g.NewUsers)
		}
	}
	if skipped(r, analytics.SectionThemes) {
		fmt.Fprintln(w, "\nBOOKMARKS BY THEME\tunavailable")
	} else {
		fmt.Fprintln(w, "\nTHEME\tBOOKMARKS")
		for _, t := range r.Themes {
			fmt.Fprintf(w, "%s\t%d\n", t.Theme, t.Count)
		}
	}
	return w.Flush()
}

// load fetches one page of a list and waits for it.
func load[T any](ctx context.Context, l *listquery.Controller[T], page int, search string) (listquery.Snapshot[T], error) {
	l.SetSearch(ctx, search)
	l.Wait()
	if page != 1 {
		if !l.SetPage(ctx, page) {
			return listquery.Snapshot[T]{}, fmt.Errorf("page %d out of range (1-%d)", page, l.Snapshot().Pagination.Pages)
		}
		l.Wait()
	}
	snap := l.Snapshot()
	if snap.Status == listquery.Failed {
		return snap, errors.New(snap.Error)
	}
	return snap, nil
}

func (x *ctl) footer(p model.Pagination, n int) {
	if x.json {
		return
	}
	if n == 0 {
		fmt.Fprintln(x.out, "No records")
		return
	}
	if p.Pages > 1 {
		fmt.Fprintf(x.out, "Page %d of %d (%d total)\n", p.Page, p.Pages, p.Total)
	}
}

// confirm asks on stdin unless --yes was given. Only "y" or "yes" confirms.
func (x *ctl) confirm(question string) bool {
	if x.yes {
		return true
	}
	fmt.Fprintf(x.errOut, "%s [y/N] ", question)
	line, _ := x.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	fmt.Fprintln(x.errOut, "Cancelled")
	return false
}

func (x *ctl) result(r crud.Result) error {
	if !r.OK {
		return errors.New(r.Error)
	}
	return x.done(r.Message)
}

func (x *ctl) done(msg string) error {
	if x.json {
		return outputJSON(x.out, map[string]any{"ok": true, "message": msg})
	}
	fmt.Fprintln(x.out, msg)
	return nil
}

func skipped(r *analytics.Report, section string) bool {
	for _, s := range r.Skipped {
		if s == section {
			return true
		}
	}
	return false
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

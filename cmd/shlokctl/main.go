package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/shlokadmin/internal/app"
	"github.com/matheus3301/shlokadmin/internal/config"
	"github.com/matheus3301/shlokadmin/internal/console"
	"github.com/matheus3301/shlokadmin/internal/profile"
	"go.uber.org/fx"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	yesFlag := flag.Bool("yes", false, "skip delete confirmation")
	urlFlag := flag.String("url", "", "backend base URL (overrides config and "+config.EnvBaseURL+")")
	flag.Usage = printUsage
	flag.Parse()

	name := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	var c *console.Console
	fxApp := fx.New(
		app.Module(app.Params{Profile: name, Owner: "shlokctl", BaseURL: *urlFlag, LogStderr: true}),
		fx.Populate(&c),
	)
	if err := fxApp.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := fxApp.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	x := &ctl{
		console: c,
		out:     os.Stdout,
		errOut:  os.Stderr,
		in:      bufio.NewReader(os.Stdin),
		json:    *jsonFlag,
		yes:     *yesFlag,
	}
	err := x.dispatch(ctx, args)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelStop()
	_ = fxApp.Stop(stopCtx)

	if err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(os.Stderr, "usage: shlokctl %s\n", string(ue))
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: shlokctl [--profile <name>] [--url <url>] [--json] [--yes] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login <email>                     Sign in (password from "+envPassword+" or prompt)")
	fmt.Fprintln(os.Stderr, "  logout                            Forget the stored session")
	fmt.Fprintln(os.Stderr, "  whoami                            Show the signed-in operator")
	fmt.Fprintln(os.Stderr, "  shloks list [--page N] [--search S]")
	fmt.Fprintln(os.Stderr, "  shloks update --page N --row R [--chapter --shlok --speaker --theme --summary --video]")
	fmt.Fprintln(os.Stderr, "  shloks delete --page N --row R")
	fmt.Fprintln(os.Stderr, "  videos list")
	fmt.Fprintln(os.Stderr, "  videos add <key> <url>")
	fmt.Fprintln(os.Stderr, "  videos update <key> <url>")
	fmt.Fprintln(os.Stderr, "  videos delete <key>")
	fmt.Fprintln(os.Stderr, "  users list [--page N] [--search S]")
	fmt.Fprintln(os.Stderr, "  users show <email>")
	fmt.Fprintln(os.Stderr, "  users delete <email>")
	fmt.Fprintln(os.Stderr, "  stats                             Dashboard counters and charts")
	fmt.Fprintln(os.Stderr, "  analytics                         Popular shloks, user growth, bookmarks by theme")
}

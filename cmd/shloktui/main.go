package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/shlokadmin/internal/app"
	"github.com/matheus3301/shlokadmin/internal/bus"
	"github.com/matheus3301/shlokadmin/internal/config"
	"github.com/matheus3301/shlokadmin/internal/console"
	"github.com/matheus3301/shlokadmin/internal/profile"
	"github.com/matheus3301/shlokadmin/internal/tui"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	urlFlag := flag.String("url", "", "backend base URL (overrides config and "+config.EnvBaseURL+")")
	flag.Parse()

	name := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var (
		c      *console.Console
		b      *bus.Bus
		cfg    *config.Config
		logger *zap.Logger
	)
	fxApp := fx.New(
		app.Module(app.Params{Profile: name, Owner: "shloktui", Exclusive: true, BaseURL: *urlFlag}),
		fx.Populate(&c, &b, &cfg, &logger),
	)
	if err := fxApp.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.NewApp(c, b, logger, tui.Options{Profile: name, Backend: cfg.BaseURL}).Run()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelStop()
	_ = fxApp.Stop(stopCtx)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/matheus3301/shlokadmin/internal/mockapi"
	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:5000", "listen address")
	secret := flag.String("secret", "", "token signing secret (random when empty)")
	email := flag.String("admin-email", mockapi.DefaultSeed.AdminEmail, "seeded admin email")
	password := flag.String("admin-password", mockapi.DefaultSeed.AdminPassword, "seeded admin password")
	shloks := flag.Int("shloks", mockapi.DefaultSeed.Shloks, "number of seeded shloks")
	users := flag.Int("users", mockapi.DefaultSeed.Users, "number of seeded users")
	videos := flag.Int("videos", mockapi.DefaultSeed.Videos, "number of seeded video links")
	debug := flag.Bool("debug", false, "gin debug mode")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}

	if *secret == "" {
		*secret = uuid.NewString()
	}
	tokens := mockapi.DefaultTokenConfig(*secret)
	seed := mockapi.SeedOptions{
		AdminEmail:    *email,
		AdminPassword: *password,
		Shloks:        *shloks,
		Users:         *users,
		Videos:        *videos,
	}
	router, _, err := mockapi.New(seed, tokens, logger)
	if err != nil {
		logger.Fatal("build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("mock backend listening",
			zap.String("addr", *addr),
			zap.String("base_url", "http://"+*addr+"/api"),
			zap.String("admin", *email))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	logger.Info("mock backend stopped")
}

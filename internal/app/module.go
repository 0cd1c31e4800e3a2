// Package app composes the console's components with fx.
package app

import (
	"context"

	"github.com/matheus3301/shlokadmin/internal/api"
	"github.com/matheus3301/shlokadmin/internal/bus"
	"github.com/matheus3301/shlokadmin/internal/config"
	"github.com/matheus3301/shlokadmin/internal/console"
	"github.com/matheus3301/shlokadmin/internal/lock"
	"github.com/matheus3301/shlokadmin/internal/logging"
	"github.com/matheus3301/shlokadmin/internal/profile"
	"github.com/matheus3301/shlokadmin/internal/session"
	"github.com/matheus3301/shlokadmin/internal/store"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Params is the per-process input to Module.
type Params struct {
	Profile string
	Owner   string // binary name recorded in the profile lock
	// Exclusive takes the profile lock for the lifetime of the app.
	Exclusive bool
	// BaseURL overrides the resolved backend address when set.
	BaseURL string
	// LogStderr mirrors warnings to stderr. Never set for the TUI.
	LogStderr bool
}

// Module returns the fx module providing the console and its dependencies.
func Module(p Params) fx.Option {
	return fx.Module("shlokadmin",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideLock,
			provideStore,
			provideBus,
			provideClient,
			provideSession,
			provideConsole,
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	cfg, err := config.Resolve(profile.ConfigPath(), config.OSEnv())
	if err != nil {
		return nil, err
	}
	if p.BaseURL != "" {
		cfg.BaseURL = p.BaseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Path:    profile.LogPath(p.Profile),
		Profile: p.Profile,
		Level:   cfg.LogLevel,
		Stderr:  p.LogStderr,
	})
}

func provideLock(lc fx.Lifecycle, p Params, logger *zap.Logger) (*lock.Lock, error) {
	if !p.Exclusive {
		return nil, nil
	}
	l, err := lock.Acquire(profile.Dir(p.Profile), p.Owner)
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired", zap.String("owner", p.Owner))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := l.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			return nil
		},
	})
	return l, nil
}

// provideStore opens the database under the profile lock and drops the lock
// again when opening fails.
func provideStore(p Params, lk *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	path := profile.DBPath(p.Profile)
	db, result, err := store.OpenMigrated(path)
	if err != nil {
		if rerr := lk.Release(); rerr != nil {
			logger.Warn("error releasing lock", zap.Error(rerr))
		}
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", path))
	return db, nil
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideClient(cfg *config.Config, logger *zap.Logger) (*api.Client, error) {
	return api.New(cfg.BaseURL, api.WithLogger(logger.Named("api")))
}

func provideSession(db *store.DB, client *api.Client, cfg *config.Config, b *bus.Bus, logger *zap.Logger) *session.Store {
	return session.New(db, client, cfg.StorageKey, b, logger)
}

func provideConsole(client *api.Client, sess *session.Store, cfg *config.Config, b *bus.Bus, logger *zap.Logger) *console.Console {
	return console.New(client, sess, cfg.PageSize, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, p Params, cfg *config.Config, db *store.DB, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("console starting", zap.String("base_url", cfg.BaseURL), zap.String("owner", p.Owner))
			return nil
		},
		OnStop: func(context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			logger.Info("console stopped")
			_ = logger.Sync()
			return nil
		},
	})
}

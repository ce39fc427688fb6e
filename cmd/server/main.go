package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"cardly/internal/ai"
	"cardly/internal/config"
	"cardly/internal/db"
	"cardly/internal/db/mock"
	"cardly/internal/handlers"
	applog "cardly/internal/log"
	"cardly/internal/server"
	"cardly/internal/templates"
	"cardly/internal/upload"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newServerFunc       = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	defer applog.Sync()

	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}

	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	database, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}

	serverCfg := server.Config{
		Addr:      cfg.Server.Addr,
		StaticDir: cfg.Server.StaticDir,
		Session: server.SessionConfig{
			Lifetime:     cfg.Auth.Session.Lifetime,
			CookieName:   cfg.Auth.Session.CookieName,
			CookieDomain: cfg.Auth.Session.CookieDomain,
			CookieSecure: cfg.Auth.Session.CookieSecure,
		},
		Database:        database,
		Templates:       templates.Builtin(),
		DefaultTemplate: cfg.Templates.Default,
	}

	if cfg.Upload.Dir != "" {
		store, err := upload.NewStore(upload.Config{Dir: cfg.Upload.Dir, URLPath: cfg.Upload.URLPath, MaxBytes: cfg.Upload.MaxBytes})
		if err != nil {
			applog.Error(ctx, "failed to prepare upload directory", "dir", cfg.Upload.Dir, "error", err)
			return 1
		}
		serverCfg.Uploads = store
	} else {
		applog.Warn(ctx, "upload directory not configured; custom backgrounds disabled")
	}

	if generator := newImageGenerator(ctx, cfg.AI); generator != nil {
		serverCfg.AI = generator
	}

	srv, err := newServerFunc(serverCfg)
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	sigCh, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-sigCh:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
	case <-ctx.Done():
		applog.Info(ctx, "shutting down http server", "reason", ctx.Err())
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server encountered an error", "error", err)
		return 1
	}
	return 0
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.UseMock {
		applog.Info(ctx, "using seeded in-memory database", "demoUser", "riley@cardly.app")
		return newMockDatabaseFunc(ctx)
	}
	return configureDatabase(cfg)
}

// newImageGenerator returns nil when no API key is configured.
func newImageGenerator(ctx context.Context, cfg config.AIConfig) handlers.ImageGenerator {
	if cfg.APIKey == "" {
		applog.Info(ctx, "OPENAI_API_KEY not set; AI backgrounds disabled")
		return nil
	}
	client, err := ai.NewClient(ai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		applog.Error(ctx, "failed to create AI client", "error", err)
		return nil
	}
	return client
}

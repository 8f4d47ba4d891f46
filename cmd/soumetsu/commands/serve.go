package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soumetsu/soumetsu/internal/api"
	"github.com/soumetsu/soumetsu/internal/hcaptcha"
	"github.com/soumetsu/soumetsu/internal/logger"
	"github.com/soumetsu/soumetsu/internal/metrics"
	"github.com/soumetsu/soumetsu/internal/storage"
	"github.com/soumetsu/soumetsu/pkg/config"
	"github.com/soumetsu/soumetsu/pkg/sessions"
	"github.com/soumetsu/soumetsu/pkg/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Start the REST API server with the specified configuration.

Configuration is read from the optional YAML file given with --config and
from APP_* environment variables. Environment variables always win.

Examples:
  # Serve with defaults (0.0.0.0:80)
  soumetsu serve

  # Serve a local development instance with live config reload
  APP_HTTP_HOST=127.0.0.1 APP_HTTP_PORT=9000 APP_DEV_MODE=true soumetsu serve

  # Serve with a config file
  soumetsu serve --config /etc/soumetsu/config.yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

// serve wires every subsystem and runs the API server until the process
// receives SIGINT/SIGTERM or the listener fails.
func serve(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Database close error", "error", err)
		}
	}()

	sess, err := sessions.Open(cfg.Sessions)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Error("Session store close error", "error", err)
		}
	}()

	backend, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize file storage: %w", err)
	}

	metrics.Serve(ctx, cfg.Metrics)

	if cfg.DevMode {
		logger.Warn("Development mode enabled, rate limiting defaults off and config changes reload live")
		if cfgFile != "" {
			go watchConfig(ctx, cfgFile)
		}
	}

	srv := api.NewServer(cfg, api.Deps{
		Store:    db,
		Sessions: sess,
		Storage:  backend,
		Captcha:  hcaptcha.New(cfg.HCaptcha),
	})

	return srv.Start(ctx)
}

// watchConfig re-applies reloadable settings when the config file changes.
// Only logging settings take effect without a restart.
func watchConfig(ctx context.Context, path string) {
	err := config.Watch(ctx, path, func(next *config.Config) {
		logger.SetLevel(next.Logging.Level)
		logger.SetFormat(next.Logging.Format)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("Config watcher stopped", "error", err)
	}
}

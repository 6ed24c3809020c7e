package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"podcast_syncer/internal/api"
	"podcast_syncer/internal/config"
	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/service"
	"podcast_syncer/internal/supervisor"
)

var (
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "syncer",
	Short:         "Daily podcast statistics sync",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = setupLogger("info")

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			return err
		}

		logger = setupLogger(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")

	syncCmd.Flags().Int64Slice("podcast", nil, "limit the run to these podcast ids")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the daily scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := signalContext()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to initialize", "error", err)
			return err
		}
		defer a.Close()

		handler := api.NewHandler(a.orchestrator, a.scheduler, logger)
		server := &http.Server{
			Addr: cfg.Server.Addr,
			Handler: api.NewRouter(handler, api.Config{
				CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
				ControlRateLimit:   cfg.Server.ControlRateLimit,
			}),
		}

		tree := supervisor.NewTree(logger, supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout})
		tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))
		tree.AddSchedulerService(supervisor.NewSchedulerService(a.scheduler, a.orchestrator, cfg.Server.ShutdownTimeout))

		logger.Info("starting podcast syncer",
			"addr", cfg.Server.Addr,
			"settings_backend", cfg.Sync.SettingsBackend,
			"publisher", cfg.RabbitMQ.Enabled,
		)

		if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
			logger.Error("supervisor stopped", "error", err)
			return err
		}
		logger.Info("podcast syncer stopped")
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one manual sync and print the session summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		podcastIDs, err := cmd.Flags().GetInt64Slice("podcast")
		if err != nil {
			return err
		}

		ctx := signalContext()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to initialize", "error", err)
			return err
		}
		defer a.Close()

		session, err := a.orchestrator.Run(ctx, service.RunRequest{
			Trigger:    domain.TriggerManual,
			PodcastIDs: podcastIDs,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(session); err != nil {
			return fmt.Errorf("write session summary: %w", err)
		}

		if session.Status == domain.SessionFailed {
			return fmt.Errorf("sync session %s failed", session.ID)
		}
		return nil
	},
}

func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	return ctx
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

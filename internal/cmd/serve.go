package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/deckhand/deckhand/internal/config"
	errwrap "github.com/deckhand/deckhand/internal/errors"
	"github.com/deckhand/deckhand/internal/observability"
	"github.com/deckhand/deckhand/internal/ratelimit"
	"github.com/deckhand/deckhand/internal/server"
	"github.com/deckhand/deckhand/internal/server/handlers"
	"github.com/deckhand/deckhand/internal/store"
	"github.com/deckhand/deckhand/internal/tools"
	"github.com/deckhand/deckhand/internal/trackerapi"
)

var (
	serverPort int
	serverHost string
)

// signalHealthChecker implements HealthChecker for the signal system
type signalHealthChecker struct{}

func (s signalHealthChecker) CheckHealth(ctx context.Context) error {
	// Signal handlers are registered and ready
	return nil
}

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

// upstreamHealthChecker verifies the Taskdeck credentials are present.
// It does not call the upstream; readiness must not burn quota.
type upstreamHealthChecker struct {
	appToken  string
	userToken string
}

func (u upstreamHealthChecker) CheckHealth(ctx context.Context) error {
	switch {
	case u.appToken == "":
		return errwrap.NewConfigInvalidError("upstream app token not configured")
	case u.userToken == "":
		return errwrap.NewConfigInvalidError("upstream user token not configured")
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP tool server",
	Long: `Start the HTTP tool server with graceful shutdown support.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config reload (placeholder - restart recommended)

The server will cleanly shut down the HTTP server and flush logs on shutdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logLevel := viper.GetString("logging.level")
		observability.InitServerLogger(appName, logLevel)

		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "configuration load failed")
		}

		if cfg.Metrics.Enabled {
			metricsPort := cfg.Metrics.Port
			if metricsPort == 0 {
				metricsPort = 9090
			}
			if err := observability.InitMetrics(appName, metricsPort); err != nil {
				observability.ServerLogger.Error("Failed to initialize metrics",
					zap.Error(err))
				return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
			}
		}

		observability.ServerLogger.Info("Initializing server",
			zap.String("service", appName),
			zap.String("version", versionInfo.Version),
			zap.String("host", serverHost),
			zap.Int("port", serverPort),
			zap.Int("metrics_port", observability.GetMetricsPort()),
			zap.String("upstream", cfg.Upstream.BaseURL))

		// Build the admission and retry pipeline from config
		limiter := ratelimit.NewLimiter(
			ratelimit.Quota{Capacity: cfg.RateLimit.AppCapacity, Window: cfg.RateLimit.AppWindow},
			ratelimit.Quota{Capacity: cfg.RateLimit.UserCapacity, Window: cfg.RateLimit.UserWindow},
		)
		exec := ratelimit.NewExecutor(limiter)
		exec.MaxAttempts = cfg.RateLimit.MaxAttempts
		exec.BaseDelay = cfg.RateLimit.BaseDelay
		exec.MaxDelay = cfg.RateLimit.MaxDelay
		exec.Logger = observability.ServerLogger

		client := trackerapi.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.AppToken, cfg.Upstream.UserToken, exec)
		client.Timeout = cfg.Upstream.Timeout

		registry := tools.NewRegistry()
		tools.RegisterTaskdeckTools(registry, client)

		// Initialize health manager
		handlers.InitHealthManager(versionInfo.Version)
		hm := handlers.GetHealthManager()
		hm.RegisterChecker("signal_handlers", signalHealthChecker{})
		if cfg.Metrics.Enabled {
			hm.RegisterChecker("telemetry", telemetryHealthChecker{})
		}
		hm.RegisterChecker("upstream_credentials", upstreamHealthChecker{
			appToken:  cfg.Upstream.AppToken,
			userToken: cfg.Upstream.UserToken,
		})

		// Open the record cache store; the server runs without it if the
		// store cannot be opened, but readiness reports the failure.
		st, err := store.Open(cmd.Context(), cfg.Store)
		if err != nil {
			observability.ServerLogger.Warn("Record cache unavailable", zap.Error(err))
		} else {
			if err := st.Migrate(cmd.Context()); err != nil {
				observability.ServerLogger.Warn("Record cache migration failed", zap.Error(err))
				_ = st.Close()
			} else {
				hm.RegisterChecker("store", st)
				signals.OnShutdown(func(ctx context.Context) error {
					observability.ServerLogger.Info("Closing record cache store...")
					return st.Close()
				})
			}
		}

		// Create server
		srv := server.New(serverHost, serverPort, registry, limiter)

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout == 0 {
			shutdownTimeout = 10 * time.Second
		}

		// Register graceful shutdown handlers (LIFO order - last registered, first executed)
		// Handler 1: Flush logger (executed last)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Flushing logger...")
			if err := observability.ServerLogger.Sync(); err != nil {
				// Sync errors are often benign (stdout/stderr already closed)
				observability.ServerLogger.Warn("Logger sync returned error (may be benign)",
					zap.Error(err))
			}
			return nil
		})

		// Handler 2: Shutdown HTTP server (executed first)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errwrap.WrapInternal(ctx, err, "server shutdown failed")
			}

			observability.ServerLogger.Info("HTTP server stopped gracefully")
			return nil
		})

		// Register config reload handler (SIGHUP)
		signals.OnReload(func(ctx context.Context) error {
			observability.ServerLogger.Info("Received SIGHUP: attempting config reload")

			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); ok {
					observability.ServerLogger.Info("No config file found - using defaults and environment variables")
					return nil
				}
				observability.ServerLogger.Error("Failed to reload config file",
					zap.String("file", viper.ConfigFileUsed()),
					zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			observability.ServerLogger.Info("Configuration reloaded successfully",
				zap.String("file", viper.ConfigFileUsed()))

			// Quotas and credentials are bound at startup; a restart picks
			// up limiter and upstream changes.

			return nil
		})

		// Enable double-tap force quit (Ctrl+C within 2 seconds)
		if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
			Window:  2 * time.Second,
			Message: "Press Ctrl+C again within 2 seconds to force quit",
		}); err != nil {
			observability.ServerLogger.Warn("Failed to enable double-tap force quit",
				zap.Error(err))
		}

		// Start server in background goroutine
		errChan := make(chan error, 1)
		go func() {
			observability.ServerLogger.Info("Starting HTTP server...",
				zap.String("host", serverHost),
				zap.Int("port", serverPort))
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		// Start signal listener in background
		go func() {
			if err := signals.Listen(cmd.Context()); err != nil {
				observability.ServerLogger.Error("Signal handler error", zap.Error(err))
				errChan <- err
			}
		}()

		// Wait for error or shutdown completion
		if err := <-errChan; err != nil {
			return errwrap.WrapInternal(cmd.Context(), err, "server error")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "server host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

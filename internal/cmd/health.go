package cmd

import (
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckhand/deckhand/internal/config"
	errwrap "github.com/deckhand/deckhand/internal/errors"
	"github.com/deckhand/deckhand/internal/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run self-health check",
	Long:  "Run a self-health check to verify the application can start successfully.",
	Run: func(cmd *cobra.Command, args []string) {
		observability.CLILogger.Info("Running health check...")

		// Check 1: Version info available
		if versionInfo.Version == "" {
			observability.CLILogger.Error("❌ FAIL: Version information missing")
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Version information missing", errwrap.NewConfigInvalidError("Version information missing"))
			return
		}
		observability.CLILogger.Debug("Version check passed", zap.String("version", versionInfo.Version))
		observability.CLILogger.Info("✅ Version information available")

		// Check 2: Configuration loads
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			observability.CLILogger.Error("❌ FAIL: Configuration load failed", zap.Error(err))
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Configuration load failed", err)
			return
		}
		observability.CLILogger.Info("✅ Configuration system ready")

		// Check 3: Upstream credentials present
		if cfg.Upstream.AppToken == "" || cfg.Upstream.UserToken == "" {
			observability.CLILogger.Warn("⚠️  Taskdeck credentials not configured (set DECKHAND_APP_TOKEN and DECKHAND_USER_TOKEN)")
		} else {
			observability.CLILogger.Info("✅ Taskdeck credentials configured")
		}

		// Check 4: Rate limit config sane
		if cfg.RateLimit.AppCapacity <= 0 || cfg.RateLimit.UserCapacity <= 0 {
			observability.CLILogger.Error("❌ FAIL: Rate limit capacities must be positive")
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Invalid rate limit configuration", errwrap.NewConfigInvalidError("rate limit capacities must be positive"))
			return
		}
		observability.CLILogger.Info("✅ Rate limit configuration valid")

		// Overall status
		observability.CLILogger.Info("")
		observability.CLILogger.Info("✅ All health checks passed")
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

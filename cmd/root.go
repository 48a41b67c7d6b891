package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crimerate-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "crimerate",
	Short:        "Community crime rate pipeline",
	Long:         "Loads a wide monthly crime table and a census table, reshapes and joins them, computes cases per 100 residents by community, and flags outliers.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		// Persistent flags are merged into every subcommand's flag set.
		setString(cmd.Flags(), "log-level", &cfg.Log.Level)
		setString(cmd.Flags(), "log-format", &cfg.Log.Format)

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format override (json, console)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

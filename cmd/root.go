package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/catchment/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "catchment",
	Short: "Gravity-based spatial accessibility scoring",
	Long: "Computes potential spatial accessibility scores from precomputed distance matrices\n" +
		"using floating catchment area models (2SFCA, E2SFCA, 3SFCA, M2SFCA) built on a\n" +
		"configurable distance decay kernel.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/config"
)

var (
	cfg          *config.Config
	boundaryPath string
)

var rootCmd = &cobra.Command{
	Use:   "districtviz",
	Short: "District boundary lookup and name reconciliation",
	Long:  "Loads Telangana district boundaries, answers point-in-district and distance queries, and reconciles district names in tabular datasets against the canonical boundary names.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		if boundaryPath != "" {
			cfg.Boundary.Path = boundaryPath
		}

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
	rootCmd.PersistentFlags().StringVar(&boundaryPath, "boundary", "", "boundary file or URL (overrides boundary.path)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vorn-digital/adlens/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "adlens",
	Short: "Conversational ad performance analysis",
	Long:  "Routes natural-language instructions to ad report tables, generates and self-heals SQL via Claude, and renders results as charts with AI commentary.",
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

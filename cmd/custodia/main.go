package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"custodia/internal/platform/config"
	"custodia/internal/platform/logger"
)

var version = "dev"

func main() {
	_ = godotenv.Load(".env")

	cfg := config.FromEnv()

	root := &cobra.Command{
		Use:   "custodia",
		Short: "Banking account identity and permission management",
	}

	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error (env CUSTODIA_LOG_LEVEL)")
	root.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text|json (env CUSTODIA_LOG_FORMAT)")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk one account through the full identity and permission lifecycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(cfg)
			return runDemo(cmd.Context(), log)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("custodia " + version)
		},
	}

	root.AddCommand(demoCmd)
	root.AddCommand(versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// Package main is the entry point for the searchsync CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/config"
	logpkg "github.com/kailas-cloud/searchsync/internal/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "searchsync",
		Short: "Keep the site search index in sync with the CMS",
		Long: `searchsync projects CMS content (episodes, events, people, daily picks and
transcripts) into a Redis search index.

Configuration is read from config/${ENV}.yaml (ENV defaults to "local"). The YAML
may reference environment variables as ${VAR} or ${VAR:-default}; a .env file is
loaded first when present.

Required:
  REDIS_ADDR   index store address (index.addrs)
  CMS_URL      CMS base URL (cms.url)
  CMS_TOKEN    CMS static token (cms.token)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	cmd.AddCommand(rebuildCmd(&envFile))
	cmd.AddCommand(repairCmd(&envFile))
	cmd.AddCommand(serveCmd(&envFile))
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads the optional .env file, then the YAML config for ENV.
func loadConfig(envFile string) (config.Config, string, error) {
	if err := loadDotEnv(envFile); err != nil {
		return config.Config{}, "", fmt.Errorf("load env file: %w", err)
	}
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, env, nil
}

// loadDotEnv never overrides variables already set. A missing default .env is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		path = ".env"
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	return godotenv.Load(path)
}

// setup loads configuration and builds the logger.
func setup(envFile string) (config.Config, *zap.Logger, error) {
	cfg, env, err := loadConfig(envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logpkg.NewLogger(env, logpkg.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

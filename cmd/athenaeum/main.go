package main

import (
	"os"

	"github.com/emzola/athenaeum/config"
	_ "github.com/emzola/athenaeum/docs"
	"github.com/emzola/athenaeum/internal/jsonlog"
	"github.com/spf13/cobra"
)

// @title  Athenaeum API
// @version 1.0.0
// @description This is an API service for running a library: catalogue, readers and loans.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	rootCmd := &cobra.Command{
		Use:          "athenaeum",
		Short:        "Library catalogue, readers and loans API",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML configuration file")
	rootCmd.AddCommand(newServeCmd(&configPath), newAdminCmd(&configPath))
	return rootCmd
}

// loadConfig decodes the configuration and builds the logger at the
// configured level.
func loadConfig(path string) (config.Config, *jsonlog.Logger, error) {
	cfg, err := config.Decode(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	level, err := jsonlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, jsonlog.New(os.Stdout, level), nil
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kidoz/zbxctl/internal/config"
	"github.com/kidoz/zbxctl/internal/errs"
	"github.com/kidoz/zbxctl/internal/telemetry"
)

var (
	cfgFile      string
	verbose      bool
	cfg          *config.Config
	log          *slog.Logger
	otelShutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "zbxctl",
	Short: "zbxctl - operator tool for the Zabbix API",
	Long: `zbxctl drives the Zabbix JSON-RPC API from the command line:
it resolves credentials from the environment, configuration and
session files, and performs host, group, template and bulk
export/import operations against the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = newLogger(verbose)

		// Plain "zbxctl version" must work without any configuration.
		if cmd.Name() == "version" && !versionServer {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		otelShutdown, err = telemetry.Init(context.Background(), &cfg.Telemetry, verbose)
		if err != nil {
			return fmt.Errorf("failed to init telemetry: %w", err)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if otelShutdown != nil {
			return otelShutdown(context.Background())
		}
		return nil
	},
}

// Execute runs the CLI and exits with 0 on success, 2 on configuration
// errors and 1 on everything else.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errs.IsConfig(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.FindConfigPath(), "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Package main is the entry point for the tgrelay CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/formatter"
	"github.com/flemzord/tgrelay/pkg/app"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tgrelay",
		Short:         "Relay HTTP notifications to Telegram chats",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "Path to configuration file")
	root.AddCommand(versionCmd(), startCmd(), configCmd(), webhookCmd(), initCmd(), serviceCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and compiled formatters",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tgrelay %s (commit: %s, built: %s)\n", version, commit, date)
			fmt.Fprintln(out, "\nCompiled formatters:")
			for _, name := range formatter.Default().Names() {
				fmt.Fprintf(out, "  %s\n", name)
			}
		},
	}
}

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the relay server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			logLevel, _ := cmd.Flags().GetString("log-level")
			return app.Run(cmd.Context(), app.RunParams{
				ConfigPath: cfgPath,
				Version:    version,
				Commit:     commit,
				Date:       date,
				LogLevel:   logLevel,
			})
		},
	}
	cmd.Flags().String("log-level", "", "Override logging.level (debug, info, warn, error)")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check [path]",
		Short: "Validate configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			if len(args) == 1 {
				cfgPath = args[0]
			}
			cfg, path, err := app.LoadConfig(cfgPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration OK: %s (%d endpoints)\n", path, len(cfg.Endpoints))
			for _, ep := range cfg.Endpoints {
				fmt.Fprintf(out, "  POST %s\n", ep.Path)
			}
			for _, w := range config.Warnings(cfg) {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			return nil
		},
	})
	return cmd
}

// clientFromFlags loads the configuration named by --config and builds a
// Bot API client with a quiet logger.
func clientFromFlags(cmd *cobra.Command) (*config.Config, webhookClient, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, _, err := app.LoadConfig(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := app.NewLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return cfg, app.NewClient(cfg, logger), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

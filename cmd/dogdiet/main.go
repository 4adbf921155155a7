// Package main provides the dogdiet binary: an interactive diet planner, a
// one-shot CLI calculator, an HTTP API and a Telegram bot.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"dogdiet/internal/config"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	envFile    string
	logLevel   string
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "dogdiet",
		Short: "Dog diet calculator",
		Long: `dogdiet works out a dog's daily calorie needs and food amount from its
current and goal weight, and builds a 4-week plan for moving from the current
food amount to the target.

Run without a subcommand for an interactive session.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file loaded before the config")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		planCmd(opts),
		serveCmd(opts),
		botCmd(opts),
		hashTokenCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "dogdiet version %s\n", version)
			},
		},
	)
	return cmd
}

// load reads the configuration and builds the logger for a command.
func (o *options) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath, o.envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

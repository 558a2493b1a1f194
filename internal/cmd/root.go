// Package cmd wires the tq command tree. Each command builds its
// collaborators explicitly; nothing here holds process-wide state
// beyond the cobra tree itself.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goatkit/ticketq/internal/config"
	"github.com/goatkit/ticketq/internal/factory"
	"github.com/goatkit/ticketq/internal/registry"
)

var rootCmd = &cobra.Command{
	Use:   "tq",
	Short: "Work with tickets from any configured ticketing backend",
	Long: `tq fetches, filters, sorts and exports tickets through pluggable
ticketing adapters. Adapters are discovered at startup; run 'tq adapters'
to see what is installed and 'tq configure' to set one up.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagAdapter   string
	flagConfigDir string
	flagVerbose   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAdapter, "adapter", "", "adapter to use (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default: platform config dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command and renders typed errors with their
// suggestions. Returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var detailed interface{ Detail() string }
		if errors.As(err, &detailed) {
			fmt.Fprintln(os.Stderr, detailed.Detail())
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// deps bundles the collaborators every command starts from.
type deps struct {
	logger   *slog.Logger
	config   *config.Manager
	registry *registry.Registry
	factory  *factory.Factory
}

func buildDeps() (*deps, error) {
	logger := newLogger()
	cfg, err := config.NewManager(flagConfigDir)
	if err != nil {
		return nil, err
	}
	reg := registry.New(logger, registry.WithManifest(cfg.Dir()+"/adapters.yaml"))
	return &deps{
		logger:   logger,
		config:   cfg,
		registry: reg,
		factory:  factory.New(reg, cfg, logger),
	}, nil
}

// Package main is the steve CLI entry point.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/whitejm/steve/internal/catalog"
	"github.com/whitejm/steve/internal/config"
	"github.com/whitejm/steve/internal/store"
	"github.com/whitejm/steve/internal/tools"
)

var (
	// Global flags
	cfgPath string
	dbPath  string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "steve",
	Short: "steve - goal and task assistant",
	Long: `steve keeps goals, tasks, recurring templates, and notes in a local
SQLite database and puts a Gemini-backed assistant in front of them.

The assistant works exclusively through typed tools, so everything it can
do is also available directly as a subcommand.

Run without arguments to start the interactive chat.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(resolveConfigPath())
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Storage.DatabasePath = dbPath
		}
		logger, err = buildLogger(cfg, verbose)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file path (default ~/.steve/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalDoneCmd)

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskCompleteCmd)

	templateCmd.AddCommand(templateListCmd)

	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteAddCmd)

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(toolsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	return config.DefaultPath()
}

// buildLogger writes to the configured log file rather than the terminal,
// which the chat TUI owns.
func buildLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Logging.Level); err != nil {
		level = zapcore.InfoLevel
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		zcfg.OutputPaths = []string{cfg.Logging.File}
		zcfg.ErrorOutputPaths = []string{cfg.Logging.File}
	}
	return zcfg.Build()
}

// env bundles the open store and tool registry behind a command.
type env struct {
	store    *store.Store
	registry *tools.Registry
}

func openEnv() (*env, error) {
	st, err := store.Open(cfg.Storage.DatabasePath, logger.Named("store"))
	if err != nil {
		return nil, err
	}
	registry, err := catalog.New(st, logger.Named("catalog"))
	if err != nil {
		st.Close()
		return nil, err
	}
	return &env{store: st, registry: registry}, nil
}

func (e *env) Close() {
	_ = e.store.Close()
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teinac2012/attack-metrics-suite/internal/config"
	"github.com/teinac2012/attack-metrics-suite/internal/storage"
	"github.com/teinac2012/attack-metrics-suite/pkg/logger"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	cfg *config.Config
	log logger.Logger = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:               "attackmetrics",
	Short:             "Match event spatial metrics tool",
	Long:              "Turn recorded match actions into per-team statistics, density maps and PDF reports.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command. SIGINT/SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".attackmetrics", "analyses.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $ATTACKMETRICS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig layers flags over the loaded config and builds the logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		c.DBPath = dbPath
	} else {
		dbPath = c.DBPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	l, err := logger.New(os.Stderr, c.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	cfg, log = c, l
	return nil
}

// openStore opens the history database, creating its directory if needed.
func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

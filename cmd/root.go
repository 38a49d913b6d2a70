package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-w3-metrics/internal/config"
	"github.com/pable/go-w3-metrics/internal/logger"
	"github.com/pable/go-w3-metrics/internal/mappings"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "w3metrics",
	Short: "Warcraft III replay action metrics tool",
	Long:  "Aggregate decoded Warcraft III replay action logs into per-player action, APM, build and hero metrics.",

	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.w3metrics/metrics.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file (env W3M_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig resolves defaults, file, env and flags into cfg, in that order.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		c.DBPath = dbPath
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = logLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}
	logger.Init()
	if err := logger.SetLevelString(c.LogLevel); err != nil {
		return err
	}
	dbPath = c.DBPath
	cfg = c

	logger.Get().Debug(cmd.Context(), "config loaded",
		logger.String("db_path", c.DBPath),
		logger.Int("apm_interval_ms", c.APMIntervalMS),
	)
	return nil
}

// loadTables returns the reference tables named by tables_path, or the
// embedded defaults.
func loadTables() (*mappings.Tables, error) {
	if cfg == nil || cfg.TablesPath == "" {
		return mappings.Default()
	}
	t, err := mappings.Load(cfg.TablesPath)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	return t, nil
}

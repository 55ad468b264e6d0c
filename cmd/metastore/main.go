// Package main provides the metastore CLI, a store for runtime-defined
// record kinds, typed attributes, and links between records.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kindlab/metastore/internal/mgmt"
	"github.com/kindlab/metastore/internal/sqlite"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagLogLevel  string
	jsonOutput    bool
)

// Shared per-invocation state, set up by PersistentPreRunE.
var (
	logger   zerolog.Logger
	store    *sqlite.Store
	services *mgmt.Mgmt
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "metastore",
	Short: "Metastore is a dynamic typed metadata store",
	Long: `Metastore manages record kinds defined at runtime: attribute
definitions, entity definitions, link definitions, and the entities and
links instantiated from them.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  openServices,
	PersistentPostRunE: closeServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.metastore)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.metastore-db)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(attrDefCmd)
	rootCmd.AddCommand(entityDefCmd)
	rootCmd.AddCommand(linkDefCmd)
	rootCmd.AddCommand(entityCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(exportCmd)
}

// openServices loads the configuration, sets up logging, and opens the store.
func openServices(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	cfg, err := loadConfig(resolveConfigDir())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	cfg = cfg.Normalize()

	logger, err = newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	store, err = sqlite.Open(cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	services = mgmt.New(store, logger)
	return nil
}

// closeServices releases the store handle.
func closeServices(cmd *cobra.Command, args []string) error {
	if store == nil {
		return nil
	}
	return store.Close()
}

// newLogger builds a console logger at the given level.
func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}

// resolveConfigDir returns the configuration directory following the
// precedence: --config-dir flag > METASTORE_CONFIG_DIR env > default.
func resolveConfigDir() string {
	if flagConfigDir != "" {
		return flagConfigDir
	}
	if v := os.Getenv("METASTORE_CONFIG_DIR"); v != "" {
		return v
	}
	return defaultConfigDir
}

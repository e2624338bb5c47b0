package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ilikebug/ChatVortex/internal/config"
	"github.com/ilikebug/ChatVortex/internal/service"
	"github.com/ilikebug/ChatVortex/internal/store"
)

var (
	dataDir string
	verbose bool
	version = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatvortex",
	Short: "Manage locally stored AI chat sessions",
	Long: `chatvortex stores chat sessions and their messages in a local SQLite
database, degrading to a flat JSON snapshot when the database is
unavailable. Data left in the snapshot by a degraded run is migrated
back into the database on the next start.

Quick Start:
  chatvortex list                  # List all sessions
  chatvortex show <session-id>     # View a full conversation
  chatvortex export --format md    # Export sessions as Markdown
  chatvortex stats                 # Corpus-wide counters`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnv()
		if dataDir != "" {
			config.SetDataDir(dataDir)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Override the data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log degradation events to stderr as well")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// openService initializes the storage service over the configured data dir.
// The returned cleanup closes the primary store and the log file.
func openService() (*service.Service, service.Mode, func(), error) {
	logger := config.NewLogger()
	prefs := config.LoadPreferences()

	slotPath, err := config.SnapshotPath()
	if err != nil {
		logger.Close()
		return nil, service.ModeUninitialized, nil, fmt.Errorf("resolve snapshot path: %w", err)
	}
	slot := &store.FileSlot{Path: slotPath, MaxBytes: prefs.SnapshotMaxBytes}

	svc := service.New(slot, prefs, logger)
	mode, err := svc.Init(func() (service.Primary, error) {
		dbPath, err := config.DatabasePath()
		if err != nil {
			return nil, err
		}
		return store.Open(dbPath)
	})
	if err != nil {
		logger.Close()
		return nil, mode, nil, err
	}
	if verbose && mode == service.ModeFallback {
		fmt.Fprintln(os.Stderr, "warning: primary store unavailable, using fallback snapshot")
	}
	cleanup := func() {
		svc.Close()
		logger.Close()
	}
	return svc, mode, cleanup, nil
}

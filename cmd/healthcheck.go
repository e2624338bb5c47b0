package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ilikebug/ChatVortex/internal/config"
	"github.com/ilikebug/ChatVortex/internal/service"
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Report which storage tier is active",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, mode, cleanup, err := openService()
		if err != nil {
			return err
		}
		defer cleanup()

		dbPath, _ := config.DatabasePath()
		slotPath, _ := config.SnapshotPath()

		fmt.Printf("Active tier:  %s\n", mode)
		fmt.Printf("Database:     %s\n", dbPath)
		fmt.Printf("Snapshot:     %s\n", slotPath)
		fmt.Printf("Log file:     %s\n", config.LogPath())
		if mode == service.ModeFallback {
			fmt.Println("\nThe database could not be opened; writes go to the size-limited")
			fmt.Println("snapshot and will be migrated back once the database is reachable.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}

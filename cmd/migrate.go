package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ilikebug/ChatVortex/internal/service"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move fallback-snapshot sessions into the database",
	Long: `Move any sessions stored in the fallback JSON snapshot into the SQLite
database and clear the snapshot. Idempotent: database writes are upserts
keyed by id, so re-running after an interruption is safe. This also runs
automatically on every start while the database is reachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, mode, cleanup, err := openService()
		if err != nil {
			return err
		}
		defer cleanup()

		if mode != service.ModePrimary {
			return fmt.Errorf("database unavailable, nothing to migrate into")
		}
		// Init already migrated; a second run proves idempotence and picks
		// up anything written to the slot in between.
		if err := svc.MigrateIfNeeded(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Println("migration complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>...",
	Short: "Delete sessions and all their messages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := openService()
		if err != nil {
			return err
		}
		defer cleanup()

		for _, id := range args {
			if err := svc.DeleteSession(id); err != nil {
				return fmt.Errorf("delete %s: %w", id, err)
			}
			fmt.Printf("deleted %s\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

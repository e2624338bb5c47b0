package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus-wide storage counters",
	Long: `Show session and message totals, the session timestamp range, and an
estimated corpus size. The size is a heuristic (message count times a
configured per-message average), not a byte-exact accounting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, mode, cleanup, err := openService()
		if err != nil {
			return err
		}
		defer cleanup()

		stats, err := svc.Stats()
		if err != nil {
			return fmt.Errorf("compute stats: %w", err)
		}

		fmt.Printf("Tier:            %s\n", mode)
		fmt.Printf("Sessions:        %d\n", stats.TotalSessions)
		fmt.Printf("Messages:        %d\n", stats.TotalMessages)
		fmt.Printf("Estimated size:  %s\n", humanize.Bytes(uint64(stats.EstimatedSizeBytes)))
		if !stats.OldestSessionAt.IsZero() {
			fmt.Printf("Oldest session:  %s (%s)\n",
				stats.OldestSessionAt.Format(time.RFC3339), humanize.Time(stats.OldestSessionAt))
			fmt.Printf("Newest session:  %s (%s)\n",
				stats.NewestSessionAt.Format(time.RFC3339), humanize.Time(stats.NewestSessionAt))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ilikebug/ChatVortex/internal/store"
)

var showLimit int

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session's conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := openService()
		if err != nil {
			return err
		}
		defer cleanup()

		id := args[0]
		if showLimit > 0 {
			// Page query: the N most recent messages without loading the
			// whole session.
			msgs, err := svc.LoadMessagesPage(id, showLimit, time.Time{})
			if err != nil {
				return fmt.Errorf("load messages: %w", err)
			}
			// Returned newest-first; print oldest-first.
			for i := len(msgs) - 1; i >= 0; i-- {
				m := msgs[i]
				fmt.Printf("%s  %s\n%s\n\n",
					titleStyle.Render(m.Role),
					dateStyle.Render(m.Timestamp.Format(time.RFC3339)),
					m.Content)
			}
			return nil
		}

		sess, err := svc.LoadSession(id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no session with id %s", id)
		}
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		title := sess.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s  %s\n\n", titleStyle.Render(title), idStyle.Render(sess.ID))
		for _, m := range sess.Messages {
			fmt.Printf("%s  %s\n%s\n\n",
				titleStyle.Render(m.Role),
				dateStyle.Render(m.Timestamp.Format(time.RFC3339)),
				m.Content)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "Show only the N most recent messages")
	rootCmd.AddCommand(showCmd)
}

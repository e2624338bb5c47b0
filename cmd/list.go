package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	Long:  `List every stored chat session, most recently updated first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := openService()
		if err != nil {
			return err
		}
		defer cleanup()

		sums, err := svc.LoadSummaries()
		if err != nil {
			return fmt.Errorf("load summaries: %w", err)
		}
		if len(sums) == 0 {
			fmt.Println("No sessions stored.")
			return nil
		}

		for _, sum := range sums {
			title := sum.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Printf("%s  %s\n", titleStyle.Render(title), idStyle.Render(sum.ID))
			fmt.Printf("  %s messages · updated %s\n",
				countStyle.Render(fmt.Sprintf("%d", sum.MessageCount)),
				dateStyle.Render(humanize.Time(sum.UpdatedAt)))
			if sum.LastMessagePreview != "" {
				fmt.Printf("  %s\n", previewStyle.Render(sum.LastMessagePreview))
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

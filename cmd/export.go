package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ilikebug/ChatVortex/internal/export"
	"github.com/ilikebug/ChatVortex/internal/store"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export [session-id...]",
	Short: "Export sessions to a portable format",
	Long: `Export one or more sessions (all sessions when no ids are given)
in json, jsonl, md, or yaml format. With --output, each session is
written to <output>/<session-id>.<ext>; otherwise output goes to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exp, err := export.New(exportFormat)
		if err != nil {
			return err
		}

		svc, _, cleanup, err := openService()
		if err != nil {
			return err
		}
		defer cleanup()

		ids := args
		if len(ids) == 0 {
			sums, err := svc.LoadSummaries()
			if err != nil {
				return fmt.Errorf("load summaries: %w", err)
			}
			for _, sum := range sums {
				ids = append(ids, sum.ID)
			}
		}

		for _, id := range ids {
			sess, err := svc.LoadSession(id)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no session with id %s", id)
			}
			if err != nil {
				return fmt.Errorf("load session %s: %w", id, err)
			}

			if exportOutput == "" {
				if err := exp.Export(sess, os.Stdout); err != nil {
					return fmt.Errorf("export %s: %w", id, err)
				}
				continue
			}

			if err := os.MkdirAll(exportOutput, 0o755); err != nil {
				return err
			}
			path := filepath.Join(exportOutput, fmt.Sprintf("%s.%s", sess.ID, exp.Extension()))
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := exp.Export(sess, f); err != nil {
				f.Close()
				return fmt.Errorf("export %s: %w", id, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json, jsonl, md, yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output directory (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

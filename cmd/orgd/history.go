package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"orgd/internal/history"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently recorded organization outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := history.Open(historyPath())
			if err != nil {
				return fmt.Errorf("opening history journal: %w", err)
			}
			defer journal.Close()

			entries, err := journal.Recent(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No history recorded yet.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"When", "Status", "Category", "Source", "Destination", "Detail"})
			for _, e := range entries {
				t.AppendRow(table.Row{
					e.RecordedAt.Local().Format("2006-01-02 15:04:05"),
					e.Status, e.Category, e.Source, e.Dest, e.Detail,
				})
			}
			t.Render()

			counts, err := journal.CountByStatus(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Totals: %d moved, %d skipped, %d failed\n",
				counts["moved"], counts["skipped"], counts["failed"])
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of entries to show")

	return cmd
}

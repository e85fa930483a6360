package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"orgd/internal/history"
	"orgd/internal/organize"
	"orgd/pkg/types"
)

// NewOrganizeCmd creates the organize command for a one-shot sweep of files
// already sitting in the watched folder.
func NewOrganizeCmd() *cobra.Command {
	var noJournal bool

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Organize the files currently in the watched folder once",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.Enabled {
				return fmt.Errorf("organizing is disabled; run 'orgd config enable' first")
			}

			engine := organize.New()
			outcomes, err := engine.OrganizeDirectory(context.Background(), cfg)
			if err != nil {
				return err
			}

			var journal *history.Store
			if !noJournal {
				journal, err = history.Open(historyPath())
				if err != nil {
					return fmt.Errorf("opening history journal: %w", err)
				}
				defer journal.Close()
			}

			var moved, skipped, failed int
			for _, outcome := range outcomes {
				switch outcome.Status {
				case types.StatusMoved:
					moved++
					fmt.Println(outcome)
				case types.StatusSkipped:
					skipped++
				case types.StatusFailed:
					failed++
					fmt.Println(outcome)
				}
				if journal != nil {
					if recErr := journal.Record(context.Background(), outcome); recErr != nil {
						return recErr
					}
				}
			}

			fmt.Printf("%d moved, %d skipped, %d failed\n", moved, skipped, failed)
			if failed > 0 {
				return fmt.Errorf("%d files failed to organize", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "do not record outcomes in the history database")

	return cmd
}

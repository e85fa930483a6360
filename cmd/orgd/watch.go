package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"orgd/internal/errors"
	"orgd/internal/history"
	"orgd/internal/log"
	"orgd/internal/organize"
	"orgd/internal/watch"
	"orgd/pkg/types"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var noJournal bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the configured folder and organize arriving files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.Enabled {
				return fmt.Errorf("organizing is disabled; run 'orgd config enable' first")
			}

			daemon := watch.NewDaemon(cfg, organize.New())

			if !noJournal {
				journal, err := history.Open(historyPath())
				if err != nil {
					return fmt.Errorf("opening history journal: %w", err)
				}
				defer journal.Close()
				daemon.SetJournal(journal)
			}

			daemon.SetCallback(func(outcome types.MoveOutcome) {
				if outcome.Status == types.StatusMoved {
					fmt.Println(outcome)
				}
			})

			if err := daemon.Start(); err != nil {
				if errors.KindOf(err) == errors.FileNotFound {
					return fmt.Errorf("%w; create it or change it with 'orgd config set-folder'", err)
				}
				return err
			}

			fmt.Printf("Watching %s (Ctrl+C to stop)\n", cfg.WatchedFolder)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan

			fmt.Println("\nStopping...")
			if err := daemon.Stop(); err != nil {
				return err
			}

			status := daemon.Status()
			log.Info("Session finished: %d processed, %d moved, %d skipped, %d failed",
				status.Processed, status.Moved, status.Skipped, status.Failed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "do not record outcomes in the history database")

	return cmd
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewRulesCmd creates the rules command
func NewRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the configured category rules in match order",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"#", "Category", "Enabled", "Destination", "Extensions"})

			for i, rule := range cfg.Rules {
				exts := strings.Join(rule.Extensions, ", ")
				if len(exts) > 60 {
					exts = exts[:57] + "..."
				}
				t.AppendRow(table.Row{i + 1, rule.Name, rule.Enabled, rule.FolderPath, exts})
			}
			t.Render()

			fmt.Printf("Unmatched files go to %s\n", cfg.WatchedFolder+string(os.PathSeparator)+"Others")
			return nil
		},
	}
}

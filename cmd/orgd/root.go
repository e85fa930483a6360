package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"orgd/internal/config"
	"orgd/internal/log"
)

var (
	cfgFile string
	cfgPath string
	cfg     *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "orgd",
		Short: "Watches a folder and files new downloads into category folders",
		Long: `orgd monitors a folder (your Downloads folder by default) and moves
each newly arrived file into a category folder chosen by its extension:
images to Images, archives to Archives, and so on. Files still being
written are left alone until their size stops changing, and name
collisions at the destination are skipped, overwritten, or renamed
according to the configured duplicate policy.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetDebug(debug)

			path := cfgFile
			if path == "" {
				var err error
				path, err = config.DefaultPath()
				if err != nil {
					return fmt.Errorf("resolving config path: %w", err)
				}
			}
			cfgPath = path

			var err error
			cfg, err = config.NewFileStore(path).Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/orgd/config.json)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewOrganizeCmd())
	rootCmd.AddCommand(NewRulesCmd())
	rootCmd.AddCommand(NewHistoryCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

// historyPath returns the history database location, next to the config file.
func historyPath() string {
	return filepath.Join(filepath.Dir(cfgPath), "history.db")
}

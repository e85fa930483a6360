package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"orgd/internal/config"
	"orgd/pkg/types"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and modify the organizer configuration",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigInitCmd(),
		newConfigEnableCmd(true),
		newConfigEnableCmd(false),
		newConfigSetFolderCmd(),
		newConfigSetPolicyCmd(),
	)
	return cmd
}

func saveConfig(c *config.Config) error {
	return config.NewFileStore(cfgPath).Save(c)
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(cfg, "", "    ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			// PersistentPreRun already created a default file if none
			// existed; --force resets an existing one.
			if force {
				if err := saveConfig(config.New()); err != nil {
					return err
				}
			}
			fmt.Printf("Configuration at %s\n", cfgPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration with defaults")
	return cmd
}

func newConfigEnableCmd(enable bool) *cobra.Command {
	use, short := "enable", "Enable organizing"
	if !enable {
		use, short = "disable", "Disable organizing"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			next := cfg.Clone()
			next.Enabled = enable
			if err := saveConfig(next); err != nil {
				return err
			}
			fmt.Printf("Organizing %sd\n", use)
			return nil
		},
	}
}

func newConfigSetFolderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-folder <path>",
		Short: "Set the watched folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			next := cfg.Clone()
			next.WatchedFolder = folder
			if err := saveConfig(next); err != nil {
				return err
			}
			fmt.Printf("Watching %s\n", folder)
			return nil
		},
	}
}

func newConfigSetPolicyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-policy <skip|overwrite|rename>",
		Short: "Set the duplicate handling policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := types.ParseDuplicatePolicy(args[0])
			if err != nil {
				return err
			}
			next := cfg.Clone()
			next.DuplicatePolicy = policy
			if err := saveConfig(next); err != nil {
				return err
			}
			fmt.Printf("Duplicate policy set to %s\n", policy)
			return nil
		},
	}
}

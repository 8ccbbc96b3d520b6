package cmd

import (
	"fmt"

	"transitctl/pkg/config"
	"transitctl/pkg/tui"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage transitctl configuration",
	Long:  "View or edit your local configuration settings (like the API endpoint or the home stop for routing home).",
	RunE: func(cmd *cobra.Command, args []string) error {
		setHome, _ := cmd.Flags().GetString("set-home")
		if setHome == "" {
			// If no flags are given, launch the interactive TUI flow
			return tui.RunConfigTUI(cmd.Context(), client)
		}

		// appCfg carries env and flag overrides, only persist what is on disk
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fmt.Printf("Searching for address: '%s'...\n", setHome)
		match, err := tui.ResolveHome(cmd.Context(), client, setHome)
		if err != nil {
			return err
		}

		cfg.HomeAddress = tui.PlaceName(match)
		cfg.HomeStationID = string(match.ID)
		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Printf("✅ Home address successfully saved as: %s (ID: %s)\n", cfg.HomeAddress, cfg.HomeStationID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringP("set-home", "s", "", "Set your home address for transit routing")
}

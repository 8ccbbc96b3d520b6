package cmd

import (
	"transitctl/pkg/tui"

	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the interactive TUI",
	Long:  `Launch the Text User Interface to browse departure boards, plan journeys and export them interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.RunTUI(cmd.Context(), client)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blackwork",
	Short: "Blackwork is the dashboard of the tattoo studio voice receptionist",
	Long: `Blackwork is the dashboard of the tattoo studio voice receptionist.
Studio owners sign up, run the onboarding wizard to create their agent,
tune voice, hours and calendar settings and pick a plan.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Directory holding main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

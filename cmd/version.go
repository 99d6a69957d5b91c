package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stuttgart-things/delete-repo/internal/action"
	"github.com/stuttgart-things/delete-repo/internal/config"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit SHA, build date and default Gerrit plugin of the delete-repo CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(logo)
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", commit)
		fmt.Printf("Build Date: %s\n", buildDate)
		fmt.Printf("Plugin:     %s (action %s)\n", config.DefaultPluginName, action.DeleteID(config.DefaultPluginName))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "delete-repo",
	Short: "Delete Gerrit repositories",
	Long: `delete-repo deletes Gerrit repositories through the delete-project plugin.
It drives the confirmation dialog against a Gerrit server and can serve the
delete endpoint itself over a directory of bare repositories.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(logo)
		_ = cmd.Usage()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// @title           Power Wizard API
// @version         1.0
// @description     Sign-up wizard backend for Texas electricity plans.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the CLI. Running it without a subcommand starts the server.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "power-wizard",
		Short:        "Electricity plan sign-up wizard",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yml (default ./configs/config.yml)")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newServeCmd(&configPath), newEstimateCmd(), newPlansCmd())
	return root
}

package main

import (
	"os"

	"github.com/spf13/cobra"
)

// @title                      Brew Control API
// @version                    1.0
// @description                Brewing process controller: step sequencing, regulation and alarms.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "brewctl",
		Short:         "Brew process controller",
		SilenceUsage:  true,
		SilenceErrors: false,
		// serve is the default
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default configs/config.yml)")

	root.AddCommand(newServeCmd(&configPath), newSimulateCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the control loop and the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

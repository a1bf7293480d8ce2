package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gallery",
		Short:         "Image gallery server",
		Long:          "Image gallery server. Configuration is read from the environment and an optional .env file.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newIndexesCmd())
	return root
}

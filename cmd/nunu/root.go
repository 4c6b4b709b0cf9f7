package main

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "nunu",
		Short:         "Terminal client for the Nunu backend",
		Long:          "nunu manages your Nunu account session from the terminal: login, registro, logout e status.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newLoginCommand())
	root.AddCommand(newRegisterCommand())
	root.AddCommand(newLogoutCommand())
	root.AddCommand(newStatusCommand())
	return root
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paulos19/nunu"
)

const homeScreen = "/home"

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sair da sua conta",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := nunu.WithOrigin(cmd.Context(), "home")

			a, err := newApp(ctx, homeScreen)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.onScreen(homeScreen) {
				fmt.Fprintln(cmd.OutOrStdout(), "Você não está conectado.")
				return nil
			}

			// SignOut clears the visible session unconditionally; storage
			// cleanup failures are logged by the manager, not surfaced here.
			if err := a.manager.SignOut(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Você saiu da sua conta.")
			return nil
		},
	}
}

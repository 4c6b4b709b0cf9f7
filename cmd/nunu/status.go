package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paulos19/nunu"
	"github.com/Paulos19/nunu/api"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Mostrar a sessão atual",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := nunu.WithOrigin(cmd.Context(), "home")

			a, err := newApp(ctx, homeScreen)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if !a.onScreen(homeScreen) {
				fmt.Fprintln(out, "Você não está conectado.")
				fmt.Fprintln(out, "Entre com: nunu login")
				return nil
			}

			st := a.manager.Current()
			user := st.User
			fmt.Fprintf(out, "Conectado como %s <%s>\n", user.Name, user.Email)
			fmt.Fprintf(out, "Perfil: %s\n", user.Role)

			if info, err := api.InspectToken(a.client.AuthToken()); err == nil && !info.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "Sessão expira em: %s\n", info.ExpiresAt.Local().Format("02/01/2006 15:04"))
			}
			return nil
		},
	}
}

package main

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paulos19/nunu"
	"github.com/Paulos19/nunu/api"
	"github.com/Paulos19/nunu/internal/validate"
)

const registerScreen = "/auth/register"

// newRegisterCommand implements the three-step registration wizard:
// profile, personal data, password. Each step validates before the next
// one opens; the network is only touched after the final step.
func newRegisterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Criar uma nova conta",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := nunu.WithOrigin(cmd.Context(), "register")

			a, err := newApp(ctx, registerScreen)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.onScreen(registerScreen) {
				fmt.Fprintln(cmd.OutOrStdout(), a.redirectHint())
				return nil
			}

			out := cmd.OutOrStdout()
			reader := bufio.NewReader(cmd.InOrStdin())

			// Step 1: profile.
			fmt.Fprintln(out, "Como você quer usar o Nunu?")
			fmt.Fprintln(out, "  1) Cliente — contratar serviços")
			fmt.Fprintln(out, "  2) Prestador — oferecer serviços")
			var role string
			switch prompt(reader, "Escolha (1/2): ") {
			case "1":
				role = "CLIENT"
			case "2":
				role = "PROVIDER"
			default:
				fmt.Fprintln(out, validate.MsgInvalidRole)
				return errSilent
			}

			// Step 2: personal data.
			name := prompt(reader, "Nome: ")
			email := prompt(reader, "E-mail: ")

			// Step 3: password, then the full schema at once.
			password := prompt(reader, "Senha (mínimo 6 caracteres): ")
			input := validate.RegisterInput{Name: name, Email: email, Password: password, Role: role}
			if err := input.Validate(); err != nil {
				printFieldErrors(cmd, err)
				return errSilent
			}

			err = a.client.Register(ctx, api.RegisterRequest{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     role,
			})
			if err != nil {
				var apiErr *api.APIError
				switch {
				case errors.As(err, &apiErr) && apiErr.Message != "":
					fmt.Fprintln(out, apiErr.Message)
				case errors.Is(err, nunu.ErrNetworkUnavailable):
					fmt.Fprintln(out, "Não foi possível conectar ao servidor. Verifique sua conexão.")
				default:
					fmt.Fprintln(out, "Erro ao criar conta.")
				}
				return errSilent
			}

			fmt.Fprintln(out, "Sua conta foi criada com sucesso.")
			fmt.Fprintln(out, "Agora entre com: nunu login")
			return nil
		},
	}
	return cmd
}

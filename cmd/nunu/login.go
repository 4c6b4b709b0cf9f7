package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Paulos19/nunu"
	"github.com/Paulos19/nunu/internal/validate"
)

const loginScreen = "/auth/login"

func newLoginCommand() *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Entrar na sua conta",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := nunu.WithOrigin(cmd.Context(), "login")

			a, err := newApp(ctx, loginScreen)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.onScreen(loginScreen) {
				fmt.Fprintln(cmd.OutOrStdout(), a.redirectHint())
				return nil
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				email = prompt(reader, "E-mail: ")
			}
			if password == "" {
				password = prompt(reader, "Senha: ")
			}

			input := validate.LoginInput{Email: email, Password: password}
			if err := input.Validate(); err != nil {
				printFieldErrors(cmd, err)
				return errSilent
			}

			creds, err := a.client.Login(ctx, email, password)
			if err != nil {
				switch {
				case errors.Is(err, nunu.ErrInvalidCredentials):
					fmt.Fprintln(cmd.OutOrStdout(), "E-mail ou senha incorretos.")
				case errors.Is(err, nunu.ErrMalformedResponse):
					fmt.Fprintln(cmd.OutOrStdout(), "Resposta inesperada do servidor. Tente novamente mais tarde.")
				case errors.Is(err, nunu.ErrNetworkUnavailable):
					fmt.Fprintln(cmd.OutOrStdout(), "Não foi possível conectar ao servidor. Verifique sua conexão.")
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Erro ao fazer login.")
				}
				return errSilent
			}

			user := nunu.User{
				ID:    creds.User.ID,
				Name:  creds.User.Name,
				Email: creds.User.Email,
				Role:  nunu.Role(creds.User.Role),
			}
			if err := a.manager.SignIn(ctx, creds.Token, user); err != nil {
				if errors.Is(err, nunu.ErrSessionPersistence) {
					fmt.Fprintln(cmd.OutOrStdout(), "Não foi possível salvar sua sessão. Tente novamente.")
					return errSilent
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Bem-vindo, %s!\n", user.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account e-mail")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

// errSilent signals a failure already reported to the user in product
// wording; cobra must not print it again.
var errSilent = errors.New("already reported")

func prompt(reader *bufio.Reader, label string) string {
	fmt.Fprint(os.Stderr, label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func printFieldErrors(cmd *cobra.Command, err error) {
	var errs validate.Errors
	if errors.As(err, &errs) {
		for _, fe := range errs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", fe.Field, fe.Message)
		}
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), err.Error())
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/finanmaster/internal/api"
	"github.com/Veraticus/finanmaster/internal/cli"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the backend",
		Long: `Log in and save the session to session.file. The password is read
without echo.`,
		RunE: runLogin,
	}
	cmd.Flags().String("email", "", "Account email")
	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	p := prompter(cmd)

	email := changed(cmd, "email", "")
	if email == "" {
		var err error
		if email, err = p.Require(ctx, "E-mail"); err != nil {
			return err
		}
	}
	password, err := p.Password(ctx, "Senha")
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	result, err := client.Login(ctx, model.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	if err := client.SaveSession(settings.Session.File); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(result.Message))
	return nil
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			if client.HasSession() {
				// The local session goes away even if the backend is down.
				if _, err := client.Logout(cmd.Context()); err != nil {
					slog.Warn("backend logout failed", "error", err)
				}
			}
			if err := api.ClearSession(settings.Session.File); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Sessão encerrada."))
			return nil
		},
	}
}

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  `Create an account. The backend logs the new user in and the session is saved.`,
		RunE:  runRegister,
	}
	cmd.Flags().String("username", "", "User name")
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("hint", "", "Password hint")
	return cmd
}

func runRegister(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	p := prompter(cmd)

	reg := model.Registration{
		Username:     changed(cmd, "username", ""),
		Email:        changed(cmd, "email", ""),
		PasswordHint: changed(cmd, "hint", ""),
	}
	var err error
	if reg.Username == "" {
		if reg.Username, err = p.Require(ctx, "Nome de usuário"); err != nil {
			return err
		}
	}
	if reg.Email == "" {
		if reg.Email, err = p.Require(ctx, "E-mail"); err != nil {
			return err
		}
	}
	if reg.Password, err = p.Password(ctx, "Senha"); err != nil {
		return err
	}
	confirm, err := p.Password(ctx, "Confirme a senha")
	if err != nil {
		return err
	}
	if confirm != reg.Password {
		return fmt.Errorf("as senhas não coincidem")
	}
	if !cmd.Flags().Changed("hint") {
		if reg.PasswordHint, err = p.Ask(ctx, "Dica de senha (opcional)", ""); err != nil {
			return err
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	result, err := client.Register(ctx, reg)
	if err != nil {
		return err
	}
	if err := client.SaveSession(settings.Session.File); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(result.Message))
	return nil
}

func passwordHintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password-hint EMAIL",
		Short: "Show the password hint of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			hint, err := client.PasswordHint(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Dica: "+hint))
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"preserva/internal/session"
)

var (
	authEmail    string
	authPassword string
	authName     string
)

const authTimeout = 30 * time.Second

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the portal and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if errs := session.ValidateLogin(authEmail, authPassword); len(errs) > 0 {
			return fieldErr(errs)
		}
		ws, err := buildWorkspace()
		if err != nil {
			return err
		}
		mgr := session.NewManager(ws.client, ws.tokens, logger)

		ctx, cancel := context.WithTimeout(cmd.Context(), authTimeout)
		defer cancel()
		if err := mgr.Login(ctx, authEmail, authPassword); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if u, ok := mgr.User(); ok {
			fmt.Printf("Autenticado como %s <%s>\n", u.Name, u.Email)
		} else {
			fmt.Println("Autenticado.")
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		if errs := session.ValidateRegister(authName, authEmail, authPassword); len(errs) > 0 {
			return fieldErr(errs)
		}
		ws, err := buildWorkspace()
		if err != nil {
			return err
		}
		mgr := session.NewManager(ws.client, ws.tokens, logger)

		ctx, cancel := context.WithTimeout(cmd.Context(), authTimeout)
		defer cancel()
		if err := mgr.Register(ctx, authName, authEmail, authPassword); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		fmt.Printf("Conta criada para %s.\n", authEmail)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := buildWorkspace()
		if err != nil {
			return err
		}
		if err := ws.tokens.Clear(); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		fmt.Println("Sessão encerrada.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := buildWorkspace()
		if err != nil {
			return err
		}
		if ws.tokens.Token() == "" {
			return fmt.Errorf("nenhuma sessão ativa; use 'preserva login'")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), authTimeout)
		defer cancel()
		u, err := ws.client.Me(ctx)
		if err != nil {
			return fmt.Errorf("whoami: %w", err)
		}
		fmt.Printf("%s <%s>\n", u.Name, u.Email)
		return nil
	},
}

// fieldErr flattens validation messages into a single CLI error.
func fieldErr(errs session.FieldErrors) error {
	for _, field := range []string{"name", "email", "password"} {
		if msg, ok := errs[field]; ok {
			return fmt.Errorf("%s", msg)
		}
	}
	for _, msg := range errs {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func init() {
	loginCmd.Flags().StringVarP(&authEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&authPassword, "password", "p", "", "account password")

	registerCmd.Flags().StringVarP(&authName, "name", "n", "", "full name")
	registerCmd.Flags().StringVarP(&authEmail, "email", "e", "", "account email")
	registerCmd.Flags().StringVarP(&authPassword, "password", "p", "", "account password")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/reallife-app/reallife/internal/commands"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the Real Life backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ready(); err != nil {
			return err
		}

		username, password := loginUsername, loginPassword
		if (username == "" || password == "") && term.IsTerminal(os.Stdin.Fd()) {
			err := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Username").
						Value(&username),
					huh.NewInput().
						Title("Password").
						EchoMode(huh.EchoModePassword).
						Value(&password),
				),
			).Run()
			if err != nil {
				return err
			}
		}

		result, err := commands.Login(commandContext(cmd), client, store, username, password)
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s.\n", result.Username)
		if !result.ExpiresAt.IsZero() {
			fmt.Printf("  Session valid until %s\n", result.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reallife-app/reallife/internal/commands"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ready(); err != nil {
			return err
		}
		result, err := commands.Logout(store)
		if err != nil {
			return err
		}
		if !result.WasLoggedIn {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("Logged out %s.\n", result.Username)
		return nil
	},
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/reallife-app/reallife/internal/commands"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := activeToken()
		if err != nil {
			return err
		}
		p, err := commands.ShowProfile(commandContext(cmd), client, store, token, time.Now())
		if err != nil {
			return err
		}

		name := p.DisplayName
		if name == "" {
			name = "(no name)"
		}
		fmt.Printf("[%s] %s\n", p.Initials, name)
		if p.Age >= 0 {
			fmt.Printf("  Age:       %d\n", p.Age)
		}
		if p.Bio != "" {
			fmt.Printf("  Bio:       %s\n", p.Bio)
		}
		if p.MainMode != "" {
			fmt.Printf("  Mode:      %s\n", p.MainMode)
		}
		if p.ProfileImage != "" {
			fmt.Printf("  Photo:     %s\n", p.ProfileImage)
		}
		if !p.SetupDone {
			fmt.Println("\nProfile setup not finished. Run 'reallife setup'.")
			return nil
		}
		if len(p.Intents) > 0 {
			fmt.Printf("  Intents:   %s\n", strings.Join(p.Intents, ", "))
		} else {
			fmt.Println("  Intents:   none")
		}
		return nil
	},
}

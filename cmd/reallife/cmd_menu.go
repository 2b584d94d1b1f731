package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/reallife-app/reallife/cmd/reallife/tui"
	"github.com/reallife-app/reallife/internal/commands"
	"github.com/reallife-app/reallife/internal/paths"
)

func runMainMenu(cmd *cobra.Command, args []string) error {
	// TTY guard: piping, CI and scripts get the help text instead.
	if !term.IsTerminal(os.Stdin.Fd()) {
		return cmd.Help()
	}

	for {
		state := commands.DetectMenuState(paths.AppDir(), store, time.Now())

		model := tui.NewMenuModel(state)
		model.Version = version
		p := tea.NewProgram(model, tea.WithAltScreen())
		finalModel, err := p.Run()
		if err != nil {
			return err
		}

		menu := finalModel.(tui.MenuModel)
		if menu.Quitting {
			return nil
		}

		action := menu.Selected
		if action.ID == "" {
			return nil
		}

		err = dispatchAction(cmd, action)

		// CLI actions print to the terminal; let the user read it first.
		if action.Type == tui.ActionCLI {
			if err != nil {
				fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
			}
			fmt.Print("\nPress Enter to return to menu...")
			bufio.NewReader(os.Stdin).ReadBytes('\n')
		} else if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

func dispatchAction(cmd *cobra.Command, action tui.MenuAction) error {
	switch action.ID {
	// Account
	case tui.ActionLogin:
		return loginCmd.RunE(loginCmd, nil)
	case tui.ActionLogout:
		return logoutCmd.RunE(logoutCmd, nil)

	// Profile
	case tui.ActionSetup:
		return setupCmd.RunE(setupCmd, nil)
	case tui.ActionProfile:
		return profileCmd.RunE(profileCmd, nil)

	// Communities
	case tui.ActionCommunities:
		communitiesMine = false
		return communitiesCmd.RunE(communitiesCmd, nil)
	case tui.ActionMyCommunities:
		communitiesMine = true
		defer func() { communitiesMine = false }()
		return communitiesCmd.RunE(communitiesCmd, nil)

	case tui.ActionGame:
		gameCmd.Run(gameCmd, nil)
		return nil

	// Config
	case tui.ActionConfigInit:
		return configInitCmd.RunE(configInitCmd, nil)
	case tui.ActionConfigShow:
		return configShowCmd.RunE(configShowCmd, nil)

	default:
		return fmt.Errorf("unknown action: %s", action.ID)
	}
}

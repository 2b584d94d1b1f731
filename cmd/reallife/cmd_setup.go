package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/reallife-app/reallife/cmd/reallife/tui"
	"github.com/reallife-app/reallife/internal/capability"
	"github.com/reallife-app/reallife/internal/commands"
	"github.com/reallife-app/reallife/internal/profile"
	"github.com/reallife-app/reallife/internal/submit"
	"github.com/reallife-app/reallife/internal/wizard"
)

var (
	setupDisplayName string
	setupEmail       string
	setupBirthDate   string
	setupImage       string
	setupUsername    string
	setupPassword    string
	setupCommunities []string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up your profile and pick communities",
	Long: `Walks through basic info and community selection, then joins the
selected communities and saves the profile.

Without a terminal, or when any profile flag is given, the values are taken
from flags instead of the interactive screens.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := activeToken()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		setup, err := commands.PrepareSetup(ctx, client, store, token, cfg, logger)
		if err != nil {
			return err
		}

		if setupFlagsGiven(cmd) || !term.IsTerminal(os.Stdin.Fd()) {
			return runSetupFromFlags(cmd, setup, token)
		}

		model := tui.NewWizardModel(tui.WizardConfig{
			Context:    ctx,
			Controller: setup.Wizard,
			Submitter:  setup.Orchestrator,
			Token:      token,
			Layout:     cfg.LayoutParams(),
			Dates:      capability.BirthDates(),
			Images:     capability.FileImages{},
		})
		final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		if err != nil {
			setup.Wizard.Teardown()
			return err
		}

		wm := final.(tui.WizardModel)
		if wm.Aborted || !wm.Done {
			fmt.Println("Setup cancelled. Nothing was saved.")
			return nil
		}
		if err := setup.Settle(wm.Result); err != nil {
			return err
		}
		printSetupResult(wm.Result)
		return nil
	},
}

func setupFlagsGiven(cmd *cobra.Command) bool {
	for _, name := range []string{"display-name", "email", "birth-date", "image", "username", "password", "community"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func runSetupFromFlags(cmd *cobra.Command, setup *commands.Setup, token string) error {
	draft := profile.Draft{
		DisplayName: setupDisplayName,
		Email:       setupEmail,
		Username:    setupUsername,
		Password:    setupPassword,
	}
	if strings.TrimSpace(setupBirthDate) != "" {
		birth, err := capability.BirthDates().Parse(setupBirthDate)
		if err != nil {
			return fmt.Errorf("birth date: %w", err)
		}
		draft.BirthDate = birth
	}
	image, err := capability.FileImages{}.Resolve(setupImage)
	if err != nil {
		return fmt.Errorf("profile image: %w", err)
	}
	draft.ProfileImage = image

	out, err := setup.Run(commandContext(cmd), draft, setupCommunities, token)
	if err != nil {
		var vErr *wizard.ValidationError
		if errors.As(err, &vErr) {
			return fmt.Errorf("%w (use --display-name, --email, --birth-date, --username, --password)", err)
		}
		if errors.Is(err, submit.ErrSessionExpired) {
			return fmt.Errorf("%w: run 'reallife login'", err)
		}
		return err
	}
	printSetupResult(out)
	return nil
}

func printSetupResult(out wizard.Outcome) {
	fmt.Println("Profile saved.")
	if out.Result == nil {
		return
	}
	res := out.Result
	fmt.Printf("  Joined %d of %d selected communities\n", len(res.Joined), len(res.Joined)+len(res.FailedJoins))
	for _, id := range res.FailedJoins {
		fmt.Printf("  ⚠️  could not join %s\n", id)
	}
	if labels := res.Intents.Labels(); len(labels) > 0 {
		fmt.Printf("  Looking for: %s\n", strings.Join(labels, ", "))
	}
}

func init() {
	f := setupCmd.Flags()
	f.StringVar(&setupDisplayName, "display-name", "", "display name")
	f.StringVar(&setupEmail, "email", "", "email address")
	f.StringVar(&setupBirthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
	f.StringVar(&setupImage, "image", "", "profile image path or URL")
	f.StringVar(&setupUsername, "username", "", "username")
	f.StringVar(&setupPassword, "password", "", "password")
	f.StringSliceVar(&setupCommunities, "community", nil, "community id to join (repeatable)")
}

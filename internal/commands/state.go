package commands

import (
	"os"
	"time"

	"github.com/reallife-app/reallife/internal/session"
)

// MenuState holds the detected state used to build the TUI menu.
type MenuState struct {
	ConfigExists   bool
	LoggedIn       bool
	SessionExpired bool
	Username       string
}

// DetectMenuState checks local state for menu rendering. It never errors;
// unknown state defaults to false/empty.
func DetectMenuState(appDir string, store *session.Store, now time.Time) MenuState {
	var state MenuState

	if _, err := os.Stat(appDir); err == nil {
		state.ConfigExists = true
	}

	creds, err := store.Load()
	if err != nil {
		return state
	}
	if session.Expired(creds.AccessToken, now) {
		state.SessionExpired = true
		return state
	}
	state.LoggedIn = true
	state.Username = creds.Username
	return state
}

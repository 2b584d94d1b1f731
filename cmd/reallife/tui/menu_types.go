package tui

// ActionType distinguishes how a menu action is executed.
type ActionType int

const (
	ActionNone ActionType = iota // category (has children, no action)
	ActionCLI                    // exit menu, run CLI command, re-enter menu
	ActionTUI                    // exit menu, launch sub-TUI, re-enter menu
)

// Action IDs shared by menu items and the dispatcher.
const (
	ActionLogin         = "login"
	ActionLogout        = "logout"
	ActionSetup         = "setup"
	ActionProfile       = "profile"
	ActionCommunities   = "communities"
	ActionMyCommunities = "my-communities"
	ActionGame          = "game"
	ActionConfigInit    = "config-init"
	ActionConfigShow    = "config-show"
)

// AllActionIDs returns all known action IDs. Every ID here must have a case
// in dispatchAction.
func AllActionIDs() []string {
	return []string{
		ActionLogin, ActionLogout,
		ActionSetup, ActionProfile,
		ActionCommunities, ActionMyCommunities,
		ActionGame,
		ActionConfigInit, ActionConfigShow,
	}
}

// MenuAction is the result of selecting a leaf menu item.
type MenuAction struct {
	ID   string // one of the Action* constants above
	Type ActionType
}

// menuItem represents one entry in the menu tree.
type menuItem struct {
	label    string
	desc     string     // short description shown to the right
	children []menuItem // non-nil = category, nil = leaf action
	action   MenuAction // only for leaf items
}

func (m menuItem) isCategory() bool {
	return len(m.children) > 0
}

package tui

import "github.com/reallife-app/reallife/internal/commands"

// BuildMenuItems returns the menu item tree based on the detected state.
func BuildMenuItems(state commands.MenuState) []menuItem {
	if !state.LoggedIn {
		return buildLoggedOutMenu(state)
	}
	return buildLoggedInMenu(state)
}

func buildLoggedOutMenu(state commands.MenuState) []menuItem {
	login := menuItem{
		label:  "Log in",
		desc:   "connect to the Real Life backend",
		action: MenuAction{ID: ActionLogin, Type: ActionTUI},
	}
	if state.SessionExpired {
		login.desc = "session expired"
	}

	items := []menuItem{
		login,
		{label: "Game preview", desc: "countdown and leaderboard", action: MenuAction{ID: ActionGame, Type: ActionCLI}},
	}
	if !state.ConfigExists {
		items = append(items, menuItem{
			label:  "Create config file",
			desc:   "write defaults to disk",
			action: MenuAction{ID: ActionConfigInit, Type: ActionCLI},
		})
	}
	return items
}

func buildLoggedInMenu(state commands.MenuState) []menuItem {
	return []menuItem{
		buildProfileCategory(),
		buildCommunitiesCategory(),
		{label: "Game preview", desc: "countdown and leaderboard", action: MenuAction{ID: ActionGame, Type: ActionCLI}},
		buildAccountCategory(state),
	}
}

func buildProfileCategory() menuItem {
	return menuItem{
		label: "Profile",
		children: []menuItem{
			{label: "Set up profile", desc: "basic info and communities", action: MenuAction{ID: ActionSetup, Type: ActionTUI}},
			{label: "Show profile", action: MenuAction{ID: ActionProfile, Type: ActionCLI}},
		},
	}
}

func buildCommunitiesCategory() menuItem {
	return menuItem{
		label: "Communities",
		children: []menuItem{
			{label: "Browse all", action: MenuAction{ID: ActionCommunities, Type: ActionCLI}},
			{label: "My communities", action: MenuAction{ID: ActionMyCommunities, Type: ActionCLI}},
		},
	}
}

func buildAccountCategory(state commands.MenuState) menuItem {
	children := []menuItem{
		{label: "Log out", desc: state.Username, action: MenuAction{ID: ActionLogout, Type: ActionCLI}},
		{label: "Show config", action: MenuAction{ID: ActionConfigShow, Type: ActionCLI}},
	}
	if !state.ConfigExists {
		children = append(children, menuItem{
			label:  "Create config file",
			action: MenuAction{ID: ActionConfigInit, Type: ActionCLI},
		})
	}
	return menuItem{label: "Account", children: children}
}

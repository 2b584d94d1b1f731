package paths

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the application directory when set.
const HomeEnv = "REALLIFE_HOME"

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// AppDir returns $REALLIFE_HOME, or ~/.reallife.
func AppDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	return filepath.Join(home(), ".reallife")
}

// ConfigFile returns ~/.reallife/config.yaml.
func ConfigFile() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// SessionFile returns ~/.reallife/session.yaml.
func SessionFile() string {
	return filepath.Join(AppDir(), "session.yaml")
}

// LogFile returns ~/.reallife/reallife.log.
func LogFile() string {
	return filepath.Join(AppDir(), "reallife.log")
}

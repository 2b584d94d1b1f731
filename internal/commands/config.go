package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/reallife-app/reallife/internal/config"
)

// ConfigExistsError is returned when init would overwrite an existing file.
type ConfigExistsError struct {
	Path string
}

func (e *ConfigExistsError) Error() string {
	return fmt.Sprintf("config already exists at %s (use --force to overwrite)", e.Path)
}

// ConfigInitResult reports where defaults were written.
type ConfigInitResult struct {
	Path      string
	Overwrote bool
}

// InitConfig writes the default configuration to path.
func InitConfig(path string, force bool) (*ConfigInitResult, error) {
	result := &ConfigInitResult{Path: path}
	if _, err := os.Stat(path); err == nil {
		if !force {
			return nil, &ConfigExistsError{Path: path}
		}
		result.Overwrote = true
	}

	data, err := config.Marshal(config.Default())
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return result, nil
}

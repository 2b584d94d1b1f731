package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reallife-app/reallife/internal/commands"
	"github.com/reallife-app/reallife/internal/config"
	"github.com/reallife-app/reallife/internal/paths"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the reallife configuration file",
	Long:  "Settings are read from ~/.reallife/config.yaml and REALLIFE_* environment variables.",
	// The config commands must work even when the file does not load.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.InitConfig(paths.ConfigFile(), configForce)
		if err != nil {
			var exists *commands.ConfigExistsError
			if errors.As(err, &exists) {
				fmt.Println(err)
				return nil
			}
			return err
		}
		if result.Overwrote {
			fmt.Printf("Replaced %s with defaults.\n", result.Path)
		} else {
			fmt.Printf("Wrote %s\n", result.Path)
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := paths.ConfigFile()
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		data, err := config.Marshal(loaded)
		if err != nil {
			return err
		}
		if _, statErr := os.Stat(path); statErr != nil {
			fmt.Printf("# %s not found; showing defaults and environment overrides\n", path)
		} else {
			fmt.Printf("# %s\n", path)
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reallife-app/reallife/internal/api"
	"github.com/reallife-app/reallife/internal/commands"
	"github.com/reallife-app/reallife/internal/config"
	"github.com/reallife-app/reallife/internal/logging"
	"github.com/reallife-app/reallife/internal/paths"
	"github.com/reallife-app/reallife/internal/session"
	"github.com/reallife-app/reallife/internal/submit"
)

var version = "0.3.0"

var (
	verbose bool

	cfg    = config.Default()
	logger = zap.NewNop()
	client *api.Client
	store  *session.Store
)

var errNotReady = errors.New("client not initialised")

var rootCmd = &cobra.Command{
	Use:   "reallife",
	Short: "Real Life in your terminal",
	Long:  "reallife logs you in to the Real Life backend, walks you through profile setup and shows your communities.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(paths.ConfigFile())
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = logging.New(logging.Options{
			Level:   cfg.LogLevel,
			Verbose: verbose,
			File:    paths.LogFile(),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		client = api.New(cfg.APIURL,
			api.WithTimeout(cfg.RequestTimeout),
			api.WithLogger(logger.Named("api")))
		store = session.NewStore(paths.SessionFile())
		logger.Debug("command starting", zap.String("command", cmd.CommandPath()), zap.String("api_url", cfg.APIURL))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runMainMenu,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reallife %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(communitiesCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(gameCmd)
	rootCmd.AddCommand(configCmd)
}

// commandContext returns cmd's context, which is unset when a RunE is
// invoked directly from the menu.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

func ready() error {
	if client == nil || store == nil {
		return errNotReady
	}
	return nil
}

// activeToken returns the stored access token or a message telling the user
// to log in.
func activeToken() (string, error) {
	if err := ready(); err != nil {
		return "", err
	}
	token, err := commands.ActiveToken(store, time.Now())
	switch {
	case errors.Is(err, session.ErrNoSession):
		return "", errors.New("not logged in: run 'reallife login'")
	case errors.Is(err, submit.ErrSessionExpired):
		return "", fmt.Errorf("%w: run 'reallife login'", err)
	case err != nil:
		return "", err
	}
	return token, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

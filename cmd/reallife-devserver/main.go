package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reallife-app/reallife/internal/devserver"
	"github.com/reallife-app/reallife/internal/logging"
)

var (
	addr      string
	secret    string
	users     []string
	tokenTTL  time.Duration
	ratePerMn int
	burst     int
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "reallife-devserver",
	Short: "Run an in-memory Real Life API for local development",
	Long:  "reallife-devserver serves /api/auth/login, /api/me and /api/communities from memory. Every restart starts from a fresh seeded catalogue.",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", ":4000", "listen address")
	rootCmd.Flags().StringVar(&secret, "secret", "reallife-dev-secret", "HS256 signing key")
	rootCmd.Flags().StringSliceVar(&users, "user", []string{"demo:demo"}, "seed user as username:password (repeatable)")
	rootCmd.Flags().DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "access token lifetime")
	rootCmd.Flags().IntVar(&ratePerMn, "rate", 200, "requests per minute per client IP (0 disables)")
	rootCmd.Flags().IntVar(&burst, "burst", 50, "rate limiter burst")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(logging.Options{Verbose: verbose, Development: true})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	srv := devserver.New(
		devserver.WithSecret(secret),
		devserver.WithTokenTTL(tokenTTL),
		devserver.WithRateLimit(ratePerMn, burst),
		devserver.WithLogger(logger),
	)
	for _, spec := range users {
		name, pass, ok := cutUser(spec)
		if !ok {
			return fmt.Errorf("--user %q: want username:password", spec)
		}
		if err := srv.AddUser(name, pass); err != nil {
			return err
		}
		logger.Info("seeded user", zap.String("username", name))
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return httpSrv.Shutdown(shutdownCtx)
}

func cutUser(spec string) (string, string, bool) {
	name, pass, ok := strings.Cut(spec, ":")
	return name, pass, ok && name != "" && pass != ""
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

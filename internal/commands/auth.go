package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reallife-app/reallife/internal/api"
	"github.com/reallife-app/reallife/internal/session"
	"github.com/reallife-app/reallife/internal/submit"
)

// MissingCredentialsError is returned when login is attempted without a
// username or password.
type MissingCredentialsError struct {
	Field string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Authenticator exchanges credentials for tokens.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*api.LoginResponse, error)
}

// LoginResult describes a stored session.
type LoginResult struct {
	Username  string
	ExpiresAt time.Time // zero when the token carries no expiry
}

// Login authenticates and stores the issued tokens.
func Login(ctx context.Context, auth Authenticator, store *session.Store, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &MissingCredentialsError{Field: "username"}
	}
	if password == "" {
		return nil, &MissingCredentialsError{Field: "password"}
	}

	resp, err := auth.Login(ctx, username, password)
	if err != nil {
		return nil, errors.New(api.UserMessage(err))
	}

	if err := store.Save(session.Credentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Username:     username,
	}); err != nil {
		return nil, err
	}

	result := &LoginResult{Username: username}
	if exp, ok := session.ExpiresAt(resp.AccessToken); ok {
		result.ExpiresAt = exp
	}
	return result, nil
}

// LogoutResult reports whether a session existed.
type LogoutResult struct {
	WasLoggedIn bool
	Username    string
}

// Logout clears stored credentials.
func Logout(store *session.Store) (*LogoutResult, error) {
	result := &LogoutResult{}
	if creds, err := store.Load(); err == nil {
		result.WasLoggedIn = true
		result.Username = creds.Username
	}
	if err := store.Clear(); err != nil {
		return nil, err
	}
	return result, nil
}

// ActiveToken returns the stored access token. It returns
// session.ErrNoSession when nobody is logged in, and clears the store and
// returns submit.ErrSessionExpired when the token has expired.
func ActiveToken(store *session.Store, now time.Time) (string, error) {
	creds, err := store.Load()
	if err != nil {
		return "", err
	}
	if session.Expired(creds.AccessToken, now) {
		_ = store.Clear()
		return "", submit.ErrSessionExpired
	}
	return creds.AccessToken, nil
}

// expireOn clears the session when err means the token was rejected.
func expireOn(store *session.Store, err error) error {
	if err == nil {
		return nil
	}
	if api.IsUnauthorized(err) {
		_ = store.Clear()
		return submit.ErrSessionExpired
	}
	return errors.New(api.UserMessage(err))
}

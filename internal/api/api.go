// Package api is the REST client for the Real Life backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/intents"
)

// DefaultTimeout bounds each request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// ErrUnreachable is returned when the backend refuses the connection.
var ErrUnreachable = errors.New("cannot connect to server")

// UnreachableMessage is the user-facing text for ErrUnreachable.
const UnreachableMessage = "Cannot connect to server. Make sure the backend is running."

// Error is a non-2xx response. Message is the server's "error" field when
// present, otherwise the status text.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err means the bearer token was rejected.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Status == http.StatusUnauthorized {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "invalid token") || strings.Contains(msg, "unauthorized")
}

// UserMessage returns the text to show a user for err: the server's message
// for API errors, a fixed hint when the backend is down, and err.Error()
// otherwise.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnreachable) {
		return UnreachableMessage
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a Client for baseURL, e.g. "http://localhost:4000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LoginResponse carries the tokens issued on login.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// ProfileInfo is the profile section of GET /me.
type ProfileInfo struct {
	DisplayName  string `json:"display_name"`
	BirthDate    string `json:"birth_date"`
	Bio          string `json:"bio,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	MainMode     string `json:"main_mode,omitempty"`
}

// Me is the response of GET /me. Intents is nil when the user never
// completed setup.
type Me struct {
	Profile ProfileInfo     `json:"profile"`
	Intents *intents.Record `json:"intents"`
}

// ProfileUpdate is the body of PUT /me.
type ProfileUpdate struct {
	DisplayName  string         `json:"display_name"`
	Email        string         `json:"email"`
	BirthDate    string         `json:"birth_date"`
	ProfileImage string         `json:"profile_image,omitempty"`
	Username     string         `json:"username,omitempty"`
	Password     string         `json:"password,omitempty"`
	Intents      intents.Record `json:"intents"`
}

// Login exchanges credentials for tokens.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login response carried no access token")
	}
	return &resp, nil
}

// GetProfile fetches the current user's profile.
func (c *Client) GetProfile(ctx context.Context, token string) (*Me, error) {
	var me Me
	if err := c.do(ctx, http.MethodGet, "/me", token, nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// UpdateProfile replaces the current user's profile.
func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) error {
	return c.do(ctx, http.MethodPut, "/me", token, update, nil)
}

// FetchCommunities lists every community.
func (c *Client) FetchCommunities(ctx context.Context, token string) ([]community.Community, error) {
	var out []community.Community
	if err := c.do(ctx, http.MethodGet, "/communities", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyCommunities lists the communities the user has joined.
func (c *Client) MyCommunities(ctx context.Context, token string) ([]community.Community, error) {
	var out []community.Community
	if err := c.do(ctx, http.MethodGet, "/communities/my", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// JoinCommunity adds the user to a community.
func (c *Client) JoinCommunity(ctx context.Context, token, communityID string) error {
	path := "/communities/" + url.PathEscape(communityID) + "/join"
	return c.do(ctx, http.MethodPost, path, token, struct{}{}, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return fmt.Errorf("%s %s: %w", method, path, ErrUnreachable)
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a body, falling back to the
// raw text and then the status text.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 {
		return text
	}
	return http.StatusText(status)
}

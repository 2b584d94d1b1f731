package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reallife-app/reallife/internal/api"
	"github.com/reallife-app/reallife/internal/intents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return api.New(srv.URL + "/api/")
}

func TestLogin(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada", body["username"])
		assert.Equal(t, "secret", body["password"])

		w.Write([]byte(`{"accessToken":"tok","refreshToken":"ref"}`))
	})

	resp, err := c.Login(context.Background(), "ada", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)
	assert.Equal(t, "ref", resp.RefreshToken)
}

func TestLogin_MissingToken(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	_, err := c.Login(context.Background(), "ada", "secret")
	assert.Error(t, err)
}

func TestLogin_ServerErrorMessage(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_credentials"}`))
	})
	_, err := c.Login(context.Background(), "ada", "nope")
	require.Error(t, err)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid_credentials", apiErr.Message)
}

func TestFetchCommunities(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/communities", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"id":"c1","name":"Runners","category":"sport"},{"id":"c2","name":"Founders","category":"entrepreneurship"}]`))
	})

	got, err := c.FetchCommunities(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "entrepreneurship", got[1].Category)
}

func TestMyCommunities(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/communities/my", r.URL.Path)
		w.Write([]byte(`[]`))
	})
	got, err := c.MyCommunities(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestJoinCommunity_EscapesID(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/communities/a%2Fb/join", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.JoinCommunity(context.Background(), "tok", "a/b"))
}

func TestUpdateProfile(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/me", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ada Lovelace", body["display_name"])
		assert.Equal(t, "1815-12-10", body["birth_date"])
		_, hasImage := body["profile_image"]
		assert.False(t, hasImage)
		in := body["intents"].(map[string]any)
		assert.Equal(t, true, in["work"])
		assert.Equal(t, false, in["dating"])
		w.Write([]byte(`{"ok":true}`))
	})

	err := c.UpdateProfile(context.Background(), "tok", api.ProfileUpdate{
		DisplayName: "Ada Lovelace",
		Email:       "ada@example.com",
		BirthDate:   "1815-12-10",
		Username:    "ada",
		Password:    "pw",
		Intents:     intents.Record{Work: true},
	})
	require.NoError(t, err)
}

func TestUpdateProfile_Unauthorized(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
	})
	err := c.UpdateProfile(context.Background(), "bad", api.ProfileUpdate{})
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, "Invalid token", err.Error())
}

func TestGetProfile(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"profile":{"display_name":"Ada","birth_date":"1990-01-01","main_mode":"social"},"intents":{"social":true}}`))
	})
	me, err := c.GetProfile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.Profile.DisplayName)
	require.NotNil(t, me.Intents)
	assert.True(t, me.Intents.Social)
}

func TestGetProfile_NullIntents(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"profile":{"display_name":"Ada"},"intents":null}`))
	})
	me, err := c.GetProfile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Nil(t, me.Intents)
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, api.IsUnauthorized(&api.Error{Status: 401, Message: "nope"}))
	assert.True(t, api.IsUnauthorized(&api.Error{Status: 400, Message: "Invalid token"}))
	assert.True(t, api.IsUnauthorized(&api.Error{Status: 403, Message: "Unauthorized"}))
	assert.False(t, api.IsUnauthorized(&api.Error{Status: 500, Message: "db_error"}))
	assert.False(t, api.IsUnauthorized(errors.New("Invalid token")))
	assert.False(t, api.IsUnauthorized(nil))
}

func TestErrorMessageFallbacks(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.FetchCommunities(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, "Bad Gateway", err.Error())
}

func TestUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := api.New("http://" + addr + "/api")
	_, err = c.FetchCommunities(context.Background(), "tok")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrUnreachable)
	assert.Equal(t, api.UnreachableMessage, api.UserMessage(err))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", api.UserMessage(nil))
	assert.Equal(t, "db_error", api.UserMessage(fmt.Errorf("PUT /me: %w", &api.Error{Status: 500, Message: "db_error"})))
	assert.Equal(t, "boom", api.UserMessage(errors.New("boom")))
}

func TestContextCancel(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.JoinCommunity(ctx, "tok", "c1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

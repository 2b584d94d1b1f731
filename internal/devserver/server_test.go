package devserver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reallife-app/reallife/internal/api"
	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/devserver"
	"github.com/reallife-app/reallife/internal/profile"
	"github.com/reallife-app/reallife/internal/selection"
	"github.com/reallife-app/reallife/internal/submit"
)

var fixed = []community.Community{
	{ID: "c1", Name: "Runners", Category: "sport"},
	{ID: "c2", Name: "Founders", Category: "entrepreneurship"},
	{ID: "c3", Name: "Sketchers", Category: "art"},
}

func start(t *testing.T, opts ...devserver.Option) (*devserver.Server, *api.Client) {
	t.Helper()
	opts = append([]devserver.Option{devserver.WithCommunities(fixed)}, opts...)
	srv := devserver.New(opts...)
	require.NoError(t, srv.AddUser("ada", "secret"))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, api.New(ts.URL + "/api")
}

func login(t *testing.T, c *api.Client) string {
	t.Helper()
	resp, err := c.Login(context.Background(), "ada", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	return resp.AccessToken
}

func TestLogin(t *testing.T) {
	_, c := start(t)
	login(t, c)

	_, err := c.Login(context.Background(), "ada", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid_credentials", err.Error())

	_, err = c.Login(context.Background(), "", "")
	assert.Equal(t, "missing_fields", err.Error())
}

func TestAddUserDuplicate(t *testing.T) {
	srv := devserver.New()
	require.NoError(t, srv.AddUser("ada", "x"))
	assert.Error(t, srv.AddUser("ada", "y"))
	assert.Error(t, srv.AddUser(" ", "y"))
}

func TestCommunitiesAndJoin(t *testing.T) {
	srv, c := start(t)
	tok := login(t, c)
	ctx := context.Background()

	all, err := c.FetchCommunities(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, fixed, all)

	mine, err := c.MyCommunities(ctx, tok)
	require.NoError(t, err)
	assert.Empty(t, mine)

	require.NoError(t, c.JoinCommunity(ctx, tok, "c2"))
	require.NoError(t, c.JoinCommunity(ctx, tok, "c2"))
	assert.Equal(t, []string{"c2"}, srv.Joined("ada"))

	mine, err = c.MyCommunities(ctx, tok)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Founders", mine[0].Name)

	err = c.JoinCommunity(ctx, tok, "nope")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestAuthRequired(t *testing.T) {
	_, c := start(t)
	_, err := c.FetchCommunities(context.Background(), "")
	assert.True(t, api.IsUnauthorized(err))

	_, err = c.GetProfile(context.Background(), "garbage")
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, "Invalid token", err.Error())
}

func TestExpiredToken(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	var offset atomic.Int64
	clock := func() time.Time { return now.Add(time.Duration(offset.Load())) }
	srv, c := start(t, devserver.WithClock(clock), devserver.WithTokenTTL(time.Hour))
	tok, ok := srv.TokenFor("ada")
	require.True(t, ok)

	_, err := c.GetProfile(context.Background(), tok)
	require.NoError(t, err)

	offset.Store(int64(2 * time.Hour))
	_, err = c.GetProfile(context.Background(), tok)
	assert.True(t, api.IsUnauthorized(err))
}

func TestProfileUpdate(t *testing.T) {
	srv, c := start(t)
	tok := login(t, c)
	ctx := context.Background()

	me, err := c.GetProfile(ctx, tok)
	require.NoError(t, err)
	assert.Nil(t, me.Intents)

	err = c.UpdateProfile(ctx, tok, api.ProfileUpdate{DisplayName: ""})
	assert.Equal(t, "display_name is required", err.Error())

	err = c.UpdateProfile(ctx, tok, api.ProfileUpdate{DisplayName: "Ada", BirthDate: "1990-13-40"})
	assert.Equal(t, "invalid birth_date", err.Error())

	require.NoError(t, c.UpdateProfile(ctx, tok, api.ProfileUpdate{
		DisplayName: "Ada Lovelace",
		Email:       "ada@example.com",
		BirthDate:   "1990-05-17",
	}))
	me, err = c.GetProfile(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", me.Profile.DisplayName)
	assert.Equal(t, "1990-05-17", me.Profile.BirthDate)
	require.NotNil(t, me.Intents)
	assert.NotNil(t, srv.Intents("ada"))
}

func TestRateLimit(t *testing.T) {
	_, c := start(t, devserver.WithRateLimit(60, 2))
	ctx := context.Background()

	_, err := c.Login(ctx, "ada", "secret")
	require.NoError(t, err)
	_, err = c.Login(ctx, "ada", "secret")
	require.NoError(t, err)

	_, err = c.Login(ctx, "ada", "secret")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
}

func TestSubmitAgainstServer(t *testing.T) {
	srv, c := start(t, devserver.WithFailingJoins("c2"))
	tok := login(t, c)

	draft := profile.Draft{
		DisplayName: "Ada",
		Email:       "ada@example.com",
		Username:    "ada",
		Password:    "secret",
		BirthDate:   time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
	}
	res, err := submit.New(c, fixed).Submit(context.Background(), draft, selection.New("c1", "c2", "c3"), tok)
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c3"}, res.Joined)
	assert.Equal(t, []string{"c2"}, res.FailedJoins)
	assert.Equal(t, []string{"c1", "c3"}, srv.Joined("ada"))

	stored := srv.Intents("ada")
	require.NotNil(t, stored)
	assert.True(t, stored.SportPartner)
	assert.True(t, stored.Entrepreneurship)
	assert.False(t, stored.Social)
}

func TestSubmitWithRejectedToken(t *testing.T) {
	_, c := start(t, devserver.WithSecret("server-secret"))
	other := devserver.New(devserver.WithSecret("other-secret"))
	forged, err := other.IssueToken("someone")
	require.NoError(t, err)

	_, err = submit.New(c, fixed).Submit(context.Background(), profile.Draft{DisplayName: "Ada"}, selection.New("c1"), forged)
	assert.ErrorIs(t, err, submit.ErrSessionExpired)
}

func TestSeedCommunities(t *testing.T) {
	seed := devserver.SeedCommunities()
	seen := map[string]bool{}
	for _, c := range seed {
		assert.NotEmpty(t, c.ID)
		assert.False(t, seen[c.ID])
		seen[c.ID] = true
	}
	groups := community.GroupByCategory(seed)
	assert.GreaterOrEqual(t, len(groups), 6)
}

package submit_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reallife-app/reallife/internal/api"
	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/intents"
	"github.com/reallife-app/reallife/internal/profile"
	"github.com/reallife-app/reallife/internal/selection"
	"github.com/reallife-app/reallife/internal/submit"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClient struct {
	mu        sync.Mutex
	joins     []string
	updates   []api.ProfileUpdate
	joinErr   map[string]error
	updateErr error
	calls     atomic.Int32
	inFlight  atomic.Int32
	maxFlight atomic.Int32
	joinDelay time.Duration
}

func (f *fakeClient) JoinCommunity(ctx context.Context, token, id string) error {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxFlight.Load()
		if n <= m || f.maxFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if f.joinDelay > 0 {
		select {
		case <-time.After(f.joinDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	f.joins = append(f.joins, id)
	f.mu.Unlock()
	return f.joinErr[id]
}

func (f *fakeClient) UpdateProfile(ctx context.Context, token string, u api.ProfileUpdate) error {
	f.calls.Add(1)
	f.mu.Lock()
	f.updates = append(f.updates, u)
	f.mu.Unlock()
	return f.updateErr
}

var communities = []community.Community{
	{ID: "c1", Name: "Runners", Category: "sport"},
	{ID: "c2", Name: "Founders", Category: "entrepreneurship"},
	{ID: "c3", Name: "Night Owls", Category: "nightlife"},
}

func draft() profile.Draft {
	return profile.Draft{
		DisplayName: "Ada Lovelace",
		Email:       "ada@example.com",
		Username:    "ada",
		Password:    "secret",
		BirthDate:   time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
	}
}

func TestSubmit_BlankTokenMakesNoCalls(t *testing.T) {
	client := &fakeClient{}
	o := submit.New(client, communities)

	for _, token := range []string{"", "   "} {
		res, err := o.Submit(context.Background(), draft(), selection.New("c1", "c2"), token)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, submit.ErrSessionExpired)
	}
	assert.Equal(t, int32(0), client.calls.Load())
}

func TestSubmit_ExpiredJWTMakesNoCalls(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": now.Add(-time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	client := &fakeClient{}
	o := submit.New(client, communities, submit.WithClock(func() time.Time { return now }))

	_, err = o.Submit(context.Background(), draft(), selection.New("c1"), token)
	assert.ErrorIs(t, err, submit.ErrSessionExpired)
	assert.Equal(t, int32(0), client.calls.Load())
}

func TestSubmit_JoinFailureIsSwallowed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	client := &fakeClient{joinErr: map[string]error{"c2": errors.New("already_member")}}
	o := submit.New(client, communities, submit.WithLogger(zap.New(core)))

	res, err := o.Submit(context.Background(), draft(), selection.New("c1", "c2"), "tok")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, []string{"c1"}, res.Joined)
	assert.Equal(t, []string{"c2"}, res.FailedJoins)
	assert.True(t, res.Intents.SportPartner)
	assert.True(t, res.Intents.Entrepreneurship)

	require.Len(t, client.updates, 1)
	assert.Equal(t, res.Intents, client.updates[0].Intents)
	assert.Equal(t, "1990-05-17", client.updates[0].BirthDate)

	entries := logs.FilterMessage("join community failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "c2", entries[0].ContextMap()["community_id"])
}

func TestSubmit_UnauthorizedUpdateIsSessionExpired(t *testing.T) {
	client := &fakeClient{updateErr: &api.Error{Status: 401, Message: "Invalid token"}}
	o := submit.New(client, communities)

	_, err := o.Submit(context.Background(), draft(), selection.New("c1"), "tok")
	require.Error(t, err)
	assert.ErrorIs(t, err, submit.ErrSessionExpired)

	var failure *submit.Failure
	assert.False(t, errors.As(err, &failure))
}

func TestSubmit_InvalidTokenMessageIsSessionExpired(t *testing.T) {
	client := &fakeClient{updateErr: &api.Error{Status: 400, Message: "Invalid token"}}
	_, err := submit.New(client, communities).Submit(context.Background(), draft(), selection.New(), "tok")
	assert.ErrorIs(t, err, submit.ErrSessionExpired)
}

func TestSubmit_GenericFailureIsRetryable(t *testing.T) {
	client := &fakeClient{updateErr: &api.Error{Status: 500, Message: "db_error"}}
	o := submit.New(client, communities)

	_, err := o.Submit(context.Background(), draft(), selection.New("c1"), "tok")
	require.Error(t, err)

	var failure *submit.Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "db_error", failure.Message)
	assert.NotErrorIs(t, err, submit.ErrSessionExpired)
}

func TestSubmit_UnreachableMessage(t *testing.T) {
	client := &fakeClient{updateErr: fmt.Errorf("PUT /me: %w", api.ErrUnreachable)}
	_, err := submit.New(client, communities).Submit(context.Background(), draft(), selection.New(), "tok")

	var failure *submit.Failure
	require.True(t, errors.As(err, &failure))
	assert.Contains(t, failure.Message, "Cannot connect to server")
	assert.ErrorIs(t, err, api.ErrUnreachable)
}

func TestSubmit_EmptySelection(t *testing.T) {
	client := &fakeClient{}
	res, err := submit.New(client, communities).Submit(context.Background(), draft(), selection.New(), "tok")
	require.NoError(t, err)
	assert.Equal(t, intents.Record{}, res.Intents)
	assert.Empty(t, client.joins)
	assert.Len(t, client.updates, 1)
}

func TestSubmit_UpdateWaitsForAllJoins(t *testing.T) {
	client := &fakeClient{joinDelay: 20 * time.Millisecond}
	o := submit.New(client, communities)

	_, err := o.Submit(context.Background(), draft(), selection.New("c1", "c2", "c3"), "tok")
	require.NoError(t, err)

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Len(t, client.joins, 3)
	assert.Len(t, client.updates, 1)
	assert.Greater(t, client.maxFlight.Load(), int32(1))
}

func TestSubmit_MaxParallelJoins(t *testing.T) {
	client := &fakeClient{joinDelay: 5 * time.Millisecond}
	o := submit.New(client, communities, submit.WithMaxParallelJoins(1))

	res, err := o.Submit(context.Background(), draft(), selection.New("c1", "c2", "c3"), "tok")
	require.NoError(t, err)
	assert.Len(t, res.Joined, 3)
	assert.Equal(t, int32(1), client.maxFlight.Load())
}

func TestSubmit_CustomTable(t *testing.T) {
	table, err := intents.DefaultTable().WithOverrides(map[string]string{"nightlife": "dating"})
	require.NoError(t, err)

	res, err := submit.New(&fakeClient{}, communities, submit.WithTable(table)).
		Submit(context.Background(), draft(), selection.New("c3"), "tok")
	require.NoError(t, err)
	assert.True(t, res.Intents.Dating)
	assert.False(t, res.Intents.Nightlife)
}

func TestSubmit_CancelledBeforeUpdate(t *testing.T) {
	client := &fakeClient{joinDelay: time.Second}
	o := submit.New(client, communities)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := o.Submit(ctx, draft(), selection.New("c1", "c2"), "tok")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, client.updates)
}

package wizard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/reallife-app/reallife/internal/api"
	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/profile"
	"github.com/reallife-app/reallife/internal/selection"
	"github.com/reallife-app/reallife/internal/submit"
	"github.com/reallife-app/reallife/internal/wizard"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var communities = []community.Community{
	{ID: "c1", Name: "Runners", Category: "sport"},
	{ID: "c2", Name: "Founders", Category: "entrepreneurship"},
}

func validDraft() profile.Draft {
	return profile.Draft{
		DisplayName: "Ada",
		Email:       "ada@example.com",
		Username:    "ada",
		Password:    "pw",
		BirthDate:   time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

type submitterFunc func(ctx context.Context, d profile.Draft, s selection.Set, token string) (*submit.Result, error)

func (f submitterFunc) Submit(ctx context.Context, d profile.Draft, s selection.Set, token string) (*submit.Result, error) {
	return f(ctx, d, s, token)
}

func atSelection(t *testing.T) *wizard.Controller {
	t.Helper()
	c := wizard.New(communities)
	require.NoError(t, c.SetDraft(validDraft()))
	require.NoError(t, c.Next())
	return c
}

func TestValidate(t *testing.T) {
	err := wizard.Validate(profile.Draft{Email: "a@b.c", Password: "  "})
	var vErr *wizard.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []string{"display name", "birth date", "username", "password"}, vErr.Missing)
	assert.Contains(t, err.Error(), "display name")

	assert.NoError(t, wizard.Validate(validDraft()))
}

func TestNext_ValidationKeepsStep(t *testing.T) {
	c := wizard.New(communities)
	assert.Equal(t, wizard.BasicInfo, c.Step())

	err := c.Next()
	var vErr *wizard.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, vErr.Missing, 5)
	assert.Equal(t, wizard.BasicInfo, c.Step())
}

func TestNext_NoNetworkOnValidationFailure(t *testing.T) {
	c := wizard.New(communities)
	require.Error(t, c.Next())

	called := false
	out := c.Submit(context.Background(), submitterFunc(func(context.Context, profile.Draft, selection.Set, string) (*submit.Result, error) {
		called = true
		return nil, nil
	}), "tok")
	assert.Equal(t, wizard.OutcomeRejected, out.Kind)
	assert.ErrorIs(t, out.Err, wizard.ErrWrongStep)
	assert.False(t, called)
}

func TestStepping_IsLossless(t *testing.T) {
	c := atSelection(t)
	assert.Equal(t, wizard.CommunitySelection, c.Step())
	require.NoError(t, c.Toggle("c1"))

	require.NoError(t, c.Previous())
	assert.Equal(t, wizard.BasicInfo, c.Step())
	assert.Equal(t, validDraft(), c.Draft())
	assert.True(t, c.Selection().Contains("c1"))

	require.NoError(t, c.Next())
	assert.True(t, c.Selection().Contains("c1"))

	assert.ErrorIs(t, c.Next(), wizard.ErrWrongStep)
	assert.ErrorIs(t, c.SetDraft(validDraft()), wizard.ErrWrongStep)
}

func TestToggle_OnlyInSelection(t *testing.T) {
	c := wizard.New(communities)
	assert.ErrorIs(t, c.Toggle("c1"), wizard.ErrWrongStep)
	assert.ErrorIs(t, c.Previous(), wizard.ErrWrongStep)

	c = atSelection(t)
	require.NoError(t, c.Toggle("c1"))
	require.NoError(t, c.Toggle("c1"))
	assert.Equal(t, 0, c.Selection().Len())
}

func TestSubmit_Completed(t *testing.T) {
	c := atSelection(t)
	require.NoError(t, c.Toggle("c2"))

	var gotToken string
	var gotSel selection.Set
	out := c.Submit(context.Background(), submitterFunc(func(_ context.Context, _ profile.Draft, s selection.Set, token string) (*submit.Result, error) {
		gotToken, gotSel = token, s
		return &submit.Result{Joined: s.IDs()}, nil
	}), "tok")

	assert.Equal(t, wizard.OutcomeCompleted, out.Kind)
	require.NotNil(t, out.Result)
	assert.Equal(t, []string{"c2"}, out.Result.Joined)
	assert.Equal(t, "tok", gotToken)
	assert.True(t, gotSel.Contains("c2"))
	assert.True(t, c.Closed())
	assert.ErrorIs(t, c.Toggle("c1"), wizard.ErrClosed)
}

func TestSubmit_ZeroSelectionsAllowed(t *testing.T) {
	c := atSelection(t)
	out := c.Submit(context.Background(), submitterFunc(func(context.Context, profile.Draft, selection.Set, string) (*submit.Result, error) {
		return &submit.Result{}, nil
	}), "tok")
	assert.Equal(t, wizard.OutcomeCompleted, out.Kind)
}

func TestSubmit_SessionExpired(t *testing.T) {
	c := atSelection(t)
	out := c.Submit(context.Background(), submitterFunc(func(context.Context, profile.Draft, selection.Set, string) (*submit.Result, error) {
		return nil, submit.ErrSessionExpired
	}), "tok")
	assert.Equal(t, wizard.OutcomeSessionExpired, out.Kind)
	assert.True(t, c.Closed())
}

func TestSubmit_RetryStaysOnSelection(t *testing.T) {
	c := atSelection(t)
	require.NoError(t, c.Toggle("c1"))

	out := c.Submit(context.Background(), submitterFunc(func(context.Context, profile.Draft, selection.Set, string) (*submit.Result, error) {
		return nil, &submit.Failure{Message: "db_error"}
	}), "tok")
	assert.Equal(t, wizard.OutcomeRetry, out.Kind)
	assert.Equal(t, "db_error", out.Message)
	assert.Equal(t, wizard.CommunitySelection, c.Step())
	assert.False(t, c.InFlight())
	assert.False(t, c.Closed())
	assert.True(t, c.Selection().Contains("c1"))
	assert.Equal(t, validDraft(), c.Draft())

	out = c.Submit(context.Background(), submitterFunc(func(context.Context, profile.Draft, selection.Set, string) (*submit.Result, error) {
		return &submit.Result{}, nil
	}), "tok")
	assert.Equal(t, wizard.OutcomeCompleted, out.Kind)
}

func TestBegin_SingleFlight(t *testing.T) {
	c := atSelection(t)
	req, err := c.Begin(context.Background())
	require.NoError(t, err)
	assert.True(t, c.InFlight())

	_, err = c.Begin(context.Background())
	assert.ErrorIs(t, err, wizard.ErrSubmissionInFlight)
	assert.ErrorIs(t, c.Toggle("c1"), wizard.ErrSubmissionInFlight)
	assert.ErrorIs(t, c.Previous(), wizard.ErrSubmissionInFlight)

	out := c.Finish(req, nil, &submit.Failure{Message: "boom"})
	assert.Equal(t, wizard.OutcomeRetry, out.Kind)
	assert.ErrorIs(t, req.Context().Err(), context.Canceled)

	// A second Finish for the same request is stale.
	assert.Equal(t, wizard.OutcomeDiscarded, c.Finish(req, nil, nil).Kind)
}

func TestTeardown_DiscardsLateResult(t *testing.T) {
	c := atSelection(t)
	require.NoError(t, c.Toggle("c1"))

	started := make(chan struct{})
	done := make(chan wizard.Outcome)
	go func() {
		done <- c.Submit(context.Background(), submitterFunc(func(ctx context.Context, _ profile.Draft, _ selection.Set, _ string) (*submit.Result, error) {
			close(started)
			<-ctx.Done()
			return nil, &api.Error{Status: 401, Message: "Invalid token"}
		}), "tok")
	}()

	<-started
	c.Teardown()
	out := <-done

	assert.Equal(t, wizard.OutcomeDiscarded, out.Kind)
	assert.True(t, c.Closed())
	assert.False(t, c.InFlight())
	assert.True(t, c.Selection().Contains("c1"))
	assert.Equal(t, wizard.CommunitySelection, c.Step())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "basic info", wizard.BasicInfo.String())
	assert.Equal(t, "communities", wizard.CommunitySelection.String())
	assert.Equal(t, "session expired", wizard.OutcomeSessionExpired.String())
	assert.Equal(t, "discarded", wizard.OutcomeDiscarded.String())
}

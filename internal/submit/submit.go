// Package submit sends a finished profile draft to the backend: community
// joins first, then the profile update carrying the derived intents.
package submit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reallife-app/reallife/internal/api"
	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/intents"
	"github.com/reallife-app/reallife/internal/profile"
	"github.com/reallife-app/reallife/internal/selection"
	"github.com/reallife-app/reallife/internal/session"
)

// ErrSessionExpired means the bearer token is missing, expired or was
// rejected. The caller must clear stored credentials and log in again.
var ErrSessionExpired = errors.New("session expired, please log in again")

// Failure is a retryable submission error. Message is safe to show verbatim.
type Failure struct {
	Message string
	Err     error
}

func (e *Failure) Error() string {
	return e.Message
}

func (e *Failure) Unwrap() error {
	return e.Err
}

// Client is the subset of the API the orchestrator calls.
type Client interface {
	JoinCommunity(ctx context.Context, token, communityID string) error
	UpdateProfile(ctx context.Context, token string, update api.ProfileUpdate) error
}

// Result describes a successful submission.
type Result struct {
	Intents     intents.Record
	Joined      []string
	FailedJoins []string
}

// Orchestrator runs submissions for one set of fetched communities.
type Orchestrator struct {
	client      Client
	communities []community.Community
	table       intents.Table
	log         *zap.Logger
	maxParallel int
	now         func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTable replaces the default Category→Intent table.
func WithTable(t intents.Table) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.table = t
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMaxParallelJoins caps concurrent join requests. Zero means unbounded.
func WithMaxParallelJoins(n int) Option {
	return func(o *Orchestrator) { o.maxParallel = n }
}

// WithClock overrides the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New returns an Orchestrator that derives intents from communities.
func New(client Client, communities []community.Community, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:      client,
		communities: communities,
		table:       intents.DefaultTable(),
		log:         zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit joins every selected community, then updates the profile with
// intents derived from the selection. Join failures are logged and do not
// abort the submission. The returned error is ErrSessionExpired, a
// *Failure, or the context's error when ctx ended first.
func (o *Orchestrator) Submit(ctx context.Context, draft profile.Draft, sel selection.Set, token string) (*Result, error) {
	token = strings.TrimSpace(token)
	if token == "" || session.Expired(token, o.now()) {
		return nil, ErrSessionExpired
	}

	joined, failed := o.joinAll(ctx, sel, token)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record := o.table.Derive(sel, o.communities)
	draft.Intents = record

	if err := o.client.UpdateProfile(ctx, token, updateFor(draft)); err != nil {
		return nil, o.classify(ctx, err)
	}

	o.log.Info("profile submitted",
		zap.Int("joined", len(joined)),
		zap.Int("failed_joins", len(failed)),
		zap.Strings("intents", flagNames(record)))

	return &Result{Intents: record, Joined: joined, FailedJoins: failed}, nil
}

// joinAll issues one join per selected id and waits for all of them.
func (o *Orchestrator) joinAll(ctx context.Context, sel selection.Set, token string) (joined, failed []string) {
	ids := sel.IDs()
	if len(ids) == 0 {
		return nil, nil
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	if o.maxParallel > 0 {
		g.SetLimit(o.maxParallel)
	}

	ok := make([]bool, len(ids))
	for i, id := range ids {
		g.Go(func() error {
			if err := o.client.JoinCommunity(ctx, token, id); err != nil {
				o.log.Warn("join community failed",
					zap.String("community_id", id),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			ok[i] = true
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i, id := range ids {
		if ok[i] {
			joined = append(joined, id)
		} else {
			failed = append(failed, id)
		}
	}
	return joined, failed
}

func (o *Orchestrator) classify(ctx context.Context, err error) error {
	switch {
	case api.IsUnauthorized(err):
		o.log.Info("profile update rejected token", zap.Error(err))
		return ErrSessionExpired
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		o.log.Warn("profile update failed", zap.Error(err))
		return &Failure{Message: api.UserMessage(err), Err: err}
	}
}

func updateFor(d profile.Draft) api.ProfileUpdate {
	return api.ProfileUpdate{
		DisplayName:  strings.TrimSpace(d.DisplayName),
		Email:        strings.TrimSpace(d.Email),
		BirthDate:    d.BirthDateString(),
		ProfileImage: d.ProfileImage,
		Username:     strings.TrimSpace(d.Username),
		Password:     d.Password,
		Intents:      d.Intents,
	}
}

func flagNames(r intents.Record) []string {
	var out []string
	for _, f := range r.Enabled() {
		out = append(out, string(f))
	}
	return out
}

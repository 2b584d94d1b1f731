// Package wizard drives the two-step profile setup flow: basic info, then
// community selection, then a single guarded submission.
package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/profile"
	"github.com/reallife-app/reallife/internal/selection"
	"github.com/reallife-app/reallife/internal/submit"
)

// Step is a wizard state.
type Step int

const (
	BasicInfo Step = iota
	CommunitySelection
)

func (s Step) String() string {
	switch s {
	case BasicInfo:
		return "basic info"
	case CommunitySelection:
		return "communities"
	default:
		return "unknown"
	}
}

var (
	// ErrWrongStep is returned when an action is not valid in the current step.
	ErrWrongStep = errors.New("action not allowed in this step")
	// ErrSubmissionInFlight is returned while a submission is pending.
	ErrSubmissionInFlight = errors.New("submission already in progress")
	// ErrClosed is returned after the wizard was completed or torn down.
	ErrClosed = errors.New("wizard is closed")
)

// ValidationError lists required basic-info fields that are empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "please fill in: " + strings.Join(e.Missing, ", ")
}

// Validate checks the fields required to leave the basic-info step.
func Validate(d profile.Draft) error {
	var missing []string
	if strings.TrimSpace(d.DisplayName) == "" {
		missing = append(missing, "display name")
	}
	if strings.TrimSpace(d.Email) == "" {
		missing = append(missing, "email")
	}
	if d.BirthDate.IsZero() {
		missing = append(missing, "birth date")
	}
	if strings.TrimSpace(d.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(d.Password) == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Submitter performs the submission. *submit.Orchestrator implements it.
type Submitter interface {
	Submit(ctx context.Context, draft profile.Draft, sel selection.Set, token string) (*submit.Result, error)
}

// Controller holds one wizard instance's draft and selection.
type Controller struct {
	mu          sync.Mutex
	step        Step
	draft       profile.Draft
	sel         selection.Set
	communities []community.Community
	inFlight    bool
	seq         uint64
	cancel      context.CancelFunc
	closed      bool
}

// New starts a wizard in the basic-info step.
func New(communities []community.Community) *Controller {
	return &Controller{communities: communities}
}

// Step returns the current step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() profile.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the basic-info fields. Only allowed in BasicInfo.
func (c *Controller) SetDraft(d profile.Draft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.step != BasicInfo {
		return ErrWrongStep
	}
	c.draft = d
	return nil
}

// Selection returns the current selection.
func (c *Controller) Selection() selection.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel
}

// Communities returns the communities offered for selection.
func (c *Controller) Communities() []community.Community {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.communities
}

// SetCommunities replaces the offered communities. Selected ids that are no
// longer offered stay selected and are ignored by intent derivation.
func (c *Controller) SetCommunities(cs []community.Community) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.communities = cs
}

// InFlight reports whether a submission is pending.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Closed reports whether the wizard completed or was torn down.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Next validates basic info and moves to community selection. On a
// validation failure the step is unchanged and a *ValidationError is
// returned.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.step != BasicInfo {
		return ErrWrongStep
	}
	if err := Validate(c.draft); err != nil {
		return err
	}
	c.step = CommunitySelection
	return nil
}

// Previous returns to basic info. Draft and selection are kept.
func (c *Controller) Previous() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.step != CommunitySelection {
		return ErrWrongStep
	}
	if c.inFlight {
		return ErrSubmissionInFlight
	}
	c.step = BasicInfo
	return nil
}

// Toggle adds or removes a community from the selection.
func (c *Controller) Toggle(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.step != CommunitySelection {
		return ErrWrongStep
	}
	if c.inFlight {
		return ErrSubmissionInFlight
	}
	c.sel = c.sel.Toggle(id)
	return nil
}

// Request is a submission started by Begin.
type Request struct {
	ctx       context.Context
	seq       uint64
	Draft     profile.Draft
	Selection selection.Set
}

// Context is cancelled when the wizard is torn down.
func (r Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Begin marks a submission in flight and snapshots the draft and selection.
// Only one submission may be in flight at a time.
func (c *Controller) Begin(ctx context.Context) (Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Request{}, ErrClosed
	}
	if c.step != CommunitySelection {
		return Request{}, ErrWrongStep
	}
	if c.inFlight {
		return Request{}, ErrSubmissionInFlight
	}

	subCtx, cancel := context.WithCancel(ctx)
	c.inFlight = true
	c.seq++
	c.cancel = cancel
	return Request{ctx: subCtx, seq: c.seq, Draft: c.draft, Selection: c.sel}, nil
}

// OutcomeKind classifies the end of a submission.
type OutcomeKind int

const (
	// OutcomeCompleted: the profile was saved and the wizard is closed.
	OutcomeCompleted OutcomeKind = iota
	// OutcomeSessionExpired: credentials must be cleared; the wizard is closed.
	OutcomeSessionExpired
	// OutcomeRetry: the user stays on community selection and may resubmit.
	OutcomeRetry
	// OutcomeDiscarded: the wizard was torn down; the result was dropped.
	OutcomeDiscarded
	// OutcomeRejected: the submission was not started.
	OutcomeRejected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeSessionExpired:
		return "session expired"
	case OutcomeRetry:
		return "retry"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Outcome is what the UI renders after a submission.
type Outcome struct {
	Kind    OutcomeKind
	Message string
	Result  *submit.Result
	Err     error
}

// Finish records the result of req. Results for a torn-down wizard or a
// superseded request are discarded without touching any state.
func (c *Controller) Finish(req Request, res *submit.Result, err error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.inFlight || req.seq != c.seq {
		return Outcome{Kind: OutcomeDiscarded, Err: err}
	}

	c.inFlight = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	switch {
	case err == nil:
		c.closed = true
		return Outcome{Kind: OutcomeCompleted, Result: res}
	case errors.Is(err, submit.ErrSessionExpired):
		c.closed = true
		return Outcome{Kind: OutcomeSessionExpired, Message: err.Error(), Err: err}
	default:
		return Outcome{Kind: OutcomeRetry, Message: err.Error(), Err: err}
	}
}

// Submit runs Begin, the submitter, and Finish.
func (c *Controller) Submit(ctx context.Context, s Submitter, token string) Outcome {
	req, err := c.Begin(ctx)
	if err != nil {
		return Outcome{Kind: OutcomeRejected, Message: err.Error(), Err: err}
	}
	res, err := s.Submit(req.Context(), req.Draft, req.Selection, token)
	return c.Finish(req, res, err)
}

// Teardown closes the wizard and cancels any in-flight submission. Its
// result will be discarded by Finish.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.inFlight = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

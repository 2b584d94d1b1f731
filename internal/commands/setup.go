package commands

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/config"
	"github.com/reallife-app/reallife/internal/profile"
	"github.com/reallife-app/reallife/internal/session"
	"github.com/reallife-app/reallife/internal/submit"
	"github.com/reallife-app/reallife/internal/wizard"
)

// SetupClient is what profile setup needs from the API.
type SetupClient interface {
	FetchCommunities(ctx context.Context, token string) ([]community.Community, error)
	submit.Client
}

// UnknownCommunityError is returned when a requested community id is not
// in the catalogue.
type UnknownCommunityError struct {
	ID string
}

func (e *UnknownCommunityError) Error() string {
	return fmt.Sprintf("unknown community %q", e.ID)
}

// Setup is one profile setup session: the wizard plus the orchestrator that
// submits it.
type Setup struct {
	Wizard       *wizard.Controller
	Orchestrator *submit.Orchestrator
	Groups       []community.Group
	store        *session.Store
}

// PrepareSetup fetches the community catalogue and builds a wizard.
func PrepareSetup(ctx context.Context, client SetupClient, store *session.Store, token string, cfg config.Config, log *zap.Logger) (*Setup, error) {
	list, err := client.FetchCommunities(ctx, token)
	if err != nil {
		return nil, expireOn(store, err)
	}
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	orch := submit.New(client, list,
		submit.WithTable(table),
		submit.WithLogger(log.Named("submit")),
		submit.WithMaxParallelJoins(cfg.Submit.MaxParallelJoins))

	return &Setup{
		Wizard:       wizard.New(list),
		Orchestrator: orch,
		Groups:       community.GroupByCategory(list),
		store:        store,
	}, nil
}

// Settle applies an outcome's side effects: a SessionExpired outcome clears
// the stored credentials. The returned error is what the user should see;
// nil for completed and discarded outcomes.
func (s *Setup) Settle(out wizard.Outcome) error {
	switch out.Kind {
	case wizard.OutcomeCompleted, wizard.OutcomeDiscarded:
		return nil
	case wizard.OutcomeSessionExpired:
		if err := s.store.Clear(); err != nil {
			return err
		}
		return submit.ErrSessionExpired
	default:
		return out.Err
	}
}

// Run drives the wizard non-interactively: basic info, the given community
// ids, then submission.
func (s *Setup) Run(ctx context.Context, draft profile.Draft, ids []string, token string) (wizard.Outcome, error) {
	index := community.Index(s.Wizard.Communities())
	for _, id := range ids {
		if _, ok := index[strings.TrimSpace(id)]; !ok {
			return wizard.Outcome{}, &UnknownCommunityError{ID: id}
		}
	}

	if err := s.Wizard.SetDraft(draft); err != nil {
		return wizard.Outcome{}, err
	}
	if err := s.Wizard.Next(); err != nil {
		return wizard.Outcome{}, err
	}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if s.Wizard.Selection().Contains(id) {
			continue
		}
		if err := s.Wizard.Toggle(id); err != nil {
			return wizard.Outcome{}, err
		}
	}

	out := s.Wizard.Submit(ctx, s.Orchestrator, token)
	return out, s.Settle(out)
}

package commands

import (
	"context"

	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/session"
)

// CommunityLister reads the community catalogue.
type CommunityLister interface {
	FetchCommunities(ctx context.Context, token string) ([]community.Community, error)
	MyCommunities(ctx context.Context, token string) ([]community.Community, error)
}

// CommunitiesResult holds communities grouped by category.
type CommunitiesResult struct {
	Groups []community.Group
	Total  int
}

// ListCommunities fetches all communities, or only joined ones when mine is
// set.
func ListCommunities(ctx context.Context, client CommunityLister, store *session.Store, token string, mine bool) (*CommunitiesResult, error) {
	fetch := client.FetchCommunities
	if mine {
		fetch = client.MyCommunities
	}
	list, err := fetch(ctx, token)
	if err != nil {
		return nil, expireOn(store, err)
	}
	return &CommunitiesResult{Groups: community.GroupByCategory(list), Total: len(list)}, nil
}

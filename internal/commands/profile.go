package commands

import (
	"context"
	"time"

	"github.com/reallife-app/reallife/internal/api"
	"github.com/reallife-app/reallife/internal/profile"
	"github.com/reallife-app/reallife/internal/session"
)

// ProfileReader fetches the current user's profile.
type ProfileReader interface {
	GetProfile(ctx context.Context, token string) (*api.Me, error)
}

// ProfileResult is the profile screen's content.
type ProfileResult struct {
	DisplayName  string
	Initials     string
	BirthDate    string
	Age          int // -1 when unknown
	Bio          string
	ProfileImage string
	MainMode     string
	Intents      []string
	// SetupDone is false until the user submitted the setup wizard.
	SetupDone bool
}

// ShowProfile fetches and summarizes the current profile.
func ShowProfile(ctx context.Context, client ProfileReader, store *session.Store, token string, now time.Time) (*ProfileResult, error) {
	me, err := client.GetProfile(ctx, token)
	if err != nil {
		return nil, expireOn(store, err)
	}

	p := me.Profile
	result := &ProfileResult{
		DisplayName:  p.DisplayName,
		Initials:     profile.Initials(p.DisplayName),
		BirthDate:    p.BirthDate,
		Age:          -1,
		Bio:          p.Bio,
		ProfileImage: p.ProfileImage,
		MainMode:     p.MainMode,
		SetupDone:    me.Intents != nil,
	}
	date := p.BirthDate
	if len(date) > len(profile.DateLayout) {
		date = date[:len(profile.DateLayout)]
	}
	if birth, err := profile.ParseBirthDate(date); err == nil {
		result.Age = profile.Age(birth, now)
	}
	if me.Intents != nil {
		result.Intents = me.Intents.Labels()
	}
	return result, nil
}

// Package intents derives the profile's intent flags from the communities a
// user selected during setup.
package intents

import (
	"fmt"
	"sort"

	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/selection"
)

// Flag names one intent. The set is closed; Record has one field per flag.
type Flag string

const (
	Dating           Flag = "dating"
	SportPartner     Flag = "sport_partner"
	Social           Flag = "social"
	Entrepreneurship Flag = "entrepreneurship"
	Work             Flag = "work"
	Games            Flag = "games"
	Nightlife        Flag = "nightlife"
)

// AllFlags lists every flag in display order.
var AllFlags = []Flag{Dating, SportPartner, Social, Entrepreneurship, Work, Games, Nightlife}

// ParseFlag validates a flag name.
func ParseFlag(name string) (Flag, error) {
	for _, f := range AllFlags {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown intent %q", name)
}

// Record is the intents payload sent with a profile update. Every flag
// defaults to false.
type Record struct {
	Dating           bool `json:"dating"`
	SportPartner     bool `json:"sport_partner"`
	Social           bool `json:"social"`
	Entrepreneurship bool `json:"entrepreneurship"`
	Work             bool `json:"work"`
	Games            bool `json:"games"`
	Nightlife        bool `json:"nightlife"`
}

// Set turns flag f on. Flags are never turned off during derivation.
func (r *Record) Set(f Flag) {
	switch f {
	case Dating:
		r.Dating = true
	case SportPartner:
		r.SportPartner = true
	case Social:
		r.Social = true
	case Entrepreneurship:
		r.Entrepreneurship = true
	case Work:
		r.Work = true
	case Games:
		r.Games = true
	case Nightlife:
		r.Nightlife = true
	}
}

// Get reports whether flag f is on.
func (r Record) Get(f Flag) bool {
	switch f {
	case Dating:
		return r.Dating
	case SportPartner:
		return r.SportPartner
	case Social:
		return r.Social
	case Entrepreneurship:
		return r.Entrepreneurship
	case Work:
		return r.Work
	case Games:
		return r.Games
	case Nightlife:
		return r.Nightlife
	}
	return false
}

// Enabled returns the flags that are on, in AllFlags order.
func (r Record) Enabled() []Flag {
	var out []Flag
	for _, f := range AllFlags {
		if r.Get(f) {
			out = append(out, f)
		}
	}
	return out
}

var labels = map[Flag]string{
	Dating:           "Dating",
	SportPartner:     "Sport",
	Social:           "Social",
	Entrepreneurship: "Entrepreneurship",
	Work:             "Work",
	Games:            "Games",
	Nightlife:        "Nightlife",
}

// Label returns the display name for a flag.
func (f Flag) Label() string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

// Labels returns display names for the enabled flags.
func (r Record) Labels() []string {
	enabled := r.Enabled()
	out := make([]string, 0, len(enabled))
	for _, f := range enabled {
		out = append(out, f.Label())
	}
	return out
}

// Table maps a normalized community category to the flag it implies.
// Categories absent from the table imply nothing.
type Table map[string]Flag

// DefaultTable returns the built-in category mapping.
func DefaultTable() Table {
	return Table{
		community.CategorySport:            SportPartner,
		community.CategorySocial:           Social,
		community.CategoryEntrepreneurship: Entrepreneurship,
		community.CategoryProfessionals:    Work,
		community.CategoryNightlife:        Nightlife,
		community.CategoryEvents:           Social,
	}
}

// WithOverrides returns a copy of t with extra category mappings applied.
// Keys are normalized; values must be known flag names.
func (t Table) WithOverrides(overrides map[string]string) (Table, error) {
	out := make(Table, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		f, err := ParseFlag(overrides[k])
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", k, err)
		}
		out[community.NormalizeCategory(k)] = f
	}
	return out, nil
}

// Derive computes the intent record for the selected communities. Selected
// IDs missing from communities and unmapped categories are ignored.
func (t Table) Derive(selected selection.Set, communities []community.Community) Record {
	var rec Record
	if selected.Len() == 0 {
		return rec
	}
	for _, c := range communities {
		if !selected.Contains(c.ID) {
			continue
		}
		if f, ok := t[community.NormalizeCategory(c.Category)]; ok {
			rec.Set(f)
		}
	}
	return rec
}

// Derive uses DefaultTable.
func Derive(selected selection.Set, communities []community.Community) Record {
	return DefaultTable().Derive(selected, communities)
}

package community

import (
	"sort"
	"strings"
)

// Community is a joinable topical group returned by the API.
type Community struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Well-known category labels. The API may return others.
const (
	CategorySport            = "sport"
	CategorySocial           = "social"
	CategoryEntrepreneurship = "entrepreneurship"
	CategoryProfessionals    = "professionals"
	CategoryNightlife        = "nightlife"
	CategoryEvents           = "events"
)

// NormalizeCategory lowercases and trims a category label so "Sport" and
// " sport" compare equal.
func NormalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// Index maps community IDs to their metadata.
func Index(communities []Community) map[string]Community {
	idx := make(map[string]Community, len(communities))
	for _, c := range communities {
		idx[c.ID] = c
	}
	return idx
}

// Group is a category heading with its communities, used for listings.
type Group struct {
	Category    string
	Communities []Community
}

// GroupByCategory buckets communities by normalized category. Groups are
// sorted by category and communities within a group by name.
func GroupByCategory(communities []Community) []Group {
	buckets := make(map[string][]Community)
	for _, c := range communities {
		cat := NormalizeCategory(c.Category)
		if cat == "" {
			cat = "other"
		}
		buckets[cat] = append(buckets[cat], c)
	}

	cats := make([]string, 0, len(buckets))
	for k := range buckets {
		cats = append(cats, k)
	}
	sort.Strings(cats)

	groups := make([]Group, 0, len(cats))
	for _, cat := range cats {
		members := buckets[cat]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Name < members[j].Name
		})
		groups = append(groups, Group{Category: cat, Communities: members})
	}
	return groups
}

// Package game holds the monthly game screen's countdown and leaderboard.
package game

import (
	"fmt"
	"sort"
	"time"
)

// NextStart returns the first instant of the month after now, in now's
// location.
func NextStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
}

// Countdown is the time left until the next game.
type Countdown struct {
	Days, Hours, Minutes, Seconds int
}

// Until splits the time between now and the next game start.
func Until(now time.Time) Countdown {
	d := NextStart(now).Sub(now)
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return Countdown{
		Days:    total / 86400,
		Hours:   total % 86400 / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

// String renders "DD:HH:MM:SS".
func (c Countdown) String() string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d", c.Days, c.Hours, c.Minutes, c.Seconds)
}

// Player is one leaderboard row.
type Player struct {
	Name  string
	Score int
}

// Entry is a ranked player.
type Entry struct {
	Rank int
	Player
}

// Rank orders players by score, highest first, breaking ties by name.
// Ranks start at 1. The input is not modified.
func Rank(players []Player) []Entry {
	sorted := make([]Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Name < sorted[j].Name
	})

	out := make([]Entry, len(sorted))
	for i, p := range sorted {
		out[i] = Entry{Rank: i + 1, Player: p}
	}
	return out
}

// World is a progress card on the game screen.
type World struct {
	Name     string
	Progress float64 // 0..1
}

// Board is everything the game screen shows.
type Board struct {
	XP          int
	Leaderboard []Entry
	Worlds      []World
}

// DemoBoard returns the sample data shown until the backend serves scores.
func DemoBoard() Board {
	return Board{
		XP: 8540,
		Leaderboard: Rank([]Player{
			{Name: "AstroNova", Score: 12500},
			{Name: "CipherKai", Score: 11200},
			{Name: "LunaJ", Score: 10800},
		}),
		Worlds: []World{
			{Name: "Urban Explorer", Progress: 0.65},
			{Name: "Social Butterfly", Progress: 0.4},
			{Name: "Night Owl", Progress: 0.2},
		},
	}
}

// ProgressBar renders p as a bar of width cells.
func ProgressBar(p float64, width int) string {
	if width <= 0 {
		return ""
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	filled := int(p*float64(width) + 0.5)
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return string(bar)
}

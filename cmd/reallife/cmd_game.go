package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/reallife-app/reallife/internal/game"
)

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Show the countdown to the next game and the leaderboard",
	Run: func(cmd *cobra.Command, args []string) {
		now := time.Now()
		board := game.DemoBoard()

		fmt.Printf("Next game starts %s\n", game.NextStart(now).Format("Mon Jan 2"))
		fmt.Printf("  %s  (days:hours:minutes:seconds)\n\n", game.Until(now))
		fmt.Printf("XP %d\n\n", board.XP)

		fmt.Println("LEADERBOARD")
		for _, e := range board.Leaderboard {
			fmt.Printf("  %d. %-12s %6d\n", e.Rank, e.Name, e.Score)
		}
		fmt.Println()

		fmt.Println("WORLDS")
		for _, w := range board.Worlds {
			fmt.Printf("  %-18s %s %3.0f%%\n", w.Name, game.ProgressBar(w.Progress, 20), w.Progress*100)
		}
	},
}

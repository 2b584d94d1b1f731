package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reallife-app/reallife/internal/commands"
)

var communitiesMine bool

var communitiesCmd = &cobra.Command{
	Use:   "communities",
	Short: "List communities by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := activeToken()
		if err != nil {
			return err
		}
		result, err := commands.ListCommunities(commandContext(cmd), client, store, token, communitiesMine)
		if err != nil {
			return err
		}

		if result.Total == 0 {
			if communitiesMine {
				fmt.Println("You have not joined any communities yet. Run 'reallife setup' to pick some.")
			} else {
				fmt.Println("No communities available.")
			}
			return nil
		}

		for _, g := range result.Groups {
			fmt.Println(strings.ToUpper(g.Category))
			for _, c := range g.Communities {
				fmt.Printf("  %s  %s\n", c.Name, c.ID)
			}
			fmt.Println()
		}
		fmt.Printf("%d communities\n", result.Total)
		return nil
	},
}

func init() {
	communitiesCmd.Flags().BoolVar(&communitiesMine, "mine", false, "only communities you joined")
}

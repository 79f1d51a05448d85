package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bite/internal/application/commands"
)

var interactCmd = &cobra.Command{
	Use:   "interact",
	Short: "Record which tags an interaction tag affects",
	Long: `Interactions relate an interaction tag on an image to the tags it affects,
e.g. action:holding affects object:cup on one picture.`,
}

var interactAddCmd = &cobra.Command{
	Use:   "add <hash> <interaction> <affected>",
	Short: "Record that an interaction affects a tag",
	Long: `Record that an interaction affects a tag on an image. The image and both
tags must already exist.

Example:
  bite-cli interact add 5d41402a action:holding object:cup`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewAddInteractionCommand(GetSession(), args[0], args[1], args[2]).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

var interactShowCmd = &cobra.Command{
	Use:   "show <hash> [interaction]",
	Short: "Show the interactions recorded on an image",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		interaction := ""
		if len(args) == 2 {
			interaction = args[1]
		}

		results, err := commands.NewShowInteractionsCommand(GetSession(), args[0], interaction).Execute(context.Background())
		if err != nil {
			return err
		}

		for _, r := range results {
			if !r.Recorded {
				fmt.Printf("%s: not recorded\n", r.InteractionPath)
				continue
			}
			fmt.Printf("%s: %s\n", r.InteractionPath, strings.Join(r.Affected, " "))
		}
		return nil
	},
}

func init() {
	interactCmd.AddCommand(interactAddCmd, interactShowCmd)
	rootCmd.AddCommand(interactCmd)
}

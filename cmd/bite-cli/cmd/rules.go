package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bite/internal/application/commands"
)

// newRuleCmd builds the add/rm/list group for one rule table
func newRuleCmd(use string, kind commands.RuleKind, long string) *cobra.Command {
	group := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Manage the %s table", kind),
		Long:  long,
	}

	group.AddCommand(&cobra.Command{
		Use:   "add <before> <after>",
		Short: fmt.Sprintf("Add a %s", kind),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.NewAddRuleCommand(GetSession(), kind, args[0], args[1]).Execute(context.Background())
			if err != nil {
				return err
			}
			fmt.Println(result.Message)
			return nil
		},
	})

	group.AddCommand(&cobra.Command{
		Use:   "rm <before>",
		Short: fmt.Sprintf("Remove a %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.NewRemoveRuleCommand(GetSession(), kind, args[0]).Execute(context.Background())
			if err != nil {
				return err
			}
			fmt.Println(result.Message)
			return nil
		},
	})

	group.AddCommand(&cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List every %s", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := commands.NewListRulesCommand(GetSession(), kind).Execute(context.Background())
			if err != nil {
				return err
			}
			for _, p := range pairs {
				fmt.Printf("%s -> %s\n", p.Before, p.After)
			}
			return nil
		},
	})

	return group
}

func init() {
	rootCmd.AddCommand(newRuleCmd("sub", commands.RuleSubstitution,
		`Substitutions rewrite a typed tag before it is assigned or completed.

Example:
  bite-cli sub add kitty animal:cat`))

	rootCmd.AddCommand(newRuleCmd("impl", commands.RuleImplication,
		`Implications assign a second tag whenever the first one is assigned.

Example:
  bite-cli impl add animal:cat:tabby pattern:striped`))
}

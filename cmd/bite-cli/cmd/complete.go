package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bite/internal/application/commands"
)

var completeCmd = &cobra.Command{
	Use:   "complete <text>",
	Short: "Complete a partial tag name to a full path",
	Long: `Complete typed text to a tag path. Substitutions apply first; otherwise
the shallowest tag whose name starts with the text wins.

Example:
  bite-cli complete tab    # animal:cat:tabby`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := commands.NewAutocompleteCommand(GetSession(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(path)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search tag paths",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := commands.NewSearchCommand(GetSession(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No matching tags")
			return nil
		}
		for _, r := range results {
			fmt.Printf("%-40s %d\n", r.Path, r.ImageCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completeCmd, searchCmd)
}

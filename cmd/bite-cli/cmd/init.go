package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bite/internal/application/commands"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data directory",
	Long: `Create the data directory layout (images/, thumbs/) if it does not exist
and report what it holds.

Example:
  bite-cli init --data ~/pictures/.bite`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		images, err := commands.NewListImagesCommand(GetSession(), "").Execute(ctx)
		if err != nil {
			return err
		}
		tags, err := commands.NewListTagsCommand(GetSession(), "").Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Data directory %s: %d images, %d tags\n", env.DataDir, len(images), len(tags))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

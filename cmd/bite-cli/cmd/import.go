package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"bite/internal/application/commands"
)

var importCmd = &cobra.Command{
	Use:   "import [hash]...",
	Short: "Import tags from the configured supplier",
	Long: `Fetch tags for images from the supplier configured in bite.yaml and assign
them as regular tags, after substitution. With no hashes every image is
imported.

Configure either a command, run with the hash as its last argument:

  supplier:
    command: ["booru-lookup", "--json"]
    delay: 1s

or a dump file of "hash tag tag ..." lines:

  supplier:
    dump: tags.dump`,
	RunE: func(cmd *cobra.Command, args []string) error {
		supplier, err := env.Supplier()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := commands.NewImportTagsCommand(GetSession(), supplier, args...).Execute(ctx)
		if result != nil {
			for _, skipped := range result.Skipped {
				fmt.Fprintf(os.Stderr, "  %v\n", skipped)
			}
		}
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

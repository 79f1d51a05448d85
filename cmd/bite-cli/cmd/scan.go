package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"bite/internal/application/commands"
)

var scanRecursive bool

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Add every image in a folder",
	Long: `Hash every JPEG and PNG image in a folder and add it with its location.
Known images gain the new location. Paths containing whitespace can not be
stored and are reported as skipped.

Examples:
  bite-cli scan ~/pictures
  bite-cli scan ~/pictures -r`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := commands.NewScanCommand(GetSession(), env.Scanner(), args[0], scanRecursive).Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		for _, path := range result.Skipped {
			fmt.Fprintf(os.Stderr, "  skipped %s\n", path)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVarP(&scanRecursive, "recursive", "r", false, "descend into subfolders")
	rootCmd.AddCommand(scanCmd)
}

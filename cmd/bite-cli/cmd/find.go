package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bite/internal/application/commands"
	"bite/internal/ports"
)

var (
	findAll       []string
	findAny       []string
	findMinRating int
	findLimit     int
	findCounts    bool
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Query images by tags and rating",
	Long: `Query images through the sqlite index, which is rebuilt from the data
directory before every query.

Examples:
  bite-cli find --all animal:cat --min-rating 3
  bite-cli find --any animal:cat --any animal:dog --limit 10
  bite-cli find --counts`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := env.OpenIndex()
		if err != nil {
			return err
		}
		defer index.Close()

		ctx := context.Background()
		hashes, err := commands.NewFindImagesCommand(GetSession(), index, ports.ImageQuery{
			AllTags:   findAll,
			AnyTags:   findAny,
			MinRating: findMinRating,
			Limit:     findLimit,
		}).Execute(ctx)
		if err != nil {
			return err
		}

		if findCounts {
			counts, err := index.TagCounts(ctx)
			if err != nil {
				return err
			}
			for _, c := range counts {
				fmt.Printf("%-40s %d\n", c.Path, c.Count)
			}
			return nil
		}

		for _, hash := range hashes {
			fmt.Println(hash)
		}
		return nil
	},
}

func init() {
	findCmd.Flags().StringSliceVar(&findAll, "all", nil, "tags every image must bear")
	findCmd.Flags().StringSliceVar(&findAny, "any", nil, "tags of which an image must bear at least one")
	findCmd.Flags().IntVar(&findMinRating, "min-rating", 0, "minimum rating (0-5)")
	findCmd.Flags().IntVar(&findLimit, "limit", 0, "maximum number of images (0 for no limit)")
	findCmd.Flags().BoolVar(&findCounts, "counts", false, "print per-tag image counts instead of images")
	rootCmd.AddCommand(findCmd)
}

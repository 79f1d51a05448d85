package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bite/internal/application/commands"
	"bite/internal/domain"
)

var assignType string

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Assign and manage tags",
	Long: `Assign tags to images and manage the tag tree.

Tag paths are colon-separated names from the root, e.g. animal:cat:tabby.
Tag types: regular, category, modifier, interaction.`,
}

var tagAssignCmd = &cobra.Command{
	Use:   "assign <hash> <tag>...",
	Short: "Assign tags to an image",
	Long: `Assign one or more tags to an image. Each tag is substituted first; its
ancestors and every tag it implies are assigned too. Missing tags are created
with the given type.

Examples:
  bite-cli tag assign 5d41402a animal:cat:tabby outdoor
  bite-cli tag assign 5d41402a artist:someone --type category`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := domain.ParseTagType(assignType)
		if err != nil {
			return err
		}

		ctx := context.Background()
		for _, tag := range args[1:] {
			result, err := commands.NewAssignCommand(GetSession(), args[0], tag, typ).Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Println(result.Message)
		}
		return nil
	},
}

var tagUnassignCmd = &cobra.Command{
	Use:   "unassign <hash> <tag>...",
	Short: "Remove tags from an image",
	Long: `Remove tags from an image, with their descendants. Ancestors the image no
longer needs are removed as well.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		for _, tag := range args[1:] {
			result, err := commands.NewUnassignCommand(GetSession(), args[0], tag).Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Println(result.Message)
		}
		return nil
	},
}

var tagTypeCmd = &cobra.Command{
	Use:   "type <tag> <type>",
	Short: "Change the type of a tag",
	Long: `Change the type of an existing tag.

Example:
  bite-cli tag type artist category`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := domain.ParseTagType(args[1])
		if err != nil {
			return err
		}

		result, err := commands.NewChangeTypeCommand(GetSession(), args[0], typ).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

var tagResolveCmd = &cobra.Command{
	Use:   "resolve <tag>",
	Short: "Show a tag and the images bearing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := commands.NewResolveTagCommand(GetSession(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("Path:     %s\n", d.Path)
		fmt.Printf("Type:     %s\n", d.Type)
		fmt.Printf("Children: %d\n", d.Children)
		fmt.Printf("Images:   %d\n", d.ImageCount)
		for _, hash := range d.Images {
			fmt.Printf("  %s\n", hash)
		}
		return nil
	},
}

var tagPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove tags no image uses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewPruneCommand(GetSession()).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		for _, path := range result.Removed {
			fmt.Printf("  %s\n", path)
		}
		return nil
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <tag>",
	Short: "Remove a tag and its subtree from every image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewRemoveTagCommand(GetSession(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list [parent]",
	Short: "List tags, or the children of a tag",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent := ""
		if len(args) == 1 {
			parent = args[0]
		}

		tags, err := commands.NewListTagsCommand(GetSession(), parent).Execute(context.Background())
		if err != nil {
			return err
		}

		for _, tag := range tags {
			fmt.Printf("%-40s %-12s %d\n", tag.Path, strings.ToLower(tag.Type.String()), tag.ImageCount)
		}
		return nil
	},
}

func init() {
	tagAssignCmd.Flags().StringVarP(&assignType, "type", "t", "regular", "type of tags created by the assignment")

	tagCmd.AddCommand(tagAssignCmd, tagUnassignCmd, tagTypeCmd, tagResolveCmd,
		tagPruneCmd, tagRmCmd, tagListCmd)
	rootCmd.AddCommand(tagCmd)
}

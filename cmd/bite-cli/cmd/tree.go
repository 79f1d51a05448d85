package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"bite/internal/adapters/tui/styles"
	"bite/internal/application/commands"
	"bite/internal/domain"
)

var treePlain bool

var treeCmd = &cobra.Command{
	Use:   "tree [tag]",
	Short: "Print the tag tree",
	Long: `Print the tag tree with image counts, coloured by tag type.

Examples:
  bite-cli tree
  bite-cli tree animal --plain`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := commands.NewBuildTreeCommand(GetSession()).Execute(context.Background())
		if err != nil {
			return err
		}

		start := root.Children
		if len(args) == 1 {
			node := root.Find(args[0])
			if node == nil {
				return fmt.Errorf("tag %s: %w", args[0], domain.ErrNotFound)
			}
			start = []*domain.TreeNode{node}
		}

		var sb strings.Builder
		for _, node := range start {
			printTree(&sb, node, 0)
		}
		fmt.Print(sb.String())
		return nil
	},
}

func printTree(sb *strings.Builder, node *domain.TreeNode, depth int) {
	name := node.Name
	count := fmt.Sprintf("(%d)", node.ImageCount)
	if !treePlain {
		name = styles.TagStyle(node.Type).Render(name)
		count = lipgloss.NewStyle().Foreground(styles.Muted).Render(count)
	}
	fmt.Fprintf(sb, "%s%s %s\n", strings.Repeat("  ", depth), name, count)

	for _, child := range node.Children {
		printTree(sb, child, depth+1)
	}
}

func init() {
	treeCmd.Flags().BoolVar(&treePlain, "plain", false, "print without colours")
	rootCmd.AddCommand(treeCmd)
}

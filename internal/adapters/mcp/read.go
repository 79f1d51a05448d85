package mcp

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"bite/internal/application"
	"bite/internal/application/commands"
	"bite/internal/domain"
	"bite/internal/ports"
)

// RegisterReadTools adds all read-only database tools to the MCP server.
// index may be nil, in which case find_images is not offered.
func RegisterReadTools(s *server.MCPServer, session *application.Session, index ports.TagIndex) {
	s.AddTool(treeTool(), treeHandler(session))
	s.AddTool(imageTagsTool(), imageTagsHandler(session))
	s.AddTool(resolveTagTool(), resolveTagHandler(session))
	s.AddTool(autocompleteTool(), autocompleteHandler(session))
	s.AddTool(interactionsTool(), interactionsHandler(session))
	if index != nil {
		s.AddTool(findImagesTool(), findImagesHandler(session, index))
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the tag tree with the type and image count of every tag."),
		mcp.WithString("path",
			mcp.Description("Tag path to start from (e.g. character). Omit for the whole tree."),
		),
	)
}

func treeHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root, err := commands.NewBuildTreeCommand(session).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if path := req.GetString("path", ""); path != "" {
			node := root.Find(path)
			if node == nil {
				return toolError(fmt.Errorf("%w: tag %s", domain.ErrNotFound, path))
			}
			root = node
		}

		if len(root.Children) == 0 && root.Type == domain.TagTypeRoot {
			return mcp.NewToolResultText("No tags."), nil
		}
		var sb strings.Builder
		renderTree(&sb, root, "")
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(sb *strings.Builder, node *domain.TreeNode, prefix string) {
	if node.Type != domain.TagTypeRoot {
		fmt.Fprintf(sb, "%s%s  [%s] (%d)\n", prefix, node.Name, node.Type, node.ImageCount)
		prefix += "  "
	}
	for _, child := range node.Children {
		renderTree(sb, child, prefix)
	}
}

// --- image_tags ---

func imageTagsTool() mcp.Tool {
	return mcp.NewTool("image_tags",
		mcp.WithDescription("Show an image: its rating, locations, tags and interactions."),
		mcp.WithString("hash",
			mcp.Description("Image content hash (MD5 hex)"),
			mcp.Required(),
		),
	)
}

func imageTagsHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		details, err := commands.NewShowImageCommand(session, req.GetString("hash", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(formatImage(details)), nil
	}
}

// --- resolve_tag ---

func resolveTagTool() mcp.Tool {
	return mcp.NewTool("resolve_tag",
		mcp.WithDescription("Look up a tag by its colon-separated path and list the images bearing it."),
		mcp.WithString("path",
			mcp.Description("Tag path (e.g. character:alice)"),
			mcp.Required(),
		),
	)
}

func resolveTagHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		details, err := commands.NewResolveTagCommand(session, req.GetString("path", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s  [%s]  children: %d  images: %d\n", details.Path, details.Type, details.Children, len(details.Images))
		for _, hash := range details.Images {
			fmt.Fprintf(&sb, "  %s\n", hash)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- autocomplete ---

func autocompleteTool() mcp.Tool {
	return mcp.NewTool("autocomplete",
		mcp.WithDescription("Expand a typed fragment to a full tag path: substitutions apply first, then the shallowest tag whose name starts with the fragment is chosen."),
		mcp.WithString("text",
			mcp.Description("Typed fragment (e.g. tab)"),
			mcp.Required(),
		),
	)
}

func autocompleteHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		completed, err := commands.NewAutocompleteCommand(session, req.GetString("text", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(completed), nil
	}
}

// --- interactions ---

func interactionsTool() mcp.Tool {
	return mcp.NewTool("interactions",
		mcp.WithDescription("List the tags an interaction tag affects on an image."),
		mcp.WithString("hash",
			mcp.Description("Image content hash"),
			mcp.Required(),
		),
		mcp.WithString("interaction",
			mcp.Description("Interaction tag path. Omit to list every interaction of the image."),
		),
	)
}

func interactionsHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewShowInteractionsCommand(session, req.GetString("hash", ""), req.GetString("interaction", ""))
		results, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		for _, r := range results {
			if !r.Recorded {
				fmt.Fprintf(&sb, "%s: none recorded\n", r.InteractionPath)
				continue
			}
			fmt.Fprintf(&sb, "%s: %s\n", r.InteractionPath, strings.Join(r.Affected, " "))
		}
		if sb.Len() == 0 {
			return mcp.NewToolResultText("No interactions."), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- find_images ---

func findImagesTool() mcp.Tool {
	return mcp.NewTool("find_images",
		mcp.WithDescription("Find images by tags and minimum rating."),
		mcp.WithArray("all_tags",
			mcp.Description("Tag paths every result must bear"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("any_tags",
			mcp.Description("Tag paths of which every result bears at least one"),
			mcp.WithStringItems(),
		),
		mcp.WithNumber("min_rating",
			mcp.Description("Minimum rating, 0 to 5"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 50)"),
		),
	)
}

func findImagesHandler(session *application.Session, index ports.TagIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q := ports.ImageQuery{
			AllTags:   req.GetStringSlice("all_tags", nil),
			AnyTags:   req.GetStringSlice("any_tags", nil),
			MinRating: req.GetInt("min_rating", 0),
			Limit:     req.GetInt("limit", 50),
		}

		hashes, err := commands.NewFindImagesCommand(session, index, q).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(hashes) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}
		return mcp.NewToolResultText(strings.Join(hashes, "\n")), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatImage(d *commands.ImageDetails) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "hash: %s\nrating: %d\n", d.Hash, d.Rating)
	if len(d.Locations) > 0 {
		fmt.Fprintf(&sb, "locations: %s\n", strings.Join(d.Locations, " "))
	}
	if d.Thumbnail != "" {
		fmt.Fprintf(&sb, "thumbnail: %s\n", d.Thumbnail)
	}
	if len(d.Tags) > 0 {
		fmt.Fprintf(&sb, "tags: %s\n", strings.Join(d.Tags, " "))
	}
	for _, interaction := range slices.Sorted(maps.Keys(d.Interactions)) {
		fmt.Fprintf(&sb, "interaction %s: %s\n", interaction, strings.Join(d.Interactions[interaction], " "))
	}
	return sb.String()
}

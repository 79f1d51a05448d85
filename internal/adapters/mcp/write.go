package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"bite/internal/application"
	"bite/internal/application/commands"
	"bite/internal/domain"
)

// RegisterWriteTools adds all mutating database tools to the MCP server.
// Every call is saved before it returns.
func RegisterWriteTools(s *server.MCPServer, session *application.Session) {
	s.AddTool(assignTool(), assignHandler(session))
	s.AddTool(unassignTool(), unassignHandler(session))
	s.AddTool(setRatingTool(), setRatingHandler(session))
	s.AddTool(setThumbnailTool(), setThumbnailHandler(session))
	s.AddTool(addRuleTool("add_substitution", "Add a substitution: typed text equal to 'before' is replaced by 'after' during autocomplete and import."), addRuleHandler(session, commands.RuleSubstitution))
	s.AddTool(addRuleTool("add_implication", "Add an implication: assigning 'before' to an image also assigns 'after'."), addRuleHandler(session, commands.RuleImplication))
	s.AddTool(addInteractionTool(), addInteractionHandler(session))
	s.AddTool(deleteImageTool(), deleteImageHandler(session))
}

// --- assign ---

func assignTool() mcp.Tool {
	return mcp.NewTool("assign",
		mcp.WithDescription("Assign a tag to an image. Ancestor tags and implied tags are assigned too; missing tags are created."),
		mcp.WithString("hash",
			mcp.Description("Image content hash"),
			mcp.Required(),
		),
		mcp.WithString("tag",
			mcp.Description("Tag path (e.g. animal:cat)"),
			mcp.Required(),
		),
		mcp.WithString("type",
			mcp.Description("Type for a newly created tag"),
			mcp.Enum("regular", "category", "modifier", "interaction"),
		),
	)
}

func assignHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		typ, err := domain.ParseTagType(req.GetString("type", "regular"))
		if err != nil {
			return toolError(err)
		}

		cmd := commands.NewAssignCommand(session, req.GetString("hash", ""), req.GetString("tag", ""), typ)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- unassign ---

func unassignTool() mcp.Tool {
	return mcp.NewTool("unassign",
		mcp.WithDescription("Remove a tag from an image, with its assigned descendants. An ancestor is removed as well when none of its children remain assigned. Tags added through implications stay assigned."),
		mcp.WithString("hash",
			mcp.Description("Image content hash"),
			mcp.Required(),
		),
		mcp.WithString("tag",
			mcp.Description("Tag path"),
			mcp.Required(),
		),
	)
}

func unassignHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewUnassignCommand(session, req.GetString("hash", ""), req.GetString("tag", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- set_rating ---

func setRatingTool() mcp.Tool {
	return mcp.NewTool("set_rating",
		mcp.WithDescription("Set the rating of an image. Values outside 0 to 5 are clamped."),
		mcp.WithString("hash",
			mcp.Description("Image content hash"),
			mcp.Required(),
		),
		mcp.WithNumber("rating",
			mcp.Description("Rating from 0 to 5"),
			mcp.Required(),
		),
	)
}

func setRatingHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rating, err := req.RequireInt("rating")
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewRateImageCommand(session, req.GetString("hash", ""), rating).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- set_thumbnail ---

func setThumbnailTool() mcp.Tool {
	return mcp.NewTool("set_thumbnail",
		mcp.WithDescription("Set the thumbnail reference of an image. An empty reference clears it."),
		mcp.WithString("hash",
			mcp.Description("Image content hash"),
			mcp.Required(),
		),
		mcp.WithString("thumbnail",
			mcp.Description("Thumbnail path or reference, without whitespace"),
		),
	)
}

func setThumbnailHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewSetThumbnailCommand(session, req.GetString("hash", ""), req.GetString("thumbnail", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- add_substitution / add_implication ---

func addRuleTool(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("before",
			mcp.Description("Source tag or text"),
			mcp.Required(),
		),
		mcp.WithString("after",
			mcp.Description("Target tag path"),
			mcp.Required(),
		),
	)
}

func addRuleHandler(session *application.Session, kind commands.RuleKind) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddRuleCommand(session, kind, req.GetString("before", ""), req.GetString("after", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- add_interaction ---

func addInteractionTool() mcp.Tool {
	return mcp.NewTool("add_interaction",
		mcp.WithDescription("Record that an interaction tag on an image affects another of its tags."),
		mcp.WithString("hash",
			mcp.Description("Image content hash"),
			mcp.Required(),
		),
		mcp.WithString("interaction",
			mcp.Description("Interaction tag path"),
			mcp.Required(),
		),
		mcp.WithString("affected",
			mcp.Description("Affected tag path"),
			mcp.Required(),
		),
	)
}

func addInteractionHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddInteractionCommand(session,
			req.GetString("hash", ""),
			req.GetString("interaction", ""),
			req.GetString("affected", ""),
		)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete_image ---

func deleteImageTool() mcp.Tool {
	return mcp.NewTool("delete_image",
		mcp.WithDescription("Delete an image record with its tags and interactions. Tags left without images are pruned. The image file itself is not touched."),
		mcp.WithString("hash",
			mcp.Description("Image content hash"),
			mcp.Required(),
		),
	)
}

func deleteImageHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewDeleteImageCommand(session, req.GetString("hash", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

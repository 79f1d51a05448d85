package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "bite/internal/adapters/mcp"
	"bite/internal/bootstrap"
	"bite/internal/config"
	"bite/internal/ports"
)

func main() {
	dataFlag := flag.String("data", config.DataDir(), "path to the data directory")
	flag.Parse()

	env, err := bootstrap.Open(*dataFlag)
	if err != nil {
		log.Fatalf("bite-mcp: %v", err)
	}
	defer env.Close()

	// find_images is only offered when the index can be opened
	var index ports.TagIndex
	if idx, err := env.OpenIndex(); err != nil {
		env.Log.Warnf("query index unavailable: %v", err)
	} else {
		defer idx.Close()
		index = idx
	}

	mcpServer := server.NewMCPServer(
		"bite-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, env.Session, index)
	mcpadapter.RegisterWriteTools(mcpServer, env.Session)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("bite-mcp: %v", err)
	}
}

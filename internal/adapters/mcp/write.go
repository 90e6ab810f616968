package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterWriteTools adds the tools that update the store.
func RegisterWriteTools(s *server.MCPServer, b *Backend) {
	s.AddTool(lintTool(), lintHandler(b))
}

// --- lint ---

func lintTool() mcp.Tool {
	return mcp.NewTool("lint",
		mcp.WithDescription("Lint a markdown book: re-parse changed files, check the toctree and every internal link. Returns all findings."),
		mcp.WithString("source",
			mcp.Description("Book directory, single file, or path to the toctree file. Omit to lint the configured book."),
		),
		mcp.WithBoolean("force",
			mcp.Description("Rebuild the store from scratch and re-parse every file."),
		),
	)
}

func lintHandler(b *Backend) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := b.lint(ctx, req.GetString("source", ""), req.GetBool("force", false))
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "run %s: %d files, %d parsed, %d links checked, %d broken\n",
			result.RunID, result.Stats.FilesScanned, result.Stats.FilesParsed,
			result.Stats.LinksChecked, result.Stats.LinksInvalid)

		findings := result.Findings()
		if len(findings) == 0 {
			sb.WriteString("No problems found.\n")
			return mcp.NewToolResultText(sb.String()), nil
		}
		for _, f := range findings {
			fmt.Fprintf(&sb, "%s  %s  %s\n", f.Kind, f.Location(), f.Detail)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

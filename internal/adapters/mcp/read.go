package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mdlint/internal/application"
	"mdlint/internal/domain"
	"mdlint/internal/ports"
)

// RegisterReadTools adds the tools that only query the last run's store.
func RegisterReadTools(s *server.MCPServer, b *Backend) {
	s.AddTool(toctreeReportTool(), toctreeReportHandler(b))
	s.AddTool(invalidLinksTool(), invalidLinksHandler(b))
	s.AddTool(headingsTool(), headingsHandler(b))
	s.AddTool(infoTool(), infoHandler(b))
}

// --- toctree_report ---

func toctreeReportTool() mcp.Tool {
	return mcp.NewTool("toctree_report",
		mcp.WithDescription("Show duplicate and orphan files found by the last lint run."),
	)
}

func toctreeReportHandler(b *Backend) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if report, ok := b.lastToc(); ok {
			if report == nil {
				return mcp.NewToolResultText(noToctree(b)), nil
			}
			return mcp.NewToolResultText(renderToc(report)), nil
		}

		// No lint in this session: rebuild what the stored flags still tell
		var report *domain.TocReport
		err := b.withStore(func(store ports.GraphStore) error {
			toc, err := store.GetFile(b.Toctree)
			if err != nil || toc == nil {
				return err
			}
			files, err := store.ListFiles()
			if err != nil {
				return err
			}
			report = &domain.TocReport{}
			for _, f := range files {
				if f.Duplicate {
					report.Duplicates = append(report.Duplicates, f.Filename)
				}
			}
			report.Orphans, err = store.Orphans(b.exempt()...)
			return err
		})
		if err != nil {
			return toolError(err)
		}
		if report == nil {
			return mcp.NewToolResultText(noToctree(b)), nil
		}
		return mcp.NewToolResultText(renderToc(report)), nil
	}
}

func noToctree(b *Backend) string {
	return fmt.Sprintf("No toctree: %s was not found in the book.\n", b.Toctree)
}

func renderToc(report *domain.TocReport) string {
	var sb strings.Builder
	writeList(&sb, "DUPLICATES:", report.Duplicates, "No duplicate files found.")
	writeList(&sb, "ORPHANS:", report.Orphans, "No orphan files found.")
	if len(report.Missing) > 0 {
		writeList(&sb, "MISSING:", report.Missing, "")
	}
	return sb.String()
}

func writeList(sb *strings.Builder, title string, names []string, fallback string) {
	sb.WriteString(title + "\n")
	if len(names) == 0 {
		sb.WriteString("  " + fallback + "\n")
		return
	}
	for _, name := range names {
		sb.WriteString("  - " + name + "\n")
	}
}

// --- invalid_links ---

func invalidLinksTool() mcp.Tool {
	return mcp.NewTool("invalid_links",
		mcp.WithDescription("List internal links whose target file or anchor was not found in the last lint run."),
		mcp.WithString("file",
			mcp.Description("Only list links from this book file (e.g. guide.md). Omit for all files."),
		),
	)
}

func invalidLinksHandler(b *Backend) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		only := req.GetString("file", "")

		var sb strings.Builder
		err := b.withStore(func(store ports.GraphStore) error {
			files, err := store.ListFiles()
			if err != nil {
				return err
			}
			for _, f := range files {
				if f.Filename == b.Toctree || (only != "" && f.Filename != only) {
					continue
				}
				links, err := store.InvalidLinks(f.ID)
				if err != nil {
					return err
				}
				for _, l := range links {
					fmt.Fprintf(&sb, "%s:%d  %s\n", f.Filename, l.Line, application.DescribeLink(l))
				}
			}
			return nil
		})
		if err != nil {
			return toolError(err)
		}

		if sb.Len() == 0 {
			return mcp.NewToolResultText("No broken links."), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- headings ---

func headingsTool() mcp.Tool {
	return mcp.NewTool("headings",
		mcp.WithDescription("List the anchors a book file exposes, so links to it can be written correctly."),
		mcp.WithString("file",
			mcp.Description("Book file (e.g. setup.md)"),
			mcp.Required(),
		),
	)
}

func headingsHandler(b *Backend) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("file", "")
		if name == "" {
			return toolError(fmt.Errorf("file is required"))
		}

		var sb strings.Builder
		err := b.withStore(func(store ports.GraphStore) error {
			f, err := store.GetFile(name)
			if err != nil {
				return err
			}
			if f == nil {
				return fmt.Errorf("unknown file: %s (run lint first)", name)
			}
			headings, err := store.Headings(f.ID)
			if err != nil {
				return err
			}
			for _, h := range headings {
				fmt.Fprintf(&sb, "%d  #%s\n", h.Line, h.Anchor)
			}
			return nil
		})
		if err != nil {
			return toolError(err)
		}

		if sb.Len() == 0 {
			return mcp.NewToolResultText("No headings."), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- info ---

func infoTool() mcp.Tool {
	return mcp.NewTool("info",
		mcp.WithDescription("Show store bookkeeping: creation time, last update and last run id."),
	)
}

func infoHandler(b *Backend) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var sb strings.Builder
		err := b.withStore(func(store ports.GraphStore) error {
			meta, err := store.Metadata()
			if err != nil {
				return err
			}
			files, err := store.ListFiles()
			if err != nil {
				return err
			}
			fmt.Fprintf(&sb, "created:     %s\n", meta.Created.Format(time.RFC3339))
			fmt.Fprintf(&sb, "last update: %s\n", meta.LastUpdate.Format(time.RFC3339))
			fmt.Fprintf(&sb, "last run:    %s\n", meta.LastRunID)
			fmt.Fprintf(&sb, "files:       %d\n", len(files))
			return nil
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

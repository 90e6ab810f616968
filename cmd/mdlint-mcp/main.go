package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mdlint/internal/adapters/filesystem"
	mcpadapter "mdlint/internal/adapters/mcp"
	"mdlint/internal/adapters/sqlite"
	"mdlint/internal/config"
	"mdlint/internal/ports"
)

func main() {
	configFlag := flag.String("config", "", "config file (default "+config.FileName+" if present)")
	bookFlag := flag.String("book", ".", "default book to lint")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("mdlint-mcp: %v", err)
	}

	// stdout carries the protocol, so logs go to the log file only
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("mdlint-mcp: %v", err)
		}
		defer f.Close()
		out = f
	}

	backend := &mcpadapter.Backend{
		Source: filesystem.NewSource(cfg.Toctree, cfg.Include, cfg.Exclude),
		Open: func(rebuild bool) (ports.GraphStore, error) {
			return sqlite.Open(cfg.Database, rebuild)
		},
		Logger:    log.New(out, "[mdlint-mcp] ", log.LstdFlags),
		Book:      *bookFlag,
		StorePath: cfg.Database,
		Toctree:   cfg.Toctree,
		Root:      cfg.Root,
	}

	mcpServer := server.NewMCPServer(
		"mdlint-mcp",
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

	mcpadapter.RegisterReadTools(mcpServer, backend)
	mcpadapter.RegisterWriteTools(mcpServer, backend)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("mdlint-mcp: %v", err)
	}
}

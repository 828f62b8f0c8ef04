package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/healthsync/internal/mcp"
	"github.com/claude/healthsync/internal/sources"
	"github.com/claude/healthsync/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "HealthSync server URL for remote mode (e.g. https://healthsync.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("HEALTHSYNC_API_KEY"), "API key for remote mode (defaults to HEALTHSYNC_API_KEY)")
	dsn := flag.String("dsn", os.Getenv("HEALTHSYNC_DSN"), "Postgres DSN for local mode (defaults to HEALTHSYNC_DSN)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("healthsync-mcp", Version)
		return
	}

	// Log to stderr; stdout carries the MCP stdio transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var s *server.MCPServer
	switch {
	case *serverURL != "":
		client := mcp.NewHTTPClient(*serverURL, *apiKey)
		s = mcp.New(client, nil, Version, log)
		log.Info("mcp remote mode", "server", *serverURL)
	case *dsn != "":
		db, err := storage.New(context.Background(), *dsn)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		s = mcp.New(db, sources.NewResolver(db), Version, log)
		log.Info("mcp local mode")
	default:
		fmt.Fprintf(os.Stderr, "Usage: healthsync-mcp -server <URL> [-api-key KEY] | -dsn <postgres DSN>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}

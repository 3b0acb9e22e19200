// Command swastricare-mcp exposes activity data to MCP clients over stdio.
// It can read the database directly (default) or talk to a running server
// over HTTP with -url, for machines that only have network access.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/analytics"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/config"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/mcp"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/reconcile"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (database mode)")
	serverURL := flag.String("url", "", "Swastricare server URL (HTTP mode, skips the database)")
	flag.Parse()

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	opts := analytics.Options{MaxHeartRate: config.DefaultMaxHeartRate}
	var rc reconcile.Config

	if *serverURL != "" {
		ds = mcp.NewHTTPClient(strings.TrimRight(*serverURL, "/"))
		log.Info("using HTTP data source", "url", *serverURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		opts = analytics.Options{
			MaxHeartRate:     cfg.Analytics.MaxHeartRate,
			PaceStrideMeters: cfg.Analytics.PaceStrideMeters,
		}
		rc = reconcile.Config{OverlapThreshold: cfg.Analytics.OverlapThreshold}

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("using database data source")
	}

	mcpSrv := mcp.New(ds, Version, opts, rc, log)

	if err := server.ServeStdio(mcpSrv); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}

// Package main runs the progression MCP server over stdio (for local Cursor use).
// The same MCP server is also mounted on the main backend at /mcp over HTTP,
// so you can use either: stdio (this cmd) or the backend URL (no extra deploy).
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/ascend-app/backend/internal/config"
	"github.com/ascend-app/backend/internal/db"
	"github.com/ascend-app/backend/internal/programs"
	"github.com/ascend-app/backend/internal/progression"
	progressionmcp "github.com/ascend-app/backend/internal/progression/mcp"

	"github.com/coocood/freecache"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	catalogCache := freecache.NewCache(cfg.CatalogCacheSizeMB * 1024 * 1024)
	catalog := programs.NewCatalog(
		programs.NewRepo(dbPool),
		catalogCache,
		time.Duration(cfg.CatalogCacheTTLMinutes)*time.Minute,
	)
	tracksRepo := progression.NewRepo(dbPool)
	server := progressionmcp.NewServer(dbPool, catalog, tracksRepo)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}

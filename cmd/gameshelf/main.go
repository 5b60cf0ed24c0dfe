package main

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/baggage"

	"github.com/ryanm101/gameshelf/internal/config"
	"github.com/ryanm101/gameshelf/internal/logging"
	"github.com/ryanm101/gameshelf/internal/tracing"
)

const appVersion = "1.0.0"

var cfg *config.Config

func main() {
	ctx := context.Background()

	m, _ := baggage.NewMember("app.version", appVersion)
	b, _ := baggage.New(m)
	ctx = baggage.ContextWithBaggage(ctx, b)

	var err error
	cfg, err = config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})

	shutdown, err := tracing.Setup(ctx, tracing.Config{
		Endpoint: cfg.Tracing.Endpoint,
		Version:  appVersion,
	})
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			logging.Error("failed to shutdown tracing", "error", err)
		}
	}()

	args := parseGlobalFlags(os.Args[1:])
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "serve":
		handleServeCommand(ctx, args[1:])
	case "games":
		if len(args) < 2 {
			fmt.Println("Usage: gameshelf games <command>")
			fmt.Println("Commands: list, add, complete, delete")
			os.Exit(1)
		}
		handleGamesCommand(ctx, args[1:])
	case "platforms":
		handlePlatformsCommand(ctx, args[1:])
	case "metadata":
		if len(args) < 2 {
			fmt.Println("Usage: gameshelf metadata <command>")
			fmt.Println("Commands: search, details")
			os.Exit(1)
		}
		handleMetadataCommand(ctx, args[1:])
	case "sheet":
		if len(args) < 2 {
			fmt.Println("Usage: gameshelf sheet <game_id> [--refresh]")
			os.Exit(1)
		}
		handleSheetCommand(ctx, args[1:])
	case "config":
		handleConfigCommand(args[1:])
	case "doctor":
		handleDoctorCommand(ctx)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("gameshelf - game collection tracker")
	fmt.Println()
	fmt.Println("Usage: gameshelf [global options] <command> [options]")
	fmt.Println()
	fmt.Println("Global Options:")
	fmt.Println("  --json                                   Output in JSON format")
	fmt.Println("  --quiet, -q                              Suppress non-error output")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve                                    Start the HTTP API")
	fmt.Println("  games list [--platform P] [--completed B] List games")
	fmt.Println("  games add <title> <platform> [--ownership T] Add a game")
	fmt.Println("  games complete <id>                      Mark a game completed")
	fmt.Println("  games delete <id>                        Delete a game")
	fmt.Println("  platforms [--aliases]                    List platforms in the collection")
	fmt.Println("  metadata search <query> [--platform P]   Search the IGDB catalog")
	fmt.Println("  metadata details <igdb_id>               Show a catalog entry")
	fmt.Println("  sheet <game_id> [--refresh]              Show the enriched game sheet")
	fmt.Println("  config show                              Show active configuration")
	fmt.Println("  config init                              Write an example config file")
	fmt.Println("  doctor                                   Run health checks")
	fmt.Println("  help                                     Show this help")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  DATABASE_URL                             Database URL or path (default: gameshelf.db)")
	fmt.Println("  IGDB_CLIENT_ID, IGDB_CLIENT_SECRET       Catalog credentials")
	fmt.Println("  SHEET_CACHE_TTL_SECONDS                  Sheet cache lifetime (default: 86400)")
}

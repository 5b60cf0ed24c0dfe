package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ryanm101/gameshelf/internal/db"
	"github.com/ryanm101/gameshelf/internal/library"
	"github.com/ryanm101/gameshelf/internal/match"
)

func handleGamesCommand(ctx context.Context, args []string) {
	database, err := openDB(ctx)
	if err != nil {
		PrintError("Error: failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	svc := library.NewService(database)

	switch args[0] {
	case "list":
		platform, rest := flagValue(args[1:], "platform")
		completed, _ := flagValue(rest, "completed")
		listGames(ctx, svc, library.ListFilter{Platform: platform, Completed: completed})
	case "add":
		ownership, rest := flagValue(args[1:], "ownership")
		if len(rest) < 2 {
			fmt.Println("Usage: gameshelf games add <title> <platform> [--ownership physical|digital|unknown]")
			os.Exit(1)
		}
		addGame(ctx, svc, library.NewGame{Title: rest[0], Platform: rest[1], OwnershipType: ownership})
	case "complete":
		id := requireID(args[1:], "Usage: gameshelf games complete <id>")
		done := true
		g, err := svc.Update(ctx, id, library.GameUpdate{Completed: &done})
		exitOnLibraryError(err)
		if outputCfg.JSON {
			PrintResult(g)
			return
		}
		PrintInfo("Marked %q as completed\n", g.Title)
	case "delete":
		id := requireID(args[1:], "Usage: gameshelf games delete <id>")
		exitOnLibraryError(svc.Delete(ctx, id))
		if outputCfg.JSON {
			PrintResult(map[string]any{"id": id, "status": "deleted"})
			return
		}
		PrintInfo("Deleted game %d\n", id)
	default:
		fmt.Printf("Unknown games command: %s\n", args[0])
		os.Exit(1)
	}
}

func listGames(ctx context.Context, svc *library.Service, f library.ListFilter) {
	games, err := svc.List(ctx, f)
	exitOnLibraryError(err)

	if outputCfg.JSON {
		PrintResult(games)
		return
	}
	if len(games) == 0 {
		PrintInfo("No games found.\n")
		return
	}

	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{formatID(g.ID), g.Title, g.Platform, yesNo(g.Completed), g.OwnershipType})
	}
	PrintTable([]string{"ID", "TITLE", "PLATFORM", "DONE", "OWNERSHIP"}, rows)
}

func addGame(ctx context.Context, svc *library.Service, in library.NewGame) {
	g, err := svc.Create(ctx, in)
	exitOnLibraryError(err)

	if outputCfg.JSON {
		PrintResult(g)
		return
	}
	PrintInfo("Added %q on %s (id %d)\n", g.Title, g.Platform, g.ID)
}

func handlePlatformsCommand(ctx context.Context, args []string) {
	if aliases, _ := hasFlag(args, "aliases"); aliases {
		printPlatformAliases()
		return
	}

	database, err := openDB(ctx)
	if err != nil {
		PrintError("Error: failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	platforms, err := library.NewService(database).Platforms(ctx)
	exitOnLibraryError(err)
	PrintResult(platforms)
}

// printPlatformAliases shows the platform names treated as equivalent when matching.
func printPlatformAliases() {
	table := make(map[string][]string)
	for _, canonical := range match.CanonicalPlatforms() {
		table[canonical] = match.Aliases(canonical)
	}
	if outputCfg.JSON {
		PrintResult(table)
		return
	}
	for _, canonical := range match.CanonicalPlatforms() {
		fmt.Printf("%-16s %s\n", canonical, strings.Join(table[canonical], ", "))
	}
}

// loadGame fetches a game for commands that take a game id.
func loadGame(ctx context.Context, database *db.DB, id int64) *db.Game {
	g, err := library.NewService(database).Get(ctx, id)
	exitOnLibraryError(err)
	return g
}

func requireID(args []string, usage string) int64 {
	if len(args) < 1 {
		fmt.Println(usage)
		os.Exit(1)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		PrintError("Error: invalid id %q\n", args[0])
		os.Exit(1)
	}
	return id
}

func exitOnLibraryError(err error) {
	if err == nil {
		return
	}
	var verr *library.ValidationError
	switch {
	case errors.As(err, &verr):
		PrintError("Error: %s\n", verr.Message)
	case errors.Is(err, library.ErrNotFound):
		PrintError("Error: game not found\n")
	default:
		PrintError("Error: %v\n", err)
	}
	os.Exit(1)
}

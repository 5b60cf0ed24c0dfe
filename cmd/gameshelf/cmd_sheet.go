package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ryanm101/gameshelf/internal/sheet"
)

func handleSheetCommand(ctx context.Context, args []string) {
	refresh, args := hasFlag(args, "refresh")
	id := requireID(args, "Usage: gameshelf sheet <game_id> [--refresh]")

	database, err := openDB(ctx)
	if err != nil {
		PrintError("Error: failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	g := loadGame(ctx, database, id)

	client, closeCatalog := newCatalog(ctx)
	defer closeCatalog()

	svc := sheet.NewService(database, client, cfg.GetSheetTTL())
	get := svc.Get
	if refresh {
		get = svc.Refresh
	}
	sh, source := get(ctx, g)
	if outputCfg.JSON {
		PrintResult(sh)
		return
	}

	fmt.Printf("%s [%s]\n", sh.Title, sh.Platform)
	fmt.Printf("  Completed: %s, ownership: %s\n", yesNo(sh.Completed), sh.OwnershipType)
	fmt.Printf("  Released:  %s\n", deref(sh.ReleaseDate))
	fmt.Printf("  Publisher: %s\n", deref(sh.Publisher))
	fmt.Printf("  Images:    %d, videos: %d\n", len(sh.Images), len(sh.Videos))
	for _, v := range sh.Videos {
		fmt.Printf("    %s: %s\n", v.Name, v.URL)
	}
	if sh.DescriptionFR != nil {
		fmt.Printf("\n%s\n", *sh.DescriptionFR)
	} else if sh.Description != nil {
		fmt.Printf("\n%s\n", *sh.Description)
	}
	PrintInfo("\n(source: %s, cached for %s)\n", source, svc.TTL())
}

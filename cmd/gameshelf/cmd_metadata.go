package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ryanm101/gameshelf/internal/catalog"
)

func handleMetadataCommand(ctx context.Context, args []string) {
	client, closeCatalog := newCatalog(ctx)
	defer closeCatalog()

	switch args[0] {
	case "search":
		platform, rest := flagValue(args[1:], "platform")
		if len(rest) < 1 {
			fmt.Println("Usage: gameshelf metadata search <query> [--platform P]")
			os.Exit(1)
		}
		results, err := client.Search(ctx, strings.Join(rest, " "), catalog.DefaultPageSize, platform)
		exitOnCatalogError(err)
		printSearchResults(results)
	case "details":
		if len(args) < 2 {
			fmt.Println("Usage: gameshelf metadata details <igdb_id>")
			os.Exit(1)
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id <= 0 {
			PrintError("Error: invalid IGDB id %q\n", args[1])
			os.Exit(1)
		}
		details, err := client.Details(ctx, id, true)
		exitOnCatalogError(err)
		printDetails(details)
	default:
		fmt.Printf("Unknown metadata command: %s\n", args[0])
		os.Exit(1)
	}
}

func printSearchResults(results []catalog.SearchResult) {
	if outputCfg.JSON {
		PrintResult(results)
		return
	}
	if len(results) == 0 {
		PrintInfo("No results.\n")
		return
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{formatID(r.IGDBID), r.Title, deref(r.ReleaseDate), strings.Join(r.Platforms, ", ")})
	}
	PrintTable([]string{"IGDB_ID", "TITLE", "RELEASED", "PLATFORMS"}, rows)
}

func printDetails(d *catalog.Details) {
	if outputCfg.JSON {
		PrintResult(d)
		return
	}
	fmt.Printf("%s (IGDB %d)\n", d.Title, d.IGDBID)
	fmt.Printf("  Released:  %s\n", deref(d.ReleaseDate))
	fmt.Printf("  Publisher: %s\n", deref(d.Publisher))
	fmt.Printf("  Platforms: %s\n", strings.Join(d.Platforms, ", "))
	fmt.Printf("  Genres:    %s\n", strings.Join(d.Genres, ", "))
	fmt.Printf("  Images:    %d, videos: %d\n", len(d.Images), len(d.Videos))
	if d.DescriptionFR != nil {
		fmt.Printf("\n%s\n", *d.DescriptionFR)
	} else if d.Description != nil {
		fmt.Printf("\n%s\n", *d.Description)
	}
}

func exitOnCatalogError(err error) {
	if err == nil {
		return
	}
	PrintError("Error: %v\n", err)
	os.Exit(1)
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ryanm101/gameshelf/internal/db"
	"github.com/ryanm101/gameshelf/internal/lookupcache"
)

type check struct {
	Name   string `json:"name"`
	Status string `json:"status"` // pass, warn, fail
	Detail string `json:"detail,omitempty"`
}

func handleDoctorCommand(ctx context.Context) {
	PrintInfo("Running health checks...\n")

	var checks []check
	database, err := openDB(ctx)
	if err != nil {
		checks = append(checks, check{Name: "database", Status: "fail", Detail: err.Error()})
	} else {
		defer func() { _ = database.Close() }()
		checks = append(checks, databaseChecks(ctx, database)...)
	}

	if cfg.CatalogConfigured() {
		checks = append(checks, check{Name: "igdb_credentials", Status: "pass"})
	} else {
		checks = append(checks, check{Name: "igdb_credentials", Status: "warn", Detail: "IGDB_CLIENT_ID or IGDB_CLIENT_SECRET missing; sheets use local data only"})
	}

	if url := strings.TrimSpace(cfg.Redis.URL); url != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		client, err := lookupcache.DialRedis(pingCtx, url)
		cancel()
		if err != nil {
			checks = append(checks, check{Name: "redis", Status: "warn", Detail: err.Error()})
		} else {
			_ = client.Close()
			checks = append(checks, check{Name: "redis", Status: "pass"})
		}
	}

	issues := 0
	for _, c := range checks {
		if c.Status != "pass" {
			issues++
		}
	}
	status := "healthy"
	if issues > 0 {
		status = "issues_found"
	}

	if outputCfg.JSON {
		PrintResult(map[string]any{"checks": checks, "issues": issues, "status": status})
	} else {
		fmt.Println("Health Check")
		fmt.Println("============")
		fmt.Println()
		for _, c := range checks {
			icon := "✓"
			switch c.Status {
			case "fail":
				icon = "✗"
			case "warn":
				icon = "⚠"
			}
			if c.Detail != "" {
				fmt.Printf("%s %s: %s\n", icon, c.Name, c.Detail)
			} else {
				fmt.Printf("%s %s\n", icon, c.Name)
			}
		}
		fmt.Println()
		fmt.Printf("Status: %s (%d issue(s))\n", status, issues)
	}

	for _, c := range checks {
		if c.Status == "fail" {
			os.Exit(1)
		}
	}
}

func databaseChecks(ctx context.Context, database *db.DB) []check {
	var checks []check

	version, err := database.SchemaVersion(ctx)
	if err != nil {
		checks = append(checks, check{Name: "schema_version", Status: "fail", Detail: err.Error()})
	} else {
		checks = append(checks, check{Name: "schema_version", Status: "pass", Detail: fmt.Sprintf("v%d", version)})
	}

	if database.Driver() != db.DriverPostgres {
		var integrity string
		err := database.Conn().QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&integrity)
		switch {
		case err != nil:
			checks = append(checks, check{Name: "database_integrity", Status: "fail", Detail: err.Error()})
		case integrity != "ok":
			checks = append(checks, check{Name: "database_integrity", Status: "fail", Detail: integrity})
		default:
			checks = append(checks, check{Name: "database_integrity", Status: "pass"})
		}
	}

	orphans, err := database.CountOrphanedSheets(ctx)
	switch {
	case err != nil:
		checks = append(checks, check{Name: "orphaned_sheets", Status: "fail", Detail: err.Error()})
	case orphans > 0:
		checks = append(checks, check{Name: "orphaned_sheets", Status: "warn", Detail: fmt.Sprintf("%d cache rows without a game", orphans)})
	default:
		checks = append(checks, check{Name: "orphaned_sheets", Status: "pass"})
	}

	return checks
}

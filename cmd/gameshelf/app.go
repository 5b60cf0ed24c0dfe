package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/ryanm101/gameshelf/internal/catalog"
	"github.com/ryanm101/gameshelf/internal/db"
	"github.com/ryanm101/gameshelf/internal/logging"
	"github.com/ryanm101/gameshelf/internal/lookupcache"
)

func openDB(ctx context.Context) (*db.DB, error) {
	return db.Open(ctx, cfg.GetDatabaseDriver(), cfg.GetDatabaseURL())
}

// newCatalog builds the catalog client. With a Redis URL configured the
// platform-id and summary lookups are shared through Redis; if Redis is
// unreachable they stay in memory.
func newCatalog(ctx context.Context) (*catalog.IGDBClient, func()) {
	ccfg := catalog.Config{
		ClientID:          cfg.IGDB.ClientID,
		ClientSecret:      cfg.IGDB.ClientSecret,
		RequestsPerSecond: cfg.GetIGDBRate(),
	}
	cleanup := func() {}

	if url := strings.TrimSpace(cfg.Redis.URL); url != "" {
		client, err := lookupcache.DialRedis(ctx, url)
		if err != nil {
			logging.Warn("redis unavailable, using in-memory lookup caches", "error", err)
		} else {
			ccfg.PlatformCache = lookupcache.NewRedis(client, "platform_ids", 0)
			ccfg.SummaryCache = lookupcache.NewRedis(client, "summary", cfg.GetSheetTTL())
			cleanup = func() { _ = client.Close() }
		}
	}

	return catalog.New(ccfg), cleanup
}

// flagValue returns the value of --name V or --name=V, and the args without it.
func flagValue(args []string, name string) (string, []string) {
	var value string
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--"+name && i+1 < len(args):
			value = args[i+1]
			i++
		case strings.HasPrefix(arg, "--"+name+"="):
			value = strings.TrimPrefix(arg, "--"+name+"=")
		default:
			rest = append(rest, arg)
		}
	}
	return value, rest
}

// hasFlag reports whether --name is present, and returns the args without it.
func hasFlag(args []string, name string) (bool, []string) {
	found := false
	rest := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--"+name {
			found = true
			continue
		}
		rest = append(rest, arg)
	}
	return found, rest
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

package catalog

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ryanm101/gameshelf/internal/logging"
	"github.com/ryanm101/gameshelf/internal/match"
	"github.com/ryanm101/gameshelf/internal/tracing"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 50

	minFetchLimit   = 40
	broadFetchLimit = 80
)

// Search runs the fallback ladder: full-text search, then a partial name
// match, then when a platform was given a broad search filtered locally.
func (c *IGDBClient) Search(ctx context.Context, query string, pageSize int, platform string) ([]SearchResult, error) {
	const op = "search games"

	if strings.TrimSpace(query) == "" {
		return nil, &Error{Op: op, Err: ErrEmptyQuery}
	}
	if err := c.checkCredentials(op); err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	ctx, span := tracing.StartSpan(ctx, "catalog.Search")
	defer span.End()
	tracing.AddSpanAttributes(span,
		attribute.String("catalog.query", query),
		attribute.String("catalog.platform", platform),
		attribute.Int("catalog.page_size", pageSize),
	)

	results, err := c.search(ctx, query, pageSize, platform)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, asCatalogError(op, err)
	}
	tracing.AddSpanAttributes(span, attribute.Int("catalog.results", len(results)))
	tracing.SetSpanOK(span)
	return results, nil
}

func (c *IGDBClient) search(ctx context.Context, query string, pageSize int, platform string) ([]SearchResult, error) {
	safe := escapeSearch(query)

	ids, err := c.resolvePlatformIDs(ctx, platform)
	if err != nil {
		return nil, err
	}
	clause := platformClause(ids)
	fetchLimit := max(pageSize*8, minFetchLimit)

	body, err := fullTextQuery(safe, clause, fetchLimit)
	if err != nil {
		return nil, err
	}
	games, err := c.queryGames(ctx, "full_text", body)
	if err != nil {
		return nil, err
	}

	if len(games) == 0 {
		body, err := nameContainsQuery(safe, clause, fetchLimit)
		if err != nil {
			return nil, err
		}
		if games, err = c.queryGames(ctx, "name_contains", body); err != nil {
			return nil, err
		}
	}

	if len(games) == 0 && strings.TrimSpace(platform) != "" {
		body, err := fullTextQuery(safe, "", max(fetchLimit, broadFetchLimit))
		if err != nil {
			return nil, err
		}
		if games, err = c.queryGames(ctx, "broad", body); err != nil {
			return nil, err
		}
		logging.Debug("igdb broad search fallback", "query", query, "platform", platform, "rows", len(games))
	}

	normalized := make([]SearchResult, 0, len(games))
	for _, g := range games {
		normalized = append(normalized, normalizeResult(g))
	}
	return finalize(match.FilterByPlatform(normalized, platform), query, pageSize), nil
}

// finalize drops repeated ids, ranks by title score and caps the page.
// Ties keep their upstream order.
func finalize(results []SearchResult, query string, pageSize int) []SearchResult {
	seen := make(map[int64]struct{}, len(results))
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if _, dup := seen[r.IGDBID]; dup {
			continue
		}
		seen[r.IGDBID] = struct{}{}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return match.ScoreTitle(out[i].Title, query) > match.ScoreTitle(out[j].Title, query)
	})

	if len(out) > pageSize {
		out = out[:pageSize]
	}
	return out
}

// resolvePlatformIDs maps a free-text platform to IGDB platform ids.
// Results, including empty ones, are cached by normalized platform text.
func (c *IGDBClient) resolvePlatformIDs(ctx context.Context, platform string) ([]int, error) {
	normalized := match.NormalizePlatform(platform)
	if normalized == "" {
		return nil, nil
	}

	var ids []int
	hit, err := c.platforms.Get(ctx, normalized, &ids)
	if err != nil {
		logging.Warn("platform id cache read failed", "platform", normalized, "error", err)
	}
	if hit {
		return ids, nil
	}

	terms := match.ExpandPlatformTerms(platform)
	phrase := match.SearchPhrase(terms)
	if phrase == "" {
		phrase = normalized
	}

	rows, err := c.searchPlatforms(ctx, escapeSearch(phrase))
	if err != nil {
		return nil, err
	}

	ids = []int{}
	seen := make(map[int]struct{})
	for _, row := range rows {
		if row == nil || !match.PlatformIDMatches(row.Name, row.AlternativeName, terms) {
			continue
		}
		if _, dup := seen[row.ID]; dup {
			continue
		}
		seen[row.ID] = struct{}{}
		ids = append(ids, row.ID)
	}

	if err := c.platforms.Set(ctx, normalized, ids); err != nil {
		logging.Warn("platform id cache write failed", "platform", normalized, "error", err)
	}
	return ids, nil
}

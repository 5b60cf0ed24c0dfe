package catalog

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ryanm101/gameshelf/internal/tracing"
)

// Details loads a single game by IGDB id. When includeLocalizedSummary is set
// the French Wikipedia introduction is looked up by title; failures there
// leave DescriptionFR nil and never fail the call.
func (c *IGDBClient) Details(ctx context.Context, igdbID int64, includeLocalizedSummary bool) (*Details, error) {
	const op = "game details"

	if err := c.checkCredentials(op); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "catalog.Details")
	defer span.End()
	tracing.AddSpanAttributes(span, attribute.Int64("catalog.igdb_id", igdbID))

	body, err := detailsQuery(igdbID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, asCatalogError(op, err)
	}
	games, err := c.queryGames(ctx, "details", body)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, asCatalogError(op, err)
	}
	if len(games) == 0 {
		err := &Error{Op: op, Err: ErrNotFound}
		tracing.RecordError(span, err)
		return nil, err
	}

	d := normalizeDetails(games[0])
	if includeLocalizedSummary {
		d.DescriptionFR = c.wiki.Summary(ctx, d.Title)
	}

	tracing.SetSpanOK(span)
	return d, nil
}

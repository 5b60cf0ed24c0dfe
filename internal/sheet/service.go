package sheet

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ryanm101/gameshelf/internal/catalog"
	"github.com/ryanm101/gameshelf/internal/db"
	"github.com/ryanm101/gameshelf/internal/logging"
	"github.com/ryanm101/gameshelf/internal/match"
	"github.com/ryanm101/gameshelf/internal/metrics"
	"github.com/ryanm101/gameshelf/internal/tracing"
)

const (
	DefaultTTL = 24 * time.Hour

	matchPageSize = 10
)

// Source says how a sheet was produced.
type Source string

const (
	SourceCache    Source = "cache_hit"
	SourceFetched  Source = "fetched"
	SourceFallback Source = "fallback"
)

// Service serves sheets from the cache, refreshing from the catalog on a miss.
type Service struct {
	db      *db.DB
	catalog catalog.Client
	ttl     time.Duration
	now     func() time.Time
}

// NewService creates a sheet service. A non-positive ttl selects DefaultTTL.
func NewService(database *db.DB, client catalog.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{db: database, catalog: client, ttl: ttl, now: time.Now}
}

// SetClock overrides the time source used for validity and cached_at.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// TTL returns the cache lifetime in use.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// ValidEntry returns the cache row for g when it is fresh and matches g, else nil.
func (s *Service) ValidEntry(ctx context.Context, g *db.Game) (*db.SheetCacheEntry, error) {
	e, err := s.db.GetSheetCache(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	if !IsValid(e, Fingerprint(g), s.now(), s.ttl) {
		return nil, nil
	}
	return e, nil
}

// Get returns the sheet for g. It never fails: any catalog, matching or
// storage problem degrades to the local-only fallback.
func (s *Service) Get(ctx context.Context, g *db.Game) (*Sheet, Source) {
	ctx, span := tracing.StartSpan(ctx, "sheet.Get", tracing.WithAttributes(attribute.Int64("game.id", g.ID)))
	defer span.End()

	sheet, source := s.get(ctx, g)
	tracing.AddSpanAttributes(span, attribute.String("sheet.source", string(source)))
	tracing.SetSpanOK(span)
	metrics.SheetRequests.WithLabelValues(string(source)).Inc()
	return sheet, source
}

// Refresh drops the cached sheet for g before serving it, forcing a catalog fetch.
func (s *Service) Refresh(ctx context.Context, g *db.Game) (*Sheet, Source) {
	if err := s.db.DeleteSheetCache(ctx, g.ID); err != nil {
		logging.Warn("sheet cache delete failed", "game_id", g.ID, "error", err)
	}
	return s.Get(ctx, g)
}

func (s *Service) get(ctx context.Context, g *db.Game) (*Sheet, Source) {
	if s.catalog == nil || !s.catalog.Configured() {
		return Fallback(g), SourceFallback
	}
	log := logging.With("game_id", g.ID)

	entry, err := s.ValidEntry(ctx, g)
	if err != nil {
		log.Warn("sheet cache read failed", "error", err)
	} else if entry != nil {
		return FromCache(g, entry), SourceCache
	}

	results, err := s.catalog.Search(ctx, g.Title, matchPageSize, "")
	if err != nil {
		log.Warn("sheet catalog search failed", "error", err)
		return Fallback(g), SourceFallback
	}
	best, ok := match.BestMatch(results, g.Title, g.Platform)
	if !ok || best.IGDBID == 0 {
		log.Debug("no catalog match for game", "title", g.Title)
		return Fallback(g), SourceFallback
	}

	details, err := s.catalog.Details(ctx, best.IGDBID, true)
	if err != nil {
		log.Warn("sheet catalog details failed", "igdb_id", best.IGDBID, "error", err)
		return Fallback(g), SourceFallback
	}

	entry = entryFromDetails(g.ID, Fingerprint(g), details, s.now())
	if err := s.db.UpsertSheetCache(ctx, entry); err != nil {
		log.Warn("sheet cache write failed", "error", err)
		return Fallback(g), SourceFallback
	}

	log.Debug("sheet refreshed from catalog", "igdb_id", best.IGDBID)
	return FromCache(g, entry), SourceFetched
}

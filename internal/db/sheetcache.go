package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Video is a stored video descriptor.
type Video struct {
	Name      string `json:"name"`
	YouTubeID string `json:"youtube_id"`
	URL       string `json:"url"`
	EmbedURL  string `json:"embed_url"`
}

// SheetCacheEntry is the stored, normalized catalog data for one game.
type SheetCacheEntry struct {
	GameID        int64
	Fingerprint   string
	IGDBID        *int64
	Title         *string
	ReleaseDate   *string
	ReleaseYear   *int
	Publisher     *string
	CoverURL      *string
	Description   *string
	DescriptionFR *string
	Images        []string
	Videos        []Video
	CachedAt      time.Time
}

// GetSheetCache returns the cache row for a game, or nil if there is none.
func (db *DB) GetSheetCache(ctx context.Context, gameID int64) (*SheetCacheEntry, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT game_id, source_fingerprint, igdb_id, title, release_date, release_year, publisher,
			cover_url, description, description_fr, images_json, videos_json, cached_at
		FROM sheet_cache WHERE game_id = $1
	`, gameID)

	var e SheetCacheEntry
	var igdbID sql.NullInt64
	var releaseYear sql.NullInt64
	var title, releaseDate, publisher, coverURL, description, descriptionFR sql.NullString
	var imagesJSON, videosJSON sql.NullString
	var cachedAt int64

	err := row.Scan(&e.GameID, &e.Fingerprint, &igdbID, &title, &releaseDate, &releaseYear, &publisher,
		&coverURL, &description, &descriptionFR, &imagesJSON, &videosJSON, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet cache: %w", err)
	}

	if igdbID.Valid {
		e.IGDBID = &igdbID.Int64
	}
	if releaseYear.Valid {
		y := int(releaseYear.Int64)
		e.ReleaseYear = &y
	}
	e.Title = fromNull(title)
	e.ReleaseDate = fromNull(releaseDate)
	e.Publisher = fromNull(publisher)
	e.CoverURL = fromNull(coverURL)
	e.Description = fromNull(description)
	e.DescriptionFR = fromNull(descriptionFR)
	e.Images = DecodeList[string](imagesJSON.String)
	e.Videos = DecodeList[Video](videosJSON.String)
	e.CachedAt = time.UnixMilli(cachedAt).UTC()

	return &e, nil
}

// UpsertSheetCache creates or overwrites the cache row for e.GameID.
func (db *DB) UpsertSheetCache(ctx context.Context, e *SheetCacheEntry) error {
	var releaseYear any
	if e.ReleaseYear != nil {
		releaseYear = *e.ReleaseYear
	}
	var igdbID any
	if e.IGDBID != nil {
		igdbID = *e.IGDBID
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO sheet_cache (game_id, source_fingerprint, igdb_id, title, release_date, release_year,
			publisher, cover_url, description, description_fr, images_json, videos_json, cached_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT(game_id) DO UPDATE SET
			source_fingerprint = excluded.source_fingerprint,
			igdb_id = excluded.igdb_id,
			title = excluded.title,
			release_date = excluded.release_date,
			release_year = excluded.release_year,
			publisher = excluded.publisher,
			cover_url = excluded.cover_url,
			description = excluded.description,
			description_fr = excluded.description_fr,
			images_json = excluded.images_json,
			videos_json = excluded.videos_json,
			cached_at = excluded.cached_at
	`, e.GameID, e.Fingerprint, igdbID, nullString(e.Title), nullString(e.ReleaseDate), releaseYear,
		nullString(e.Publisher), nullString(e.CoverURL), nullString(e.Description), nullString(e.DescriptionFR),
		EncodeList(e.Images), EncodeList(e.Videos), e.CachedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save sheet cache: %w", err)
	}
	return nil
}

func nullString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// DeleteSheetCache removes the cache row for a game, if any.
func (db *DB) DeleteSheetCache(ctx context.Context, gameID int64) error {
	if _, err := db.conn.ExecContext(ctx, "DELETE FROM sheet_cache WHERE game_id = $1", gameID); err != nil {
		return fmt.Errorf("failed to delete sheet cache: %w", err)
	}
	return nil
}

// CountOrphanedSheets counts cache rows whose game no longer exists.
func (db *DB) CountOrphanedSheets(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sheet_cache sc
		LEFT JOIN games g ON g.id = sc.game_id
		WHERE g.id IS NULL
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count orphaned sheets: %w", err)
	}
	return n, nil
}

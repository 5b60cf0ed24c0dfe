package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetCache_UpsertAndGet(t *testing.T) {
	database := openTestDB(t)
	games := seedGames(t, database)
	ctx := context.Background()

	igdbID := int64(1234)
	year := 1995
	cachedAt := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	entry := &SheetCacheEntry{
		GameID:        games[1].ID,
		Fingerprint:   "abc",
		IGDBID:        &igdbID,
		Title:         strPtr("Chrono Trigger"),
		ReleaseDate:   strPtr("1995-03-11"),
		ReleaseYear:   &year,
		Publisher:     strPtr("Square"),
		DescriptionFR: strPtr("  Un jeu de rôle.  "),
		Images:        []string{"https://a", "https://b"},
		Videos:        []Video{{Name: "Trailer", YouTubeID: "x"}},
		CachedAt:      cachedAt,
	}
	require.NoError(t, database.UpsertSheetCache(ctx, entry))

	got, err := database.GetSheetCache(ctx, games[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.Fingerprint)
	assert.Equal(t, int64(1234), *got.IGDBID)
	assert.Equal(t, 1995, *got.ReleaseYear)
	assert.Equal(t, "Square", *got.Publisher)
	assert.Equal(t, "  Un jeu de rôle.  ", *got.DescriptionFR)
	assert.Nil(t, got.CoverURL)
	assert.Equal(t, entry.Images, got.Images)
	assert.Equal(t, entry.Videos, got.Videos)
	assert.Equal(t, cachedAt, got.CachedAt)

	// Overwrite keeps one row per game.
	entry.Fingerprint = "def"
	entry.Images = nil
	entry.Publisher = nil
	require.NoError(t, database.UpsertSheetCache(ctx, entry))

	got, err = database.GetSheetCache(ctx, games[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "def", got.Fingerprint)
	assert.Equal(t, []string{}, got.Images)
	assert.Nil(t, got.Publisher)

	var rows int
	require.NoError(t, database.Conn().QueryRow("SELECT COUNT(*) FROM sheet_cache").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSheetCache_Missing(t *testing.T) {
	database := openTestDB(t)

	got, err := database.GetSheetCache(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSheetCache_MalformedListsDecodeEmpty(t *testing.T) {
	database := openTestDB(t)
	games := seedGames(t, database)
	ctx := context.Background()

	_, err := database.Conn().Exec(`
		INSERT INTO sheet_cache (game_id, source_fingerprint, images_json, videos_json, cached_at)
		VALUES ($1, 'fp', 'not json', '', 0)
	`, games[0].ID)
	require.NoError(t, err)

	got, err := database.GetSheetCache(ctx, games[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Images)
	assert.Equal(t, []Video{}, got.Videos)
}

func TestSheetCache_RequiresGame(t *testing.T) {
	database := openTestDB(t)

	err := database.UpsertSheetCache(context.Background(), &SheetCacheEntry{GameID: 404, Fingerprint: "fp"})
	assert.Error(t, err)
}

func TestDeleteSheetCache(t *testing.T) {
	database := openTestDB(t)
	games := seedGames(t, database)
	ctx := context.Background()

	require.NoError(t, database.UpsertSheetCache(ctx, &SheetCacheEntry{GameID: games[0].ID, Fingerprint: "fp"}))
	require.NoError(t, database.DeleteSheetCache(ctx, games[0].ID))
	require.NoError(t, database.DeleteSheetCache(ctx, games[0].ID))

	got, err := database.GetSheetCache(ctx, games[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	orphans, err := database.CountOrphanedSheets(ctx)
	require.NoError(t, err)
	assert.Zero(t, orphans)
}

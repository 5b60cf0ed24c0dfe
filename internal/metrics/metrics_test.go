package metrics

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestRecordCatalogRequest(t *testing.T) {
	before := testutil.ToFloat64(CatalogRequests.WithLabelValues("games", "ok"))

	RecordCatalogRequest("games", "ok", time.Now().Add(-50*time.Millisecond))

	after := testutil.ToFloat64(CatalogRequests.WithLabelValues("games", "ok"))
	assert.Equal(t, before+1, after)
}

func TestRecordHTTPRequest(t *testing.T) {
	RecordHTTPRequest("GET", "/api/games", 200, 10*time.Millisecond)
	RecordHTTPRequest("GET", "/api/games", 200, 12*time.Millisecond)

	count := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/games", "200"))
	assert.GreaterOrEqual(t, count, float64(2))
}

func TestRecordLookup(t *testing.T) {
	RecordLookup("summary", true)
	RecordLookup("summary", false)

	assert.GreaterOrEqual(t, testutil.ToFloat64(LookupCacheResults.WithLabelValues("summary", "hit")), float64(1))
	assert.GreaterOrEqual(t, testutil.ToFloat64(LookupCacheResults.WithLabelValues("summary", "miss")), float64(1))
}

func TestSheetRequests_Counter(t *testing.T) {
	SheetRequests.WithLabelValues("fallback").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(SheetRequests.WithLabelValues("fallback")), float64(1))
}

func TestUpdateDBMetrics(t *testing.T) {
	conn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "metrics.db"))
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	_, err = conn.Exec(`
		CREATE TABLE games (id INTEGER PRIMARY KEY, platform TEXT, completed BOOLEAN);
		CREATE TABLE sheet_cache (game_id INTEGER PRIMARY KEY);
		INSERT INTO games (platform, completed) VALUES ('PC', 1), ('PC', 0), ('Switch', 1);
		INSERT INTO sheet_cache (game_id) VALUES (1);
	`)
	require.NoError(t, err)

	require.NoError(t, UpdateDBMetrics(context.Background(), conn))

	assert.Equal(t, float64(3), testutil.ToFloat64(GamesTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(CompletedGamesTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(PlatformsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(SheetCacheEntries))
}

func TestUpdateDBMetrics_MissingTables(t *testing.T) {
	conn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	assert.Error(t, UpdateDBMetrics(context.Background(), conn))
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"   // modernc.org/sqlite, pure Go
	DriverSQLite3  = "sqlite3"  // github.com/mattn/go-sqlite3, cgo
	DriverPostgres = "postgres" // github.com/lib/pq
)

// dialect captures the few DDL differences between the supported stores.
type dialect struct {
	driver   string
	system   string
	idColumn string
}

var dialects = map[string]dialect{
	DriverSQLite:   {driver: "sqlite", system: "sqlite", idColumn: "INTEGER PRIMARY KEY AUTOINCREMENT"},
	DriverSQLite3:  {driver: "sqlite3", system: "sqlite", idColumn: "INTEGER PRIMARY KEY AUTOINCREMENT"},
	DriverPostgres: {driver: "postgres", system: "postgresql", idColumn: "BIGSERIAL PRIMARY KEY"},
}

// DB wraps a SQL connection with game collection functionality.
type DB struct {
	conn    *sql.DB
	dialect dialect
	now     func() time.Time
}

// Open connects to the store, enables foreign keys and runs migrations.
// All statements use $N placeholders, which every supported driver binds.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	d, ok := dialects[strings.ToLower(driver)]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := otelsql.Open(d.driver, dsn,
		otelsql.WithAttributes(semconv.DBSystemKey.String(d.system)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if d.system == "sqlite" {
		// Foreign keys are per connection in SQLite.
		conn.SetMaxOpenConns(1)
		if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := otelsql.RegisterDBStatsMetrics(conn,
		otelsql.WithAttributes(semconv.DBSystemKey.String(d.system)),
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to register db stats: %w", err)
	}

	db := &DB{conn: conn, dialect: d, now: time.Now}
	if err := db.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver returns the driver name the store was opened with.
func (db *DB) Driver() string {
	return db.dialect.driver
}

// SetClock overrides the time source used for created_at.
func (db *DB) SetClock(now func() time.Time) {
	db.now = now
}

// SchemaVersion returns the highest applied migration.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := db.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// migrate runs database migrations up to the current schema version.
func (db *DB) migrate(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	steps := []func(context.Context) error{db.migrateV1, db.migrateV2, db.migrateV3}
	for i, step := range steps {
		if version >= i+1 {
			continue
		}
		if err := step(ctx); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the games table.
func (db *DB) migrateV1(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS games (
			id %s,
			title TEXT NOT NULL,
			platform TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			ownership_type TEXT NOT NULL DEFAULT 'unknown',
			genre TEXT,
			release_date TEXT,
			cover_url TEXT,
			description TEXT,
			created_at BIGINT NOT NULL
		);

		INSERT INTO schema_version (version) VALUES (1);
	`, db.dialect.idColumn)

	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute v1 migration: %w", err)
	}
	return nil
}

// migrateV2 adds the per-game sheet cache.
func (db *DB) migrateV2(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS sheet_cache (
			id %s,
			game_id BIGINT NOT NULL UNIQUE,
			source_fingerprint TEXT NOT NULL,
			igdb_id BIGINT,
			title TEXT,
			release_date TEXT,
			release_year INTEGER,
			publisher TEXT,
			cover_url TEXT,
			description TEXT,
			description_fr TEXT,
			images_json TEXT NOT NULL DEFAULT '[]',
			videos_json TEXT NOT NULL DEFAULT '[]',
			cached_at BIGINT NOT NULL,
			FOREIGN KEY(game_id) REFERENCES games(id) ON DELETE CASCADE
		);

		INSERT INTO schema_version (version) VALUES (2);
	`, db.dialect.idColumn)

	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute v2 migration: %w", err)
	}
	return nil
}

// migrateV3 indexes the list filters and sort column.
func (db *DB) migrateV3(ctx context.Context) error {
	schema := `
		CREATE INDEX IF NOT EXISTS idx_games_platform ON games(platform);
		CREATE INDEX IF NOT EXISTS idx_games_title ON games(title);

		INSERT INTO schema_version (version) VALUES (3);
	`

	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute v3 migration: %w", err)
	}
	return nil
}

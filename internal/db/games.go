package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Ownership types.
const (
	OwnershipPhysical = "physical"
	OwnershipDigital  = "digital"
	OwnershipUnknown  = "unknown"
)

// Game is a locally owned game.
type Game struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Platform      string    `json:"platform"`
	Completed     bool      `json:"completed"`
	OwnershipType string    `json:"ownership_type"`
	Genre         *string   `json:"genre"`
	ReleaseDate   *string   `json:"release_date"`
	CoverURL      *string   `json:"cover_url"`
	Description   *string   `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

// GamePatch lists the columns to change. Nil fields are left untouched; an
// empty string on a nullable column clears it.
type GamePatch struct {
	Title         *string
	Platform      *string
	Completed     *bool
	OwnershipType *string
	Genre         *string
	ReleaseDate   *string
	CoverURL      *string
	Description   *string
}

// Empty reports whether the patch changes nothing.
func (p GamePatch) Empty() bool {
	return p.Title == nil && p.Platform == nil && p.Completed == nil && p.OwnershipType == nil &&
		p.Genre == nil && p.ReleaseDate == nil && p.CoverURL == nil && p.Description == nil
}

// GameFilter narrows ListGames.
type GameFilter struct {
	Platform  string
	Completed *bool
}

const gameColumns = `id, title, platform, completed, ownership_type, genre, release_date, cover_url, description, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*Game, error) {
	var g Game
	var genre, releaseDate, coverURL, description sql.NullString
	var createdAt int64
	if err := row.Scan(&g.ID, &g.Title, &g.Platform, &g.Completed, &g.OwnershipType,
		&genre, &releaseDate, &coverURL, &description, &createdAt); err != nil {
		return nil, err
	}
	g.Genre = fromNull(genre)
	g.ReleaseDate = fromNull(releaseDate)
	g.CoverURL = fromNull(coverURL)
	g.Description = fromNull(description)
	g.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &g, nil
}

func fromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// nullable maps an optional value to a column value; blank strings become NULL.
func nullable(s *string) any {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return strings.TrimSpace(*s)
}

// CreateGame inserts g and fills in its ID and CreatedAt.
func (db *DB) CreateGame(ctx context.Context, g *Game) error {
	g.CreatedAt = db.now().UTC().Truncate(time.Millisecond)

	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO games (title, platform, completed, ownership_type, genre, release_date, cover_url, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, g.Title, g.Platform, g.Completed, g.OwnershipType,
		nullable(g.Genre), nullable(g.ReleaseDate), nullable(g.CoverURL), nullable(g.Description),
		g.CreatedAt.UnixMilli(),
	).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// GetGame loads one game. A missing row returns an error wrapping sql.ErrNoRows.
func (db *DB) GetGame(ctx context.Context, id int64) (*Game, error) {
	g, err := scanGame(db.conn.QueryRowContext(ctx,
		"SELECT "+gameColumns+" FROM games WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	return g, nil
}

// ListGames returns games ordered by title.
func (db *DB) ListGames(ctx context.Context, f GameFilter) ([]Game, error) {
	query := "SELECT " + gameColumns + " FROM games"
	var where []string
	var args []any
	if f.Platform != "" {
		args = append(args, f.Platform)
		where = append(where, fmt.Sprintf("platform = $%d", len(args)))
	}
	if f.Completed != nil {
		args = append(args, *f.Completed)
		where = append(where, fmt.Sprintf("completed = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY title ASC, id ASC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer func() { _ = rows.Close() }()

	games := []Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// ListPlatforms returns the distinct platforms in ascending order.
func (db *DB) ListPlatforms(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT DISTINCT platform FROM games ORDER BY platform ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	platforms := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan platform: %w", err)
		}
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}

// UpdateGame applies p and drops the game's sheet cache row in the same transaction.
func (db *DB) UpdateGame(ctx context.Context, id int64, p GamePatch) (*Game, error) {
	if p.Empty() {
		return db.GetGame(ctx, id)
	}

	var sets []string
	var args []any
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if p.Title != nil {
		set("title", strings.TrimSpace(*p.Title))
	}
	if p.Platform != nil {
		set("platform", strings.TrimSpace(*p.Platform))
	}
	if p.Completed != nil {
		set("completed", *p.Completed)
	}
	if p.OwnershipType != nil {
		set("ownership_type", *p.OwnershipType)
	}
	if p.Genre != nil {
		set("genre", nullable(p.Genre))
	}
	if p.ReleaseDate != nil {
		set("release_date", nullable(p.ReleaseDate))
	}
	if p.CoverURL != nil {
		set("cover_url", nullable(p.CoverURL))
	}
	if p.Description != nil {
		set("description", nullable(p.Description))
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE games SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update game %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("failed to update game %d: %w", id, sql.ErrNoRows)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sheet_cache WHERE game_id = $1", id); err != nil {
		return nil, fmt.Errorf("failed to invalidate sheet cache: %w", err)
	}

	g, err := scanGame(tx.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("failed to reload game %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit game update: %w", err)
	}
	return g, nil
}

// DeleteGame removes a game and its sheet cache row.
func (db *DB) DeleteGame(ctx context.Context, id int64) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sheet_cache WHERE game_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete sheet cache: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM games WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to delete game %d: %w", id, sql.ErrNoRows)
	}
	return tx.Commit()
}

// Package library manages the local game collection.
package library

import (
	"context"
	"strings"

	"github.com/ryanm101/gameshelf/internal/db"
	"github.com/ryanm101/gameshelf/internal/logging"
)

// NewGame is the input for Create.
type NewGame struct {
	Title         string  `json:"title"`
	Platform      string  `json:"platform"`
	Completed     bool    `json:"completed"`
	OwnershipType string  `json:"ownership_type"`
	Genre         *string `json:"genre"`
	ReleaseDate   *string `json:"release_date"`
	CoverURL      *string `json:"cover_url"`
	Description   *string `json:"description"`
}

// GameUpdate is a partial update; absent fields are left unchanged.
type GameUpdate struct {
	Title         *string `json:"title"`
	Platform      *string `json:"platform"`
	Completed     *bool   `json:"completed"`
	OwnershipType *string `json:"ownership_type"`
	Genre         *string `json:"genre"`
	ReleaseDate   *string `json:"release_date"`
	CoverURL      *string `json:"cover_url"`
	Description   *string `json:"description"`
}

// ListFilter narrows List. Completed is honoured only when it is "true" or "false".
type ListFilter struct {
	Platform  string
	Completed string
}

// Service implements collection operations on top of the store.
type Service struct {
	db *db.DB
}

// NewService creates a collection service.
func NewService(database *db.DB) *Service {
	return &Service{db: database}
}

// NormalizeOwnership maps v onto physical, digital or unknown.
func NormalizeOwnership(v string) string {
	switch s := strings.ToLower(strings.TrimSpace(v)); s {
	case db.OwnershipPhysical, db.OwnershipDigital, db.OwnershipUnknown:
		return s
	default:
		return db.OwnershipUnknown
	}
}

// Create validates and stores a new game.
func (s *Service) Create(ctx context.Context, in NewGame) (*db.Game, error) {
	title := strings.TrimSpace(in.Title)
	platform := strings.TrimSpace(in.Platform)
	if title == "" {
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	}
	if platform == "" {
		return nil, &ValidationError{Field: "platform", Message: "platform is required"}
	}

	g := &db.Game{
		Title:         title,
		Platform:      platform,
		Completed:     in.Completed,
		OwnershipType: NormalizeOwnership(in.OwnershipType),
		Genre:         in.Genre,
		ReleaseDate:   in.ReleaseDate,
		CoverURL:      in.CoverURL,
		Description:   in.Description,
	}
	if err := s.db.CreateGame(ctx, g); err != nil {
		return nil, WrapDBError(err, "create game", 0)
	}

	// Reload so blank optional fields read back as null.
	stored, err := s.db.GetGame(ctx, g.ID)
	if err != nil {
		return nil, WrapDBError(err, "create game", g.ID)
	}
	logging.Info("game created", "game_id", stored.ID, "title", stored.Title, "platform", stored.Platform)
	return stored, nil
}

// Get returns one game.
func (s *Service) Get(ctx context.Context, id int64) (*db.Game, error) {
	g, err := s.db.GetGame(ctx, id)
	if err != nil {
		return nil, WrapDBError(err, "get game", id)
	}
	return g, nil
}

// List returns games ordered by title.
func (s *Service) List(ctx context.Context, f ListFilter) ([]db.Game, error) {
	filter := db.GameFilter{Platform: strings.TrimSpace(f.Platform)}
	switch strings.ToLower(strings.TrimSpace(f.Completed)) {
	case "true":
		v := true
		filter.Completed = &v
	case "false":
		v := false
		filter.Completed = &v
	}

	games, err := s.db.ListGames(ctx, filter)
	if err != nil {
		return nil, WrapDBError(err, "list games", 0)
	}
	return games, nil
}

// Platforms returns the distinct platforms in the collection.
func (s *Service) Platforms(ctx context.Context) ([]string, error) {
	platforms, err := s.db.ListPlatforms(ctx)
	if err != nil {
		return nil, WrapDBError(err, "list platforms", 0)
	}
	return platforms, nil
}

// Update applies a partial update. The game's sheet cache is dropped with it.
func (s *Service) Update(ctx context.Context, id int64, u GameUpdate) (*db.Game, error) {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "title cannot be empty"}
	}
	if u.Platform != nil && strings.TrimSpace(*u.Platform) == "" {
		return nil, &ValidationError{Field: "platform", Message: "platform cannot be empty"}
	}

	patch := db.GamePatch{
		Title:       u.Title,
		Platform:    u.Platform,
		Completed:   u.Completed,
		Genre:       u.Genre,
		ReleaseDate: u.ReleaseDate,
		CoverURL:    u.CoverURL,
		Description: u.Description,
	}
	if u.OwnershipType != nil {
		ownership := NormalizeOwnership(*u.OwnershipType)
		patch.OwnershipType = &ownership
	}

	g, err := s.db.UpdateGame(ctx, id, patch)
	if err != nil {
		return nil, WrapDBError(err, "update game", id)
	}
	logging.Debug("game updated", "game_id", id)
	return g, nil
}

// Delete removes a game together with its sheet cache row.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.db.DeleteGame(ctx, id); err != nil {
		return WrapDBError(err, "delete game", id)
	}
	logging.Info("game deleted", "game_id", id)
	return nil
}

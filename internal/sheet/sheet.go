// Package sheet builds the enriched per-game sheet: local fields merged with
// catalog data, cached per game and invalidated by a fingerprint of the
// local record plus a TTL.
package sheet

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/ryanm101/gameshelf/internal/catalog"
	"github.com/ryanm101/gameshelf/internal/db"
)

// Sheet is the payload served for one game.
type Sheet struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Platform      string     `json:"platform"`
	Completed     bool       `json:"completed"`
	OwnershipType string     `json:"ownership_type"`
	ReleaseDate   *string    `json:"release_date"`
	ReleaseYear   *int       `json:"release_year"`
	Publisher     *string    `json:"publisher"`
	CoverURL      *string    `json:"cover_url"`
	DescriptionFR *string    `json:"description_fr"`
	Description   *string    `json:"description"`
	Images        []string   `json:"images"`
	Videos        []db.Video `json:"videos"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func present(s *string) bool {
	return s != nil && *s != ""
}

// Fingerprint hashes the local fields a sheet depends on.
func Fingerprint(g *db.Game) string {
	completed := "0"
	if g.Completed {
		completed = "1"
	}
	raw := strings.Join([]string{
		strconv.FormatInt(g.ID, 10),
		g.Title,
		g.Platform,
		completed,
		g.OwnershipType,
		deref(g.ReleaseDate),
		deref(g.CoverURL),
		deref(g.Description),
		deref(g.Genre),
	}, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// IsValid reports whether a cache row still describes the game.
// A row exactly ttl old is still valid.
func IsValid(e *db.SheetCacheEntry, fingerprint string, now time.Time, ttl time.Duration) bool {
	if e == nil || e.Fingerprint != fingerprint {
		return false
	}
	return !e.CachedAt.Before(now.Add(-ttl))
}

func coverList(g *db.Game) []string {
	if present(g.CoverURL) {
		return []string{*g.CoverURL}
	}
	return []string{}
}

// Fallback builds a sheet from local fields only.
func Fallback(g *db.Game) *Sheet {
	return &Sheet{
		ID:            g.ID,
		Title:         g.Title,
		Platform:      g.Platform,
		Completed:     g.Completed,
		OwnershipType: g.OwnershipType,
		ReleaseDate:   g.ReleaseDate,
		ReleaseYear:   catalog.ReleaseYear(g.ReleaseDate),
		CoverURL:      g.CoverURL,
		Description:   g.Description,
		Images:        coverList(g),
		Videos:        []db.Video{},
	}
}

func firstPresent(cached, local *string) *string {
	if present(cached) {
		return cached
	}
	return local
}

// FromCache merges a cache row over the local record. Platform, completion
// and ownership always come from the local record.
func FromCache(g *db.Game, e *db.SheetCacheEntry) *Sheet {
	s := &Sheet{
		ID:            g.ID,
		Title:         g.Title,
		Platform:      g.Platform,
		Completed:     g.Completed,
		OwnershipType: g.OwnershipType,
		ReleaseDate:   firstPresent(e.ReleaseDate, g.ReleaseDate),
		ReleaseYear:   e.ReleaseYear,
		Publisher:     e.Publisher,
		CoverURL:      firstPresent(e.CoverURL, g.CoverURL),
		DescriptionFR: e.DescriptionFR,
		Description:   firstPresent(e.Description, g.Description),
		Images:        e.Images,
		Videos:        e.Videos,
	}
	if present(e.Title) {
		s.Title = *e.Title
	}
	if s.ReleaseYear == nil || *s.ReleaseYear == 0 {
		s.ReleaseYear = catalog.ReleaseYear(g.ReleaseDate)
	}
	if len(s.Images) == 0 {
		s.Images = coverList(g)
	}
	if s.Videos == nil {
		s.Videos = []db.Video{}
	}
	return s
}

// entryFromDetails converts catalog details into a cache row.
func entryFromDetails(gameID int64, fingerprint string, d *catalog.Details, cachedAt time.Time) *db.SheetCacheEntry {
	igdbID := d.IGDBID
	title := d.Title

	images := d.Images
	if len(images) > 8 {
		images = images[:8]
	}
	videos := make([]db.Video, 0, len(d.Videos))
	for _, v := range d.Videos {
		videos = append(videos, db.Video{
			Name:      v.Name,
			YouTubeID: v.YouTubeID,
			URL:       v.URL,
			EmbedURL:  v.EmbedURL,
		})
	}

	return &db.SheetCacheEntry{
		GameID:        gameID,
		Fingerprint:   fingerprint,
		IGDBID:        &igdbID,
		Title:         &title,
		ReleaseDate:   d.ReleaseDate,
		ReleaseYear:   d.ReleaseYear,
		Publisher:     d.Publisher,
		CoverURL:      d.CoverURL,
		Description:   d.Description,
		DescriptionFR: d.DescriptionFR,
		Images:        images,
		Videos:        videos,
		CachedAt:      cachedAt.UTC().Truncate(time.Millisecond),
	}
}

package sheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ryanm101/gameshelf/internal/db"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func sampleGame() *db.Game {
	return &db.Game{
		ID:            7,
		Title:         "Okami",
		Platform:      "PS2",
		Completed:     true,
		OwnershipType: "physical",
		Genre:         strPtr("Action"),
		ReleaseDate:   strPtr("2006-04-20"),
		CoverURL:      strPtr("https://example.com/okami.jpg"),
		Description:   strPtr("Wolf goddess."),
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	g := sampleGame()
	assert.Equal(t, Fingerprint(g), Fingerprint(sampleGame()))
	assert.Len(t, Fingerprint(g), 40)
}

func TestFingerprint_SensitiveToEachField(t *testing.T) {
	base := Fingerprint(sampleGame())

	mutations := map[string]func(g *db.Game){
		"id":          func(g *db.Game) { g.ID = 8 },
		"title":       func(g *db.Game) { g.Title = "Okami HD" },
		"platform":    func(g *db.Game) { g.Platform = "PS4" },
		"completed":   func(g *db.Game) { g.Completed = false },
		"ownership":   func(g *db.Game) { g.OwnershipType = "digital" },
		"releaseDate": func(g *db.Game) { g.ReleaseDate = nil },
		"cover":       func(g *db.Game) { g.CoverURL = strPtr("https://example.com/other.jpg") },
		"description": func(g *db.Game) { g.Description = strPtr("") },
		"genre":       func(g *db.Game) { g.Genre = strPtr("Adventure") },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			g := sampleGame()
			mutate(g)
			assert.NotEqual(t, base, Fingerprint(g))
		})
	}
}

func TestFingerprint_NilEqualsEmpty(t *testing.T) {
	a := sampleGame()
	a.Genre = nil
	b := sampleGame()
	b.Genre = strPtr("")
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestIsValid(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour
	fp := Fingerprint(sampleGame())

	tests := []struct {
		name     string
		entry    *db.SheetCacheEntry
		expected bool
	}{
		{"missing", nil, false},
		{"fresh", &db.SheetCacheEntry{Fingerprint: fp, CachedAt: now.Add(-100 * time.Second)}, true},
		{"exactly ttl old", &db.SheetCacheEntry{Fingerprint: fp, CachedAt: now.Add(-ttl)}, true},
		{"expired", &db.SheetCacheEntry{Fingerprint: fp, CachedAt: now.Add(-86401 * time.Second)}, false},
		{"fingerprint mismatch", &db.SheetCacheEntry{Fingerprint: "other", CachedAt: now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValid(tt.entry, fp, now, ttl))
		})
	}
}

func TestFallback(t *testing.T) {
	s := Fallback(sampleGame())

	assert.Equal(t, int64(7), s.ID)
	assert.Equal(t, "Okami", s.Title)
	assert.Equal(t, "PS2", s.Platform)
	assert.True(t, s.Completed)
	assert.Equal(t, "physical", s.OwnershipType)
	assert.Equal(t, intPtr(2006), s.ReleaseYear)
	assert.Nil(t, s.Publisher)
	assert.Nil(t, s.DescriptionFR)
	assert.Equal(t, strPtr("Wolf goddess."), s.Description)
	assert.Equal(t, []string{"https://example.com/okami.jpg"}, s.Images)
	assert.Equal(t, []db.Video{}, s.Videos)
}

func TestFallback_NoCoverNoDate(t *testing.T) {
	g := sampleGame()
	g.CoverURL = nil
	g.ReleaseDate = strPtr("soon")

	s := Fallback(g)
	assert.Equal(t, []string{}, s.Images)
	assert.Nil(t, s.ReleaseYear)
}

func TestFromCache_MergesOverLocal(t *testing.T) {
	g := sampleGame()
	e := &db.SheetCacheEntry{
		Title:         strPtr("Ōkami"),
		ReleaseDate:   strPtr("2006-04-20"),
		ReleaseYear:   intPtr(2006),
		Publisher:     strPtr("Capcom"),
		CoverURL:      strPtr(""),
		DescriptionFR: strPtr("Un jeu vidéo."),
		Images:        []string{},
		Videos:        []db.Video{{Name: "Trailer", YouTubeID: "x"}},
	}

	s := FromCache(g, e)
	assert.Equal(t, "Ōkami", s.Title)
	assert.Equal(t, "PS2", s.Platform)
	assert.Equal(t, strPtr("Capcom"), s.Publisher)
	assert.Equal(t, strPtr("https://example.com/okami.jpg"), s.CoverURL)
	assert.Equal(t, strPtr("Wolf goddess."), s.Description)
	assert.Equal(t, strPtr("Un jeu vidéo."), s.DescriptionFR)
	assert.Equal(t, []string{"https://example.com/okami.jpg"}, s.Images)
	assert.Len(t, s.Videos, 1)
}

func TestFromCache_YearFallsBackToLocalDate(t *testing.T) {
	g := sampleGame()
	s := FromCache(g, &db.SheetCacheEntry{})
	assert.Equal(t, intPtr(2006), s.ReleaseYear)
	assert.Equal(t, "Okami", s.Title)
	assert.Equal(t, []db.Video{}, s.Videos)
}

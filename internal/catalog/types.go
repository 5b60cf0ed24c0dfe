// Package catalog talks to the IGDB game catalog and to French Wikipedia for
// localized summaries, and normalizes their payloads.
package catalog

import "context"

// Client is the catalog surface used by the sheet service and the HTTP layer.
type Client interface {
	// Search returns up to pageSize results ranked by title similarity.
	// A non-empty platform narrows results to equivalent platforms.
	Search(ctx context.Context, query string, pageSize int, platform string) ([]SearchResult, error)
	// Details loads one catalog entry. It fails with ErrNotFound when the id is unknown.
	Details(ctx context.Context, igdbID int64, includeLocalizedSummary bool) (*Details, error)
	// Configured reports whether credentials are present.
	Configured() bool
}

// SearchResult is one normalized catalog search hit.
type SearchResult struct {
	IGDBID      int64    `json:"igdb_id"`
	Title       string   `json:"title"`
	ReleaseDate *string  `json:"release_date"`
	CoverURL    *string  `json:"cover_url"`
	Genres      []string `json:"genres"`
	Platforms   []string `json:"platforms"`
}

func (r SearchResult) CandidateTitle() string       { return r.Title }
func (r SearchResult) CandidatePlatforms() []string { return r.Platforms }

// Details is a normalized catalog entry with media and publisher.
type Details struct {
	SearchResult
	ReleaseYear   *int     `json:"release_year"`
	Publisher     *string  `json:"publisher"`
	Description   *string  `json:"description"`
	DescriptionFR *string  `json:"description_fr"`
	Images        []string `json:"images"`
	Videos        []Video  `json:"videos"`
}

// Video is a YouTube video attached to a catalog entry.
type Video struct {
	Name      string `json:"name"`
	YouTubeID string `json:"youtube_id"`
	URL       string `json:"url"`
	EmbedURL  string `json:"embed_url"`
}

// Raw IGDB payloads.
type igdbGame struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	FirstReleaseDate  int64             `json:"first_release_date"`
	Genres            []named           `json:"genres"`
	Platforms         []named           `json:"platforms"`
	Cover             *imageRef         `json:"cover"`
	Artworks          []imageRef        `json:"artworks"`
	Screenshots       []imageRef        `json:"screenshots"`
	Summary           string            `json:"summary"`
	Videos            []igdbVideo       `json:"videos"`
	InvolvedCompanies []involvedCompany `json:"involved_companies"`
}

type named struct {
	Name string `json:"name"`
}

type imageRef struct {
	URL string `json:"url"`
}

type igdbVideo struct {
	Name    string `json:"name"`
	VideoID string `json:"video_id"`
}

type involvedCompany struct {
	Publisher bool   `json:"publisher"`
	Company   *named `json:"company"`
}

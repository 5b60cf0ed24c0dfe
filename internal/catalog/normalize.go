package catalog

import (
	"strconv"
	"strings"
	"time"
)

const (
	coverSize      = "t_cover_big"
	screenshotSize = "t_screenshot_big"
	artworkSize    = "t_720p"
	galleryLimit   = 8
	defaultVideo   = "Vidéo"
)

// normalizeImage swaps the thumbnail size token and makes protocol-relative URLs absolute.
func normalizeImage(url, size string) string {
	if url == "" {
		return ""
	}
	url = strings.ReplaceAll(url, "t_thumb", size)
	if strings.HasPrefix(url, "//") {
		return "https:" + url
	}
	return url
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// formatDate renders a unix timestamp as a UTC calendar date.
func formatDate(unix int64) *string {
	if unix == 0 {
		return nil
	}
	d := time.Unix(unix, 0).UTC().Format("2006-01-02")
	return &d
}

// ReleaseYear parses the year prefix of a YYYY-MM-DD date.
func ReleaseYear(date *string) *int {
	if date == nil || len(*date) < 4 {
		return nil
	}
	y, err := strconv.Atoi((*date)[:4])
	if err != nil {
		return nil
	}
	return &y
}

func names(items []named) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.Name != "" {
			out = append(out, it.Name)
		}
	}
	return out
}

func normalizeResult(g igdbGame) SearchResult {
	r := SearchResult{
		IGDBID:      g.ID,
		Title:       g.Name,
		ReleaseDate: formatDate(g.FirstReleaseDate),
		Genres:      names(g.Genres),
		Platforms:   names(g.Platforms),
	}
	if g.Cover != nil {
		r.CoverURL = optional(normalizeImage(g.Cover.URL, coverSize))
	}
	return r
}

// galleryImages lists screenshots then artworks, deduplicated, capped at eight.
func galleryImages(g igdbGame) []string {
	seen := make(map[string]struct{})
	out := []string{}
	add := func(url string) {
		if url == "" || len(out) >= galleryLimit {
			return
		}
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		out = append(out, url)
	}
	for _, img := range g.Screenshots {
		add(normalizeImage(img.URL, screenshotSize))
	}
	for _, img := range g.Artworks {
		add(normalizeImage(img.URL, artworkSize))
	}
	return out
}

// publisher prefers a company flagged as publisher, then any named company.
func publisher(g igdbGame) *string {
	for _, ic := range g.InvolvedCompanies {
		if ic.Publisher && ic.Company != nil && ic.Company.Name != "" {
			return optional(ic.Company.Name)
		}
	}
	for _, ic := range g.InvolvedCompanies {
		if ic.Company != nil && ic.Company.Name != "" {
			return optional(ic.Company.Name)
		}
	}
	return nil
}

func videos(g igdbGame) []Video {
	out := []Video{}
	for _, v := range g.Videos {
		if v.VideoID == "" {
			continue
		}
		name := v.Name
		if name == "" {
			name = defaultVideo
		}
		out = append(out, Video{
			Name:      name,
			YouTubeID: v.VideoID,
			URL:       "https://www.youtube.com/watch?v=" + v.VideoID,
			EmbedURL:  "https://www.youtube.com/embed/" + v.VideoID,
		})
	}
	return out
}

func normalizeDetails(g igdbGame) *Details {
	base := normalizeResult(g)
	return &Details{
		SearchResult: base,
		ReleaseYear:  ReleaseYear(base.ReleaseDate),
		Publisher:    publisher(g),
		Description:  optional(g.Summary),
		Images:       galleryImages(g),
		Videos:       videos(g),
	}
}

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ryanm101/gameshelf/internal/logging"
	"github.com/ryanm101/gameshelf/internal/lookupcache"
	"github.com/ryanm101/gameshelf/internal/metrics"
)

const (
	summaryTimeout = 2500 * time.Millisecond
	videoGameHint  = "jeu vidéo"
)

// wikipedia fetches French introductions through the MediaWiki API.
type wikipedia struct {
	endpoint string
	http     *http.Client
	cache    lookupcache.Store
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Summary returns the first non-empty introduction for title, or nil.
// Both hits and misses are cached by lowercased title.
func (w *wikipedia) Summary(ctx context.Context, title string) *string {
	key := strings.ToLower(strings.TrimSpace(title))
	if key == "" {
		return nil
	}

	var cached *string
	hit, err := w.cache.Get(ctx, key, &cached)
	if err != nil {
		logging.Warn("summary cache read failed", "title", title, "error", err)
	}
	if hit {
		metrics.SummaryLookups.WithLabelValues("cached").Inc()
		return cached
	}

	summary, err := w.lookup(ctx, strings.TrimSpace(title))
	if err != nil {
		logging.Debug("wikipedia lookup failed", "title", title, "error", err)
		summary = nil
	}

	if summary == nil {
		metrics.SummaryLookups.WithLabelValues("none").Inc()
	} else {
		metrics.SummaryLookups.WithLabelValues("found").Inc()
	}

	if err := w.cache.Set(ctx, key, summary); err != nil {
		logging.Warn("summary cache write failed", "title", title, "error", err)
	}
	return summary
}

func (w *wikipedia) lookup(ctx context.Context, title string) (*string, error) {
	phrasings := []string{
		`intitle:"` + title + `" ` + videoGameHint,
		`"` + title + `" ` + videoGameHint,
		title,
	}

	for _, phrase := range phrasings {
		page, err := w.bestPage(ctx, phrase)
		if err != nil {
			return nil, err
		}
		if page == "" {
			continue
		}
		extract, err := w.extract(ctx, page)
		if err != nil {
			return nil, err
		}
		if extract != "" {
			return &extract, nil
		}
	}
	return nil, nil
}

// bestPage prefers a hit that mentions video games in its title or snippet.
func (w *wikipedia) bestPage(ctx context.Context, phrase string) (string, error) {
	var resp searchResponse
	err := w.get(ctx, url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {phrase},
		"utf8":     {"1"},
		"format":   {"json"},
	}, &resp)
	if err != nil {
		return "", err
	}

	hits := resp.Query.Search
	if len(hits) == 0 {
		return "", nil
	}
	best := hits[0]
	for _, h := range hits {
		if mentionsVideoGame(h.Title) || mentionsVideoGame(stripMarkup(h.Snippet)) {
			best = h
			break
		}
	}
	return strings.TrimSpace(best.Title), nil
}

func mentionsVideoGame(s string) bool {
	return strings.Contains(strings.ToLower(s), videoGameHint)
}

func (w *wikipedia) extract(ctx context.Context, page string) (string, error) {
	var resp extractResponse
	err := w.get(ctx, url.Values{
		"action":      {"query"},
		"prop":        {"extracts"},
		"explaintext": {"1"},
		"exintro":     {"1"},
		"titles":      {page},
		"utf8":        {"1"},
		"format":      {"json"},
	}, &resp)
	if err != nil {
		return "", err
	}

	ids := make([]string, 0, len(resp.Query.Pages))
	for id := range resp.Query.Pages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA != nil || errB != nil {
			return ids[i] < ids[j]
		}
		return a < b
	})

	for _, id := range ids {
		if text := strings.TrimSpace(resp.Query.Pages[id].Extract); text != "" {
			return text, nil
		}
	}
	return "", nil
}

func (w *wikipedia) get(ctx context.Context, params url.Values, dst any) error {
	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// stripMarkup returns the text content of a search snippet.
func stripMarkup(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

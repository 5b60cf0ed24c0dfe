package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Henry-Sarabia/igdb/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/ryanm101/gameshelf/internal/logging"
	"github.com/ryanm101/gameshelf/internal/lookupcache"
	"github.com/ryanm101/gameshelf/internal/metrics"
)

const (
	DefaultTokenURL     = "https://id.twitch.tv/oauth2/token"
	DefaultGamesURL     = "https://api.igdb.com/v4/games"
	DefaultWikipediaURL = "https://fr.wikipedia.org/w/api.php"

	requestTimeout = 10 * time.Second
	userAgent      = "gameshelf/1.0"
)

// Config configures an IGDBClient. Zero values select the public endpoints.
type Config struct {
	ClientID     string
	ClientSecret string

	TokenURL     string
	GamesURL     string
	WikipediaURL string

	// Transport is the base round tripper for every outbound call.
	Transport http.RoundTripper
	// RequestsPerSecond limits IGDB calls; 0 means 4, IGDB's documented limit.
	RequestsPerSecond float64

	PlatformCache lookupcache.Store
	SummaryCache  lookupcache.Store

	Now func() time.Time
}

// IGDBClient implements Client against IGDB v4.
type IGDBClient struct {
	clientID     string
	clientSecret string
	gamesURL     string

	http      *http.Client
	limiter   *rate.Limiter
	tokens    *tokenSource
	platforms lookupcache.Store
	wiki      *wikipedia
}

// New builds a client. It does not contact any service.
func New(cfg Config) *IGDBClient {
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.GamesURL == "" {
		cfg.GamesURL = DefaultGamesURL
	}
	if cfg.WikipediaURL == "" {
		cfg.WikipediaURL = DefaultWikipediaURL
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 4
	}
	if cfg.PlatformCache == nil {
		cfg.PlatformCache = lookupcache.NewMemory("platform_ids")
	}
	if cfg.SummaryCache == nil {
		cfg.SummaryCache = lookupcache.NewMemory("summary")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	clientID := strings.TrimSpace(cfg.ClientID)
	clientSecret := strings.TrimSpace(cfg.ClientSecret)

	httpClient := &http.Client{
		Timeout:   requestTimeout,
		Transport: otelhttp.NewTransport(cfg.Transport),
	}

	return &IGDBClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		gamesURL:     cfg.GamesURL,
		http:         httpClient,
		limiter:      rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		tokens:       newTokenSource(clientID, clientSecret, cfg.TokenURL, httpClient, cfg.Now),
		platforms:    cfg.PlatformCache,
		wiki: &wikipedia{
			endpoint: cfg.WikipediaURL,
			http:     &http.Client{Timeout: summaryTimeout, Transport: otelhttp.NewTransport(cfg.Transport)},
			cache:    cfg.SummaryCache,
		},
	}
}

// Configured reports whether both credentials are set.
func (c *IGDBClient) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

func (c *IGDBClient) checkCredentials(op string) error {
	if !c.Configured() {
		return &Error{Op: op, Err: ErrCredentials}
	}
	return nil
}

// asCatalogError keeps typed errors and wraps anything else as upstream.
func asCatalogError(op string, err error) error {
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return upstream(op, err)
}

// queryGames posts an apicalypse body to the games endpoint.
func (c *IGDBClient) queryGames(ctx context.Context, step, body string) ([]igdbGame, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, upstream("query games", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gamesURL, strings.NewReader(body))
	if err != nil {
		return nil, upstream("query games", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordCatalogRequest("games", "error", start)
		return nil, upstream("query games", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordCatalogRequest("games", "error", start)
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, upstream("query games", fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet))))
	}

	var games []igdbGame
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		metrics.RecordCatalogRequest("games", "error", start)
		return nil, upstream("query games", fmt.Errorf("failed to decode response: %w", err))
	}

	status := "ok"
	if len(games) == 0 {
		status = "empty"
	}
	metrics.RecordCatalogRequest("games", status, start)
	logging.Debug("igdb games query", "step", step, "rows", len(games), "duration", time.Since(start).String())
	return games, nil
}

// searchPlatforms looks up platforms by name through the igdb client library.
func (c *IGDBClient) searchPlatforms(ctx context.Context, term string) ([]*igdb.Platform, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, upstream("search platforms", err)
	}

	start := time.Now()
	api := igdb.NewClient(c.clientID, token, c.http)
	platforms, err := api.Platforms.Search(term,
		igdb.SetFields("id", "name", "alternative_name"),
		igdb.SetLimit(20),
	)
	if errors.Is(err, igdb.ErrNoResults) {
		metrics.RecordCatalogRequest("platforms", "empty", start)
		return nil, nil
	}
	if err != nil {
		metrics.RecordCatalogRequest("platforms", "error", start)
		return nil, upstream("search platforms", err)
	}
	metrics.RecordCatalogRequest("platforms", "ok", start)
	return platforms, nil
}

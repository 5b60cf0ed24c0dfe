package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/ryanm101/gameshelf/internal/logging"
	"github.com/ryanm101/gameshelf/internal/metrics"
)

const (
	tokenSafetyMargin = 60 * time.Second
	minTokenLifetime  = 60 * time.Second
)

// tokenSource caches one app access token for the whole process.
// Concurrent refreshes share a single request.
type tokenSource struct {
	cfg    clientcredentials.Config
	client *http.Client
	now    func() time.Time

	mu         sync.Mutex
	token      string
	validUntil time.Time

	group singleflight.Group
}

func newTokenSource(clientID, clientSecret, tokenURL string, client *http.Client, now func() time.Time) *tokenSource {
	return &tokenSource{
		cfg: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		client: client,
		now:    now,
	}
}

func (ts *tokenSource) cached() (string, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.token != "" && ts.now().Before(ts.validUntil) {
		return ts.token, true
	}
	return "", false
}

// Token returns a bearer token valid for at least the safety margin.
func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	if tok, ok := ts.cached(); ok {
		return tok, nil
	}

	v, err, _ := ts.group.Do("token", func() (any, error) {
		if tok, ok := ts.cached(); ok {
			return tok, nil
		}
		return ts.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (ts *tokenSource) refresh(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, ts.client)

	issuedAt := ts.now()
	tok, err := ts.cfg.Token(ctx)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		if strings.Contains(err.Error(), "missing access_token") {
			return "", &Error{Op: "fetch access token", Err: ErrAuth}
		}
		return "", upstream("fetch access token", err)
	}
	if tok.AccessToken == "" {
		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		return "", &Error{Op: "fetch access token", Err: ErrAuth}
	}

	lifetime := tokenLifetime(tok)

	ts.mu.Lock()
	ts.token = tok.AccessToken
	ts.validUntil = issuedAt.Add(lifetime)
	ts.mu.Unlock()

	metrics.TokenRefreshes.WithLabelValues("ok").Inc()
	logging.Debug("igdb access token refreshed", "valid_for", lifetime.String())
	return tok.AccessToken, nil
}

// tokenLifetime is expires_in minus the safety margin, never below
// minTokenLifetime. The raw field is preferred over Expiry, which oauth2
// anchors on the wall clock rather than the injected one.
func tokenLifetime(tok *oauth2.Token) time.Duration {
	var expiresIn time.Duration
	if secs, ok := expiresInSeconds(tok.Extra("expires_in")); ok {
		expiresIn = time.Duration(secs) * time.Second
	} else if !tok.Expiry.IsZero() {
		expiresIn = time.Until(tok.Expiry)
	}

	lifetime := expiresIn - tokenSafetyMargin
	if lifetime < minTokenLifetime {
		return minTokenLifetime
	}
	return lifetime
}

func expiresInSeconds(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

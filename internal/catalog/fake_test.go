package catalog

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

// rewriteTransport sends every request to the fake server, keeping the path.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.URL.Scheme = rt.target.Scheme
	clone.URL.Host = rt.target.Host
	clone.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(clone)
}

type fakeResponse struct {
	status int
	body   string
}

func ok(body string) fakeResponse { return fakeResponse{status: http.StatusOK, body: body} }

// fakeUpstream stands in for Twitch, IGDB and Wikipedia.
type fakeUpstream struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	token     fakeResponse
	games     []fakeResponse
	platforms []fakeResponse
	wiki      func(q url.Values) fakeResponse

	gameBodies     []string
	platformBodies []string
	wikiQueries    []url.Values
	tokenCalls     int
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{
		t:     t,
		token: ok(`{"access_token":"tok-1","expires_in":3600,"token_type":"bearer"}`),
		wiki:  func(url.Values) fakeResponse { return ok(`{"query":{"search":[]}}`) },
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	var resp fakeResponse
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case strings.HasSuffix(path, "/oauth2/token"):
		f.tokenCalls++
		resp = f.token
	case strings.HasSuffix(path, "/games"):
		body, _ := io.ReadAll(r.Body)
		f.gameBodies = append(f.gameBodies, string(body))
		resp = next(&f.games)
	case strings.HasSuffix(path, "/platforms"):
		body, _ := io.ReadAll(r.Body)
		f.platformBodies = append(f.platformBodies, string(body)+" "+r.URL.RawQuery)
		resp = next(&f.platforms)
	case strings.HasSuffix(path, "/api.php"):
		f.wikiQueries = append(f.wikiQueries, r.URL.Query())
		resp = f.wiki(r.URL.Query())
	default:
		resp = fakeResponse{status: http.StatusNotFound, body: "not found"}
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}

// next pops the next queued response, repeating the last one; an empty queue yields [].
func next(queue *[]fakeResponse) fakeResponse {
	if len(*queue) == 0 {
		return ok(`[]`)
	}
	resp := (*queue)[0]
	if len(*queue) > 1 {
		*queue = (*queue)[1:]
	}
	return resp
}

func (f *fakeUpstream) queueGames(resps ...fakeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games = resps
}

func (f *fakeUpstream) queuePlatforms(resps ...fakeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.platforms = resps
}

func (f *fakeUpstream) setToken(resp fakeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = resp
}

func (f *fakeUpstream) setWiki(h func(q url.Values) fakeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wiki = h
}

func (f *fakeUpstream) counts() (token, games, platforms, wiki int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenCalls, len(f.gameBodies), len(f.platformBodies), len(f.wikiQueries)
}

func (f *fakeUpstream) gameBody(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gameBodies[i]
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (f *fakeUpstream) client(clock *fakeClock) *IGDBClient {
	target, err := url.Parse(f.server.URL)
	if err != nil {
		f.t.Fatal(err)
	}
	cfg := Config{
		ClientID:          "client",
		ClientSecret:      "secret",
		Transport:         rewriteTransport{target: target},
		RequestsPerSecond: 1000,
	}
	if clock != nil {
		cfg.Now = clock.Now
	}
	return New(cfg)
}

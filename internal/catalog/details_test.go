package catalog

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marioDetails = `[{
	"id": 1074,
	"name": "Super Mario 64",
	"first_release_date": 835488000,
	"genres": [{"name": "Platform"}],
	"platforms": [{"name": "Nintendo 64"}],
	"cover": {"url": "//images.igdb.com/igdb/image/upload/t_thumb/co6cl0.jpg"},
	"screenshots": [
		{"url": "//images.igdb.com/igdb/image/upload/t_thumb/sc1.jpg"},
		{"url": "//images.igdb.com/igdb/image/upload/t_thumb/sc1.jpg"},
		{"url": ""}
	],
	"artworks": [{"url": "https://images.igdb.com/igdb/image/upload/t_thumb/ar1.jpg"}],
	"summary": "Mario is invited to the castle.",
	"videos": [
		{"name": "Trailer", "video_id": "abc123"},
		{"video_id": "def456"},
		{"name": "No id"}
	],
	"involved_companies": [
		{"publisher": false, "company": {"name": "Nintendo EAD"}},
		{"publisher": true, "company": {"name": "Nintendo"}}
	]
}]`

func TestDetails_Normalizes(t *testing.T) {
	f := newFakeUpstream(t)
	f.queueGames(ok(marioDetails))
	c := f.client(nil)

	d, err := c.Details(context.Background(), 1074, false)
	require.NoError(t, err)

	assert.Equal(t, int64(1074), d.IGDBID)
	assert.Equal(t, "Super Mario 64", d.Title)
	require.NotNil(t, d.ReleaseDate)
	assert.Equal(t, "1996-06-23", *d.ReleaseDate)
	require.NotNil(t, d.ReleaseYear)
	assert.Equal(t, 1996, *d.ReleaseYear)
	require.NotNil(t, d.CoverURL)
	assert.Equal(t, "https://images.igdb.com/igdb/image/upload/t_cover_big/co6cl0.jpg", *d.CoverURL)
	require.NotNil(t, d.Publisher)
	assert.Equal(t, "Nintendo", *d.Publisher)
	require.NotNil(t, d.Description)
	assert.Equal(t, "Mario is invited to the castle.", *d.Description)
	assert.Nil(t, d.DescriptionFR)

	assert.Equal(t, []string{
		"https://images.igdb.com/igdb/image/upload/t_screenshot_big/sc1.jpg",
		"https://images.igdb.com/igdb/image/upload/t_720p/ar1.jpg",
	}, d.Images)

	require.Len(t, d.Videos, 2)
	assert.Equal(t, Video{
		Name:      "Trailer",
		YouTubeID: "abc123",
		URL:       "https://www.youtube.com/watch?v=abc123",
		EmbedURL:  "https://www.youtube.com/embed/abc123",
	}, d.Videos[0])
	assert.Equal(t, "Vidéo", d.Videos[1].Name)

	assert.Contains(t, f.gameBody(0), "id = 1074")

	_, _, _, wiki := f.counts()
	assert.Zero(t, wiki)
}

func TestDetails_NotFound(t *testing.T) {
	f := newFakeUpstream(t)
	c := f.client(nil)

	_, err := c.Details(context.Background(), 42, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetails_LocalizedSummary(t *testing.T) {
	f := newFakeUpstream(t)
	f.queueGames(ok(marioDetails))
	f.setWiki(func(q url.Values) fakeResponse {
		if q.Get("list") == "search" {
			return ok(`{"query":{"search":[{"title":"Super Mario 64","snippet":"jeu de plates-formes"}]}}`)
		}
		return ok(`{"query":{"pages":{"42":{"extract":"  Super Mario 64 est un jeu vidéo.  "}}}}`)
	})
	c := f.client(nil)

	d, err := c.Details(context.Background(), 1074, true)
	require.NoError(t, err)
	require.NotNil(t, d.DescriptionFR)
	assert.Equal(t, "Super Mario 64 est un jeu vidéo.", *d.DescriptionFR)
}

func TestDetails_SummaryFailureIsNotFatal(t *testing.T) {
	f := newFakeUpstream(t)
	f.queueGames(ok(marioDetails))
	f.setWiki(func(url.Values) fakeResponse { return fakeResponse{status: 500, body: "down"} })
	c := f.client(nil)

	d, err := c.Details(context.Background(), 1074, true)
	require.NoError(t, err)
	assert.Nil(t, d.DescriptionFR)
}

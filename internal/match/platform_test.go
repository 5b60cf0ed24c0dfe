package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type result struct {
	title     string
	platforms []string
}

func (r result) CandidateTitle() string       { return r.title }
func (r result) CandidatePlatforms() []string { return r.platforms }

func TestNormalizePlatform(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Super Nintendo", "supernintendo"},
		{"  PlayStation 5 ", "playstation5"},
		{"Xbox Series X|S", "xboxseriesxs"},
		{"PC (Microsoft Windows)", "pcmicrosoftwindows"},
		{"---", ""},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizePlatform(tc.input))
		})
	}
}

func TestExpandPlatformTerms_EveryAlias(t *testing.T) {
	for _, canonical := range CanonicalPlatforms() {
		aliases := Aliases(canonical)
		for _, alias := range aliases {
			t.Run(alias, func(t *testing.T) {
				terms := ExpandPlatformTerms(alias)
				assert.Contains(t, terms, canonical)
				for _, sibling := range aliases {
					assert.Contains(t, terms, sibling)
				}
			})
		}
	}
}

func TestExpandPlatformTerms(t *testing.T) {
	assert.Nil(t, ExpandPlatformTerms(""))
	assert.Nil(t, ExpandPlatformTerms("  !! "))

	// Unknown platforms expand to themselves only.
	assert.Equal(t, []string{"amiga"}, ExpandPlatformTerms("Amiga"))

	terms := ExpandPlatformTerms("Switch")
	assert.Equal(t, []string{"nintendoswitch", "switch"}, terms)

	// Longest term first.
	snes := ExpandPlatformTerms("SNES")
	assert.Equal(t, "supernintendoentertainmentsystem", SearchPhrase(snes))
}

func TestSearchPhrase_Empty(t *testing.T) {
	assert.Empty(t, SearchPhrase(nil))
}

func TestPlatformIDMatches(t *testing.T) {
	terms := ExpandPlatformTerms("Super Nintendo")

	assert.True(t, PlatformIDMatches("Super Nintendo Entertainment System", "SNES", terms))
	assert.True(t, PlatformIDMatches("Something", "SNES", terms))
	assert.False(t, PlatformIDMatches("Nintendo 64", "N64", terms))
	assert.False(t, PlatformIDMatches("", "", terms))
}

func TestMatchesPlatform(t *testing.T) {
	tests := []struct {
		name      string
		platforms []string
		wanted    string
		expected  bool
	}{
		{"alias to igdb name", []string{"PC (Microsoft Windows)"}, "Windows", true},
		{"canonical shorthand", []string{"PlayStation 2"}, "ps2", true},
		{"substring of longer name", []string{"Xbox Series X|S"}, "Xbox Series X", true},
		{"different console", []string{"Nintendo 64"}, "Super Nintendo", false},
		{"no platforms", nil, "PC", false},
		{"empty wanted matches all", []string{"Amiga"}, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MatchesPlatform(tc.platforms, tc.wanted))
		})
	}
}

func TestFilterByPlatform(t *testing.T) {
	items := []result{
		{"Chrono Trigger", []string{"Super Nintendo Entertainment System", "Nintendo DS"}},
		{"Chrono Cross", []string{"PlayStation"}},
		{"Chrono Trigger (PC)", []string{"PC (Microsoft Windows)"}},
	}

	filtered := FilterByPlatform(items, "Super Nintendo")
	assert.Len(t, filtered, 1)
	assert.Equal(t, "Chrono Trigger", filtered[0].title)

	assert.Equal(t, items, FilterByPlatform(items, ""))
	assert.Empty(t, FilterByPlatform(items, "Wii U"))
}

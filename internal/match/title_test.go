package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "the legend of zelda a link to the past", NormalizeTitle("The Legend of Zelda: A Link to the Past"))
	assert.Equal(t, "pokémon red", NormalizeTitle("  Pokémon Red! "))
	assert.Empty(t, NormalizeTitle(":::"))
}

func TestScoreTitle(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		query     string
		expected  int
	}{
		{"exact", "Chrono Trigger", "chrono trigger", 400},
		{"exact after punctuation", "Half-Life", "HalfLife", 400},
		{"prefix", "Chrono Trigger DS", "Chrono Trigger", 250},
		{"substring", "Super Mario World", "Mario World", 180},
		{"token fallback", "The Legend of Zelda", "zelda legend", 40 - 7/6},
		{"one token", "Final Fantasy VII", "fantasy tactics", 20 - 2/6},
		{"negative penalty", "Metal Gear Solid 3 Snake Eater Subsistence", "xyz", 0 - 39/6},
		{"empty query", "Chrono Trigger", "", 0},
		{"empty candidate", "", "Chrono Trigger", 0},
		{"only punctuation", "!!!", "Chrono", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ScoreTitle(tc.candidate, tc.query))
		})
	}
}

func TestScoreTitle_SelfIsExact(t *testing.T) {
	for _, title := range []string{"Doom", "Final Fantasy VI", "Ōkami", "7th Guest"} {
		assert.Equal(t, 400, ScoreTitle(title, title), title)
	}
}

func TestBestMatch(t *testing.T) {
	results := []result{
		{"Chrono Trigger: Jet Bike Special", []string{"Super Famicom"}},
		{"Chrono Trigger", []string{"Nintendo DS"}},
		{"Chrono Trigger", []string{"Super Nintendo Entertainment System"}},
	}

	t.Run("exact title and platform hint", func(t *testing.T) {
		got, ok := BestMatch(results, "chrono trigger ", "Super Nintendo")
		assert.True(t, ok)
		assert.Equal(t, results[2], got)
	})

	t.Run("exact title without hint takes first exact", func(t *testing.T) {
		got, ok := BestMatch(results, "Chrono Trigger", "")
		assert.True(t, ok)
		assert.Equal(t, results[1], got)
	})

	t.Run("hint not found falls back to pool head", func(t *testing.T) {
		got, ok := BestMatch(results, "Chrono Trigger", "Game Boy")
		assert.True(t, ok)
		assert.Equal(t, results[1], got)
	})

	t.Run("no exact title uses whole list", func(t *testing.T) {
		got, ok := BestMatch(results, "Chrono", "famicom")
		assert.True(t, ok)
		assert.Equal(t, results[0], got)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := BestMatch([]result(nil), "Chrono", "")
		assert.False(t, ok)
	})
}

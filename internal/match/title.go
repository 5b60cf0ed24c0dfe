package match

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Candidate is a catalog result that can be ranked against a local record.
type Candidate interface {
	CandidateTitle() string
	CandidatePlatforms() []string
}

// NormalizeTitle lower-cases s and keeps letters, digits and whitespace.
func NormalizeTitle(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ScoreTitle rates how well a candidate title matches a query. Higher is better;
// the token fallback can go negative for long, loosely related titles.
func ScoreTitle(candidate, query string) int {
	t := NormalizeTitle(candidate)
	q := NormalizeTitle(query)
	if t == "" || q == "" {
		return 0
	}
	switch {
	case t == q:
		return 400
	case strings.HasPrefix(t, q):
		return 250
	case strings.Contains(t, q):
		return 180
	}

	score := 0
	for _, token := range strings.Split(q, " ") {
		if token != "" && strings.Contains(t, token) {
			score += 20
		}
	}
	diff := utf8.RuneCountInString(t) - utf8.RuneCountInString(q)
	if diff < 0 {
		diff = -diff
	}
	return score - diff/6
}

// BestMatch picks one candidate for a local title. Exact title matches are
// preferred; within the pool the first entry on the hinted platform wins,
// otherwise the first entry of the pool.
func BestMatch[T Candidate](results []T, title, platform string) (T, bool) {
	var zero T
	if len(results) == 0 {
		return zero, false
	}

	wantTitle := strings.ToLower(strings.TrimSpace(title))
	var exact []T
	for _, r := range results {
		if strings.ToLower(strings.TrimSpace(r.CandidateTitle())) == wantTitle {
			exact = append(exact, r)
		}
	}
	pool := results
	if len(exact) > 0 {
		pool = exact
	}

	hint := strings.ToLower(strings.TrimSpace(platform))
	if hint != "" {
		for _, c := range pool {
			for _, p := range c.CandidatePlatforms() {
				if strings.Contains(strings.ToLower(p), hint) {
					return c, true
				}
			}
		}
	}

	return pool[0], true
}

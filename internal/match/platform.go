// Package match resolves free-text platforms and titles against catalog results.
package match

import (
	"sort"
	"strings"
	"unicode"
)

// platformAliases maps a canonical platform key to every spelling treated as equivalent.
var platformAliases = map[string][]string{
	"pc":             {"pc", "windows", "microsoftwindows", "computer"},
	"nes":            {"nes", "nintendoentertainmentsystem", "famicom"},
	"snes":           {"snes", "supernintendo", "supernintendoentertainmentsystem"},
	"megadrive":      {"megadrive", "segagenesis", "genesis"},
	"playstation":    {"playstation", "ps1", "psx"},
	"playstation2":   {"playstation2", "ps2"},
	"playstation3":   {"playstation3", "ps3"},
	"playstation4":   {"playstation4", "ps4"},
	"playstation5":   {"playstation5", "ps5"},
	"xbox":           {"xbox", "xboxclassic"},
	"xbox360":        {"xbox360"},
	"xboxone":        {"xboxone"},
	"xboxseriesx":    {"xboxseriesx", "xboxseriess", "xboxseriesxandseriess"},
	"gameboyadvance": {"gameboyadvance", "gba"},
	"nintendods":     {"nintendods", "nds"},
	"nintendoswitch": {"nintendoswitch", "switch"},
	"wiiu":           {"wiiu"},
	"psvita":         {"psvita", "vita"},
}

// CanonicalPlatforms returns the canonical keys of the equivalence table, sorted.
func CanonicalPlatforms() []string {
	keys := make([]string, 0, len(platformAliases))
	for k := range platformAliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Aliases returns the alias set registered for a canonical key.
func Aliases(canonical string) []string {
	return append([]string(nil), platformAliases[canonical]...)
}

// NormalizePlatform lower-cases s and keeps only letters and digits.
func NormalizePlatform(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExpandPlatformTerms returns the normalized platform plus every equivalent spelling.
// The result is sorted longest first, then alphabetically.
func ExpandPlatformTerms(platform string) []string {
	normalized := NormalizePlatform(platform)
	if normalized == "" {
		return nil
	}

	set := map[string]struct{}{normalized: {}}
	for canonical, aliases := range platformAliases {
		if normalized != canonical && !contains(aliases, normalized) {
			continue
		}
		set[canonical] = struct{}{}
		for _, a := range aliases {
			set[a] = struct{}{}
		}
	}

	terms := make([]string, 0, len(set))
	for t := range set {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	return terms
}

// SearchPhrase picks the term sent to the catalog's platform search.
func SearchPhrase(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	return terms[0]
}

// PlatformIDMatches reports whether a catalog platform row, by name or alternative
// name, overlaps with any of the expanded terms.
func PlatformIDMatches(name, alternativeName string, terms []string) bool {
	for _, candidate := range []string{NormalizePlatform(name), NormalizePlatform(alternativeName)} {
		if candidate == "" {
			continue
		}
		if overlapsAny(candidate, terms) {
			return true
		}
	}
	return false
}

// MatchesPlatform reports whether any of the candidate's platform names is
// equivalent to the wanted platform.
func MatchesPlatform(platformNames []string, wanted string) bool {
	wantedTerms := ExpandPlatformTerms(wanted)
	if len(wantedTerms) == 0 {
		return true
	}
	for _, name := range platformNames {
		for _, current := range ExpandPlatformTerms(name) {
			if overlapsAny(current, wantedTerms) {
				return true
			}
		}
	}
	return false
}

// FilterByPlatform keeps candidates whose platform names match wanted.
// An empty or non-alphanumeric wanted platform returns the input unchanged.
func FilterByPlatform[T Candidate](items []T, wanted string) []T {
	if len(ExpandPlatformTerms(wanted)) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if MatchesPlatform(item.CandidatePlatforms(), wanted) {
			out = append(out, item)
		}
	}
	return out
}

func overlapsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) || strings.Contains(t, s) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

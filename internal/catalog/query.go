package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Henry-Sarabia/apicalypse"
)

var searchFields = []string{
	"id",
	"name",
	"first_release_date",
	"genres.name",
	"platforms.name",
	"cover.url",
}

var detailFields = append(append([]string{}, searchFields...),
	"artworks.url",
	"screenshots.url",
	"summary",
	"videos.name",
	"videos.video_id",
	"involved_companies.publisher",
	"involved_companies.company.name",
)

// escapeSearch makes free text safe inside a quoted apicalypse string.
func escapeSearch(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.TrimSpace(s)
}

// platformClause renders an id filter, or "" when there are no ids.
func platformClause(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("platforms = (%s)", strings.Join(parts, ","))
}

// buildQuery assembles an apicalypse body. search must already be escaped.
func buildQuery(fields []string, search, where string, limit int) (string, error) {
	opts := []apicalypse.Option{
		apicalypse.Fields(fields...),
		apicalypse.Limit(limit),
	}
	if search != "" {
		opts = append(opts, apicalypse.Search("", search))
	}
	if where != "" {
		opts = append(opts, apicalypse.Where(where))
	}
	return apicalypse.Query(opts...)
}

func fullTextQuery(search string, platforms string, limit int) (string, error) {
	return buildQuery(searchFields, search, platforms, limit)
}

func nameContainsQuery(search string, platforms string, limit int) (string, error) {
	where := fmt.Sprintf(`name ~ *"%s"*`, search)
	if platforms != "" {
		where += " & " + platforms
	}
	return buildQuery(searchFields, "", where, limit)
}

func detailsQuery(id int64) (string, error) {
	return buildQuery(detailFields, "", fmt.Sprintf("id = %d", id), 1)
}

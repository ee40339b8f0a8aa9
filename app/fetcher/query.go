package fetcher

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// BuildSearchQuery assembles the search engine query for one fetch task.
// Topic and place keys use kebab-case in configuration; they are expanded to
// quoted phrases. The subregion, when present, refines the region.
func BuildSearchQuery(topic, region, subregion string) string {
	place := region
	if subregion != "" {
		place = subregion
	}

	return fmt.Sprintf(`site:linkedin.com/pulse OR site:linkedin.com/posts %q %q`,
		keyToPhrase(topic), titleCaser.String(keyToPhrase(place)))
}

func keyToPhrase(key string) string {
	return strings.TrimSpace(strings.ReplaceAll(key, "-", " "))
}

// humanizeUsername turns a profile username like "jane-doe" into a
// best-effort display name. Trailing id suffixes are left as-is; the name is
// replaced anyway once a detail fetch finds a byline.
func humanizeUsername(username string) string {
	return titleCaser.String(keyToPhrase(username))
}

package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-shiori/go-readability"
)

const maxExcerptLength = 300

var (
	likesPattern    = regexp.MustCompile(`(?i)([\d,]+)\s+(?:reactions?|likes?)`)
	commentsPattern = regexp.MustCompile(`(?i)([\d,]+)\s+comments?`)
)

// FetchDetails loads the content page and extracts best-effort enrichment:
// readable text, excerpt, byline, publish date and engagement counts.
func (s *Scraper) FetchDetails(ctx context.Context, pageURL string) (*Details, error) {
	if s.client == nil {
		return nil, fmt.Errorf("scraping session is not open")
	}

	body, err := s.get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("detail fetch failed: %w", err)
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse content URL: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}

	details := &Details{
		Title:       strings.TrimSpace(article.Title),
		Excerpt:     strings.TrimSpace(article.Excerpt),
		FullText:    strings.TrimSpace(article.TextContent),
		AuthorName:  cleanByline(article.Byline),
		PublishedAt: article.PublishedTime,
	}

	if details.Excerpt == "" && details.FullText != "" {
		details.Excerpt = truncate(details.FullText, maxExcerptLength)
	}

	details.Likes, details.Comments = extractEngagement(string(body))

	return details, nil
}

func cleanByline(byline string) string {
	byline = strings.TrimSpace(byline)
	byline = strings.TrimPrefix(byline, "by ")
	byline = strings.TrimPrefix(byline, "By ")
	return byline
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

// extractEngagement pulls "N reactions" / "N comments" style counts out of
// the raw page. Zero means not found.
func extractEngagement(page string) (likes, comments int) {
	if m := likesPattern.FindStringSubmatch(page); m != nil {
		likes = parseCount(m[1])
	}
	if m := commentsPattern.FindStringSubmatch(page); m != nil {
		comments = parseCount(m[1])
	}
	return likes, comments
}

func parseCount(raw string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return 0
	}
	return n
}

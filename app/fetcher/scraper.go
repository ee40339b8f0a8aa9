package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/lysyi3m/linkedin-comb/app/database"
)

const (
	searchEndpoint      = "https://html.duckduckgo.com/html/"
	maxResultsPerSearch = 10
	maxResponseBytes    = 2 << 20
)

var _ Source = (*Scraper)(nil)

// Scraper implements Source against public search results pages. The
// headless-browser session of earlier iterations is replaced by a plain HTTP
// client with a cookie jar; an optional li_at LinkedIn session cookie is
// installed at Open so detail fetches of linkedin.com pages are authenticated.
type Scraper struct {
	userAgent string
	cookie    string
	timeout   time.Duration
	client    *http.Client
}

func NewScraper(userAgent, cookie string, timeout time.Duration) *Scraper {
	return &Scraper{
		userAgent: userAgent,
		cookie:    cookie,
		timeout:   timeout,
	}
}

// Open acquires the scraping session. It must be called before Search or
// FetchDetails and paired with Close.
func (s *Scraper) Open(ctx context.Context) error {
	if s.client != nil {
		return nil
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}

	if s.cookie != "" {
		linkedinURL, err := url.Parse("https://www.linkedin.com/")
		if err != nil {
			return fmt.Errorf("failed to parse linkedin URL: %w", err)
		}
		jar.SetCookies(linkedinURL, []*http.Cookie{{
			Name:   "li_at",
			Value:  s.cookie,
			Domain: ".linkedin.com",
			Path:   "/",
			Secure: true,
		}})
		slog.Debug("LinkedIn session cookie installed")
	}

	// Request deadlines come from the per-request context in get, so a
	// caller-supplied deadline composes instead of racing a client timeout.
	s.client = &http.Client{
		Jar: jar,
	}

	return nil
}

func (s *Scraper) Close() error {
	if s.client == nil {
		return nil
	}
	s.client.CloseIdleConnections()
	s.client = nil
	return nil
}

// Search fetches search results for the given topic and region and extracts
// candidate LinkedIn article/post links.
func (s *Scraper) Search(ctx context.Context, topic, region, subregion string) ([]SearchResult, error) {
	if s.client == nil {
		return nil, fmt.Errorf("scraping session is not open")
	}

	query := BuildSearchQuery(topic, region, subregion)
	searchURL := searchEndpoint + "?q=" + url.QueryEscape(query)

	body, err := s.get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	results := parseSearchResults(doc)
	slog.Debug("Search completed", "topic", topic, "region", region, "subregion", subregion, "results", len(results))

	return results, nil
}

func (s *Scraper) get(ctx context.Context, rawURL string) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func parseSearchResults(doc *goquery.Document) []SearchResult {
	var results []SearchResult

	doc.Find("div.result").Each(func(_ int, sel *goquery.Selection) {
		if len(results) >= maxResultsPerSearch {
			return
		}

		anchor := sel.Find("a.result__a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}

		contentURL := normalizeContentURL(unwrapRedirect(href))
		contentType, ok := classifyContentURL(contentURL)
		if !ok {
			return
		}

		result := SearchResult{
			URL:         contentURL,
			Title:       strings.TrimSpace(anchor.Text()),
			Excerpt:     strings.TrimSpace(sel.Find(".result__snippet").Text()),
			ContentType: contentType,
		}

		if profileURL, name := authorFromPostURL(contentURL); profileURL != "" {
			result.AuthorProfileURL = profileURL
			result.AuthorName = name
		}

		results = append(results, result)
	})

	return results
}

// unwrapRedirect resolves search engine redirect wrappers
// (duckduckgo uddg links and google /url?q= links) to the target URL.
func unwrapRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}

	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if strings.HasPrefix(parsed.Path, "/url") {
		if target := parsed.Query().Get("q"); target != "" {
			return target
		}
	}

	return href
}

// normalizeContentURL strips query parameters and fragments so the URL can
// serve as the dedup key (LinkedIn appends tracking parameters liberally).
func normalizeContentURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return strings.TrimSuffix(parsed.String(), "/")
}

func classifyContentURL(contentURL string) (contentType database.ContentType, ok bool) {
	switch {
	case strings.Contains(contentURL, "linkedin.com/pulse"):
		return database.ContentTypeArticle, true
	case strings.Contains(contentURL, "linkedin.com/posts"):
		return database.ContentTypePost, true
	default:
		return "", false
	}
}

// authorFromPostURL derives the author's profile URL from a post URL of the
// shape linkedin.com/posts/<username>_<slug>-activity-<id>.
func authorFromPostURL(contentURL string) (profileURL, name string) {
	marker := "linkedin.com/posts/"
	idx := strings.Index(contentURL, marker)
	if idx < 0 {
		return "", ""
	}

	rest := contentURL[idx+len(marker):]
	end := strings.IndexAny(rest, "_/")
	if end <= 0 {
		return "", ""
	}

	username := rest[:end]
	return "https://www.linkedin.com/in/" + username, humanizeUsername(username)
}

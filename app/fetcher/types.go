package fetcher

import (
	"context"
	"time"

	"github.com/lysyi3m/linkedin-comb/app/database"
)

// SearchResult is one candidate content link extracted from a search results
// page. All fields beyond URL are best-effort.
type SearchResult struct {
	URL              string
	Title            string
	Excerpt          string
	AuthorName       string
	AuthorProfileURL string
	ContentType      database.ContentType
}

// Details holds best-effort enrichment extracted from the content page
// itself. Zero values mean "not found".
type Details struct {
	Title       string
	Excerpt     string
	FullText    string
	AuthorName  string
	PublishedAt *time.Time
	Likes       int
	Comments    int
}

// Source is the scraping capability the orchestrator depends on. Search and
// FetchDetails may fail or return partial data; the session acquired by Open
// is exclusively owned by the running fetch cycle and released by Close.
type Source interface {
	Open(ctx context.Context) error
	Close() error
	Search(ctx context.Context, topic, region, subregion string) ([]SearchResult, error)
	FetchDetails(ctx context.Context, url string) (*Details, error)
}

package database

import (
	"time"
)

type ContentType string

const (
	ContentTypeArticle ContentType = "article"
	ContentTypePost    ContentType = "post"
)

type FetchStatus string

const (
	FetchStatusSuccess     FetchStatus = "success"
	FetchStatusError       FetchStatus = "error"
	FetchStatusRateLimited FetchStatus = "rate_limited"
)

type Author struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Headline   string     `json:"headline,omitempty"`
	ProfileURL string     `json:"profile_url"`
	AvatarURL  string     `json:"avatar_url,omitempty"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

type Content struct {
	ID          string      `json:"id"`
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Excerpt     string      `json:"excerpt"`
	FullText    string      `json:"full_text,omitempty"`
	AuthorID    string      `json:"author_id,omitempty"` // empty when author extraction failed
	ContentType ContentType `json:"content_type"`
	PublishedAt time.Time   `json:"published_at"` // best-effort, may equal FetchedAt
	FetchedAt   time.Time   `json:"fetched_at"`
	Likes       int         `json:"likes"`
	Comments    int         `json:"comments"`
}

type ContentTopic struct {
	ContentID string `json:"content_id"`
	Topic     string `json:"topic"`
	Region    string `json:"region"`
	Subregion string `json:"subregion,omitempty"`
}

type ContentWithTopics struct {
	Content
	Topics []ContentTopic `json:"topics"`
	Author *Author        `json:"author,omitempty"`
}

type FetchLogEntry struct {
	ID           int64       `json:"id"`
	Topic        string      `json:"topic"`
	Region       string      `json:"region"`
	FetchedAt    time.Time   `json:"fetched_at"`
	ItemsFound   int         `json:"items_found"`
	Status       FetchStatus `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

// ContentQuery holds optional filter predicates combined with AND semantics.
// Zero values mean "no filter" for the given field.
type ContentQuery struct {
	Topic     string
	Region    string
	Subregion string
	Type      ContentType // empty or "all" matches both types
	AuthorID  string
	Since     *time.Time // minimum published timestamp
	Limit     int
	Offset    int
}

package database

import (
	"time"
)

type AuthorRepository interface {
	UpsertAuthor(author Author) error
	GetAuthorByID(id string) (*Author, error)
	GetAuthorByProfileURL(profileURL string) (*Author, error)
	ListAuthors() ([]Author, error)
}

type ContentRepository interface {
	// UpsertContentWithTopics writes the content row and its topic tags in a
	// single transaction; readers never observe one without the other.
	UpsertContentWithTopics(content Content, topics []ContentTopic) error
	GetContentByID(id string) (*ContentWithTopics, error)
	QueryContent(query ContentQuery) ([]ContentWithTopics, error)
}

type FetchLogRepository interface {
	AppendFetchLog(entry FetchLogEntry) error
	// CountFetchLogSince counts entries with fetched_at >= since, excluding
	// entries carrying excludeStatus. Pass "" to count everything.
	CountFetchLogSince(since time.Time, excludeStatus FetchStatus) (int, error)
	RecentFetchLog(limit int) ([]FetchLogEntry, error)
}

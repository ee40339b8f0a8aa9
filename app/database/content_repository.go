package database

import (
	"database/sql"
	"fmt"
)

type contentRepository struct {
	db *DB
}

func NewContentRepository(db *DB) ContentRepository {
	return &contentRepository{db: db}
}

// UpsertContentWithTopics writes the content row (overwrite semantics keyed
// by the URL-derived id) and its topic tags atomically. Existing tags for
// other topic/region combinations are preserved.
func (r *contentRepository) UpsertContentWithTopics(content Content, topics []ContentTopic) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO content (id, url, title, excerpt, full_text, author_id,
			content_type, published_at, fetched_at, likes, comments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			excerpt = excluded.excerpt,
			full_text = excluded.full_text,
			author_id = excluded.author_id,
			content_type = excluded.content_type,
			published_at = excluded.published_at,
			fetched_at = excluded.fetched_at,
			likes = excluded.likes,
			comments = excluded.comments
	`, content.ID, content.URL, content.Title, content.Excerpt,
		nullString(content.FullText), nullString(content.AuthorID),
		string(content.ContentType), formatTime(content.PublishedAt),
		formatTime(content.FetchedAt), content.Likes, content.Comments)
	if err != nil {
		return fmt.Errorf("failed to upsert content: %w", err)
	}

	for _, topic := range topics {
		_, err = tx.Exec(`
			INSERT OR IGNORE INTO content_topics (content_id, topic, region, subregion)
			VALUES (?, ?, ?, ?)
		`, content.ID, topic.Topic, topic.Region, nullString(topic.Subregion))
		if err != nil {
			return fmt.Errorf("failed to insert content topic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit content upsert: %w", err)
	}

	return nil
}

func (r *contentRepository) GetContentByID(id string) (*ContentWithTopics, error) {
	rows, err := r.queryContentRows(`WHERE c.id = ?`, []any{id}, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *contentRepository) QueryContent(query ContentQuery) ([]ContentWithTopics, error) {
	where := `WHERE 1=1`
	var args []any

	if query.Topic != "" {
		where += ` AND ct.topic = ?`
		args = append(args, query.Topic)
	}
	if query.Region != "" {
		where += ` AND ct.region = ?`
		args = append(args, query.Region)
	}
	if query.Subregion != "" {
		where += ` AND ct.subregion = ?`
		args = append(args, query.Subregion)
	}
	if query.Type != "" && query.Type != "all" {
		where += ` AND c.content_type = ?`
		args = append(args, string(query.Type))
	}
	if query.AuthorID != "" {
		where += ` AND c.author_id = ?`
		args = append(args, query.AuthorID)
	}
	if query.Since != nil {
		where += ` AND c.published_at >= ?`
		args = append(args, formatTime(*query.Since))
	}

	return r.queryContentRows(where, args, `ORDER BY c.published_at DESC`, query.Limit, query.Offset)
}

func (r *contentRepository) queryContentRows(where string, args []any, order string, limit, offset int) ([]ContentWithTopics, error) {
	query := `
		SELECT DISTINCT c.id, c.url, COALESCE(c.title, ''), COALESCE(c.excerpt, ''),
			COALESCE(c.full_text, ''), COALESCE(c.author_id, ''), c.content_type,
			c.published_at, c.fetched_at, c.likes, c.comments,
			a.name, a.headline, a.profile_url, a.avatar_url
		FROM content c
		LEFT JOIN authors a ON c.author_id = a.id
		LEFT JOIN content_topics ct ON c.id = ct.content_id
	` + where

	if order != "" {
		query += ` ` + order
	}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	} else if offset > 0 {
		query += ` LIMIT -1`
	}
	if offset > 0 {
		query += ` OFFSET ?`
		args = append(args, offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer rows.Close()

	var results []ContentWithTopics
	for rows.Next() {
		var c ContentWithTopics
		var contentType string
		var publishedAt, fetchedAt sql.NullString
		var authorName, authorHeadline, authorProfileURL, authorAvatarURL sql.NullString

		err := rows.Scan(&c.ID, &c.URL, &c.Title, &c.Excerpt, &c.FullText,
			&c.AuthorID, &contentType, &publishedAt, &fetchedAt,
			&c.Likes, &c.Comments,
			&authorName, &authorHeadline, &authorProfileURL, &authorAvatarURL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}

		c.ContentType = ContentType(contentType)
		c.PublishedAt = parseNullTime(publishedAt)
		c.FetchedAt = parseNullTime(fetchedAt)

		if c.AuthorID != "" && authorName.Valid {
			c.Author = &Author{
				ID:         c.AuthorID,
				Name:       authorName.String,
				Headline:   authorHeadline.String,
				ProfileURL: authorProfileURL.String,
				AvatarURL:  authorAvatarURL.String,
				FetchedAt:  c.FetchedAt,
			}
		}

		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content rows: %w", err)
	}

	for i := range results {
		topics, err := r.getContentTopics(results[i].ID)
		if err != nil {
			return nil, err
		}
		results[i].Topics = topics
	}

	return results, nil
}

func (r *contentRepository) getContentTopics(contentID string) ([]ContentTopic, error) {
	rows, err := r.db.Query(`
		SELECT content_id, topic, region, COALESCE(subregion, '')
		FROM content_topics
		WHERE content_id = ?
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get content topics: %w", err)
	}
	defer rows.Close()

	var topics []ContentTopic
	for rows.Next() {
		var topic ContentTopic
		if err := rows.Scan(&topic.ContentID, &topic.Topic, &topic.Region, &topic.Subregion); err != nil {
			return nil, fmt.Errorf("failed to scan content topic: %w", err)
		}
		topics = append(topics, topic)
	}

	return topics, rows.Err()
}

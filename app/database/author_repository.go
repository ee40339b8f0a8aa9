package database

import (
	"database/sql"
	"fmt"
)

type authorRepository struct {
	db *DB
}

func NewAuthorRepository(db *DB) AuthorRepository {
	return &authorRepository{db: db}
}

// UpsertAuthor inserts or fully replaces an author record.
func (r *authorRepository) UpsertAuthor(author Author) error {
	_, err := r.db.Exec(`
		INSERT INTO authors (id, name, headline, profile_url, avatar_url, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			headline = excluded.headline,
			profile_url = excluded.profile_url,
			avatar_url = excluded.avatar_url,
			fetched_at = excluded.fetched_at
	`, author.ID, author.Name, nullString(author.Headline), author.ProfileURL,
		nullString(author.AvatarURL), formatTime(author.FetchedAt))

	if err != nil {
		return fmt.Errorf("failed to upsert author: %w", err)
	}

	return nil
}

func (r *authorRepository) GetAuthorByID(id string) (*Author, error) {
	row := r.db.QueryRow(`
		SELECT id, name, COALESCE(headline, ''), profile_url, COALESCE(avatar_url, ''), fetched_at
		FROM authors
		WHERE id = ?
	`, id)

	return scanAuthor(row)
}

func (r *authorRepository) GetAuthorByProfileURL(profileURL string) (*Author, error) {
	row := r.db.QueryRow(`
		SELECT id, name, COALESCE(headline, ''), profile_url, COALESCE(avatar_url, ''), fetched_at
		FROM authors
		WHERE profile_url = ?
	`, profileURL)

	return scanAuthor(row)
}

func (r *authorRepository) ListAuthors() ([]Author, error) {
	rows, err := r.db.Query(`
		SELECT id, name, COALESCE(headline, ''), profile_url, COALESCE(avatar_url, ''), fetched_at
		FROM authors
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	var authors []Author
	for rows.Next() {
		var author Author
		var fetchedAt string
		err := rows.Scan(&author.ID, &author.Name, &author.Headline,
			&author.ProfileURL, &author.AvatarURL, &fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		author.FetchedAt = parseTime(fetchedAt)
		authors = append(authors, author)
	}

	return authors, rows.Err()
}

func scanAuthor(row *sql.Row) (*Author, error) {
	var author Author
	var fetchedAt string

	err := row.Scan(&author.ID, &author.Name, &author.Headline,
		&author.ProfileURL, &author.AvatarURL, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan author: %w", err)
	}

	author.FetchedAt = parseTime(fetchedAt)
	return &author, nil
}

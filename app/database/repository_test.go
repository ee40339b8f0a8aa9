package database

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func testContent(url string) Content {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return Content{
		ID:          ContentID(url),
		URL:         url,
		Title:       "Test Title",
		Excerpt:     "Test excerpt",
		ContentType: ContentTypePost,
		PublishedAt: now,
		FetchedAt:   now,
	}
}

func TestAuthorRepository_UpsertAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuthorRepository(db)

	author := Author{
		ID:         AuthorID("https://www.linkedin.com/in/jane-doe"),
		Name:       "Jane Doe",
		Headline:   "Planner",
		ProfileURL: "https://www.linkedin.com/in/jane-doe",
		FetchedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := repo.UpsertAuthor(author); err != nil {
		t.Fatalf("Failed to upsert author: %v", err)
	}

	got, err := repo.GetAuthorByID(author.ID)
	if err != nil {
		t.Fatalf("Failed to get author by id: %v", err)
	}
	if got == nil {
		t.Fatal("Expected author, got nil")
	}
	if got.Name != "Jane Doe" || got.Headline != "Planner" {
		t.Errorf("Unexpected author fields: %+v", got)
	}

	got, err = repo.GetAuthorByProfileURL(author.ProfileURL)
	if err != nil {
		t.Fatalf("Failed to get author by profile URL: %v", err)
	}
	if got == nil || got.ID != author.ID {
		t.Errorf("Expected author %s by profile URL, got %+v", author.ID, got)
	}
}

func TestAuthorRepository_UpsertReplaces(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuthorRepository(db)

	author := Author{
		ID:         "jane-doe",
		Name:       "Jane Doe",
		ProfileURL: "https://www.linkedin.com/in/jane-doe",
		FetchedAt:  time.Now().UTC(),
	}
	if err := repo.UpsertAuthor(author); err != nil {
		t.Fatalf("Failed to upsert author: %v", err)
	}

	author.Name = "Jane A. Doe"
	if err := repo.UpsertAuthor(author); err != nil {
		t.Fatalf("Failed to re-upsert author: %v", err)
	}

	authors, err := repo.ListAuthors()
	if err != nil {
		t.Fatalf("Failed to list authors: %v", err)
	}
	if len(authors) != 1 {
		t.Fatalf("Expected 1 author after re-upsert, got %d", len(authors))
	}
	if authors[0].Name != "Jane A. Doe" {
		t.Errorf("Expected replaced name, got %s", authors[0].Name)
	}
}

func TestAuthorRepository_GetMissingReturnsNil(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuthorRepository(db)

	got, err := repo.GetAuthorByID("missing")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing author, got %+v", got)
	}
}

func TestContentRepository_UpsertOverwritesNotDuplicates(t *testing.T) {
	db := newTestDB(t)
	repo := NewContentRepository(db)

	url := "https://www.linkedin.com/posts/activity-1"
	content := testContent(url)
	topics := []ContentTopic{{Topic: "rma", Region: "nz"}}

	if err := repo.UpsertContentWithTopics(content, topics); err != nil {
		t.Fatalf("Failed to upsert content: %v", err)
	}

	content.Title = "Updated Title"
	if err := repo.UpsertContentWithTopics(content, topics); err != nil {
		t.Fatalf("Failed to re-upsert content: %v", err)
	}

	results, err := repo.QueryContent(ContentQuery{})
	if err != nil {
		t.Fatalf("Failed to query content: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 content row after re-upsert, got %d", len(results))
	}
	if results[0].Title != "Updated Title" {
		t.Errorf("Expected overwritten title, got %s", results[0].Title)
	}
}

func TestContentRepository_TopicTagsPreservedAcrossUpserts(t *testing.T) {
	db := newTestDB(t)
	repo := NewContentRepository(db)

	content := testContent("https://www.linkedin.com/posts/activity-2")

	if err := repo.UpsertContentWithTopics(content, []ContentTopic{{Topic: "rma", Region: "nz"}}); err != nil {
		t.Fatalf("Failed to upsert content: %v", err)
	}
	if err := repo.UpsertContentWithTopics(content, []ContentTopic{{Topic: "it", Region: "au"}}); err != nil {
		t.Fatalf("Failed to re-upsert content: %v", err)
	}

	got, err := repo.GetContentByID(content.ID)
	if err != nil {
		t.Fatalf("Failed to get content: %v", err)
	}
	if got == nil {
		t.Fatal("Expected content, got nil")
	}
	if len(got.Topics) != 2 {
		t.Errorf("Expected 2 topic tags after tagging from two tasks, got %d: %+v", len(got.Topics), got.Topics)
	}
}

func TestContentRepository_QueryFilters(t *testing.T) {
	db := newTestDB(t)
	contentRepo := NewContentRepository(db)
	authorRepo := NewAuthorRepository(db)

	author := Author{
		ID:         "jane-doe",
		Name:       "Jane Doe",
		ProfileURL: "https://www.linkedin.com/in/jane-doe",
		FetchedAt:  time.Now().UTC(),
	}
	if err := authorRepo.UpsertAuthor(author); err != nil {
		t.Fatalf("Failed to upsert author: %v", err)
	}

	post := testContent("https://www.linkedin.com/posts/activity-3")
	post.AuthorID = author.ID
	post.PublishedAt = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	article := testContent("https://www.linkedin.com/pulse/some-article")
	article.ContentType = ContentTypeArticle
	article.PublishedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if err := contentRepo.UpsertContentWithTopics(post, []ContentTopic{{Topic: "rma", Region: "nz", Subregion: "wellington"}}); err != nil {
		t.Fatalf("Failed to upsert post: %v", err)
	}
	if err := contentRepo.UpsertContentWithTopics(article, []ContentTopic{{Topic: "it", Region: "au"}}); err != nil {
		t.Fatalf("Failed to upsert article: %v", err)
	}

	results, err := contentRepo.QueryContent(ContentQuery{Topic: "rma"})
	if err != nil {
		t.Fatalf("Failed to query by topic: %v", err)
	}
	if len(results) != 1 || results[0].ID != post.ID {
		t.Errorf("Expected only the rma post, got %+v", results)
	}
	if results[0].Author == nil || results[0].Author.Name != "Jane Doe" {
		t.Errorf("Expected joined author on result, got %+v", results[0].Author)
	}

	results, err = contentRepo.QueryContent(ContentQuery{Type: ContentTypeArticle})
	if err != nil {
		t.Fatalf("Failed to query by type: %v", err)
	}
	if len(results) != 1 || results[0].ID != article.ID {
		t.Errorf("Expected only the article, got %d results", len(results))
	}

	results, err = contentRepo.QueryContent(ContentQuery{Region: "nz", Subregion: "wellington"})
	if err != nil {
		t.Fatalf("Failed to query by region/subregion: %v", err)
	}
	if len(results) != 1 || results[0].ID != post.ID {
		t.Errorf("Expected only the wellington post, got %d results", len(results))
	}

	since := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	results, err = contentRepo.QueryContent(ContentQuery{Since: &since})
	if err != nil {
		t.Fatalf("Failed to query by since: %v", err)
	}
	if len(results) != 1 || results[0].ID != post.ID {
		t.Errorf("Expected only content published on/after %v, got %d results", since, len(results))
	}

	// Ordered by published timestamp descending
	results, err = contentRepo.QueryContent(ContentQuery{})
	if err != nil {
		t.Fatalf("Failed to query all: %v", err)
	}
	if len(results) != 2 || results[0].ID != post.ID {
		t.Errorf("Expected newest-first ordering, got %+v", results)
	}
}

func TestContentRepository_Pagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewContentRepository(db)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		c := testContent("https://www.linkedin.com/posts/activity-page-" + string(rune('a'+i)))
		c.PublishedAt = base.Add(time.Duration(i) * time.Hour)
		if err := repo.UpsertContentWithTopics(c, []ContentTopic{{Topic: "rma", Region: "nz"}}); err != nil {
			t.Fatalf("Failed to upsert content %d: %v", i, err)
		}
	}

	page, err := repo.QueryContent(ContentQuery{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("Failed to query page: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("Expected 2 results with limit 2, got %d", len(page))
	}
	// Newest first: offsets 2 and 3 of 5 correspond to hours 2 and 1
	if !page[0].PublishedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("Unexpected first result on page: %v", page[0].PublishedAt)
	}
}

func TestFetchLogRepository_AppendAndCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewFetchLogRepository(db)

	today := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	yesterday := today.Add(-24 * time.Hour)

	entries := []FetchLogEntry{
		{Topic: "rma", Region: "nz", FetchedAt: today, ItemsFound: 3, Status: FetchStatusSuccess},
		{Topic: "rma", Region: "nz", FetchedAt: today, ItemsFound: 0, Status: FetchStatusError, ErrorMessage: "timeout"},
		{Topic: "it", Region: "au", FetchedAt: today, ItemsFound: 0, Status: FetchStatusRateLimited},
		{Topic: "it", Region: "au", FetchedAt: yesterday, ItemsFound: 5, Status: FetchStatusSuccess},
	}
	for _, entry := range entries {
		if err := repo.AppendFetchLog(entry); err != nil {
			t.Fatalf("Failed to append fetch log entry: %v", err)
		}
	}

	startOfDay := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	count, err := repo.CountFetchLogSince(startOfDay, FetchStatusRateLimited)
	if err != nil {
		t.Fatalf("Failed to count fetch log entries: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 counted entries (success + error, rate_limited excluded, yesterday excluded), got %d", count)
	}

	count, err = repo.CountFetchLogSince(startOfDay, "")
	if err != nil {
		t.Fatalf("Failed to count all fetch log entries: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 entries today with no status exclusion, got %d", count)
	}
}

func TestFetchLogRepository_Recent(t *testing.T) {
	db := newTestDB(t)
	repo := NewFetchLogRepository(db)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := FetchLogEntry{
			Topic:     "rma",
			Region:    "nz",
			FetchedAt: base.Add(time.Duration(i) * time.Minute),
			Status:    FetchStatusSuccess,
		}
		if err := repo.AppendFetchLog(entry); err != nil {
			t.Fatalf("Failed to append fetch log entry: %v", err)
		}
	}

	recent, err := repo.RecentFetchLog(2)
	if err != nil {
		t.Fatalf("Failed to get recent fetch log: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 recent entries, got %d", len(recent))
	}
	if !recent[0].FetchedAt.After(recent[1].FetchedAt) {
		t.Errorf("Expected newest-first ordering, got %v then %v", recent[0].FetchedAt, recent[1].FetchedAt)
	}
}

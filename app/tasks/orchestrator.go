package tasks

import (
	"context"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/lysyi3m/linkedin-comb/app/database"
	"github.com/lysyi3m/linkedin-comb/app/fetcher"
	"github.com/lysyi3m/linkedin-comb/app/quota"
	"github.com/lysyi3m/linkedin-comb/app/topics"
)

// Orchestrator runs fetch cycles: it expands the topic configuration into a
// shuffled task list and executes tasks sequentially under the daily quota.
// At most one cycle runs at any instant; concurrent triggers are discarded.
type Orchestrator struct {
	source       fetcher.Source
	authorRepo   database.AuthorRepository
	contentRepo  database.ContentRepository
	tracker      *quota.Tracker
	topicsLoader *topics.Loader
	delay        time.Duration
	running      atomic.Bool
}

func NewOrchestrator(source fetcher.Source, authorRepo database.AuthorRepository,
	contentRepo database.ContentRepository, tracker *quota.Tracker,
	topicsLoader *topics.Loader, delay time.Duration) *Orchestrator {
	return &Orchestrator{
		source:       source,
		authorRepo:   authorRepo,
		contentRepo:  contentRepo,
		tracker:      tracker,
		topicsLoader: topicsLoader,
		delay:        delay,
	}
}

// Trigger starts a fetch cycle in the background and returns immediately.
// Returns false when a cycle is already in progress; the trigger is then
// discarded, not queued.
func (o *Orchestrator) Trigger() bool {
	if !o.running.CompareAndSwap(false, true) {
		slog.Info("Fetch cycle already running, skipping trigger")
		return false
	}

	go o.runCycle(context.Background())
	return true
}

// Run executes a fetch cycle synchronously with the same single-flight
// semantics as Trigger. Returns false when a cycle was already in progress.
func (o *Orchestrator) Run(ctx context.Context) bool {
	if !o.running.CompareAndSwap(false, true) {
		slog.Info("Fetch cycle already running, skipping trigger")
		return false
	}

	o.runCycle(ctx)
	return true
}

func (o *Orchestrator) IsRunning() bool {
	return o.running.Load()
}

func (o *Orchestrator) runCycle(ctx context.Context) {
	defer o.running.Store(false)

	slog.Info("Starting fetch cycle")

	// Session acquisition is not a fetch attempt; failure aborts the cycle
	// without an audit entry.
	if err := o.source.Open(ctx); err != nil {
		slog.Error("Failed to open scraping session, aborting cycle", "error", err)
		return
	}
	defer func() {
		if err := o.source.Close(); err != nil {
			slog.Warn("Failed to close scraping session", "error", err)
		}
		if remaining, err := o.tracker.Remaining(); err == nil {
			slog.Info("Fetch cycle complete", "remaining_requests_today", remaining)
		}
	}()

	config, err := o.topicsLoader.Load()
	if err != nil {
		slog.Error("Failed to load topics configuration, aborting cycle", "error", err)
		return
	}

	fetchTasks := ExpandTasks(config)
	ShuffleTasks(fetchTasks)
	slog.Info("Fetch tasks expanded", "count", len(fetchTasks))

	for i, task := range fetchTasks {
		ok, err := o.tracker.CanProceed()
		if err != nil {
			slog.Error("Failed to check request budget, aborting cycle", "error", err)
			return
		}
		if !ok {
			slog.Info("Daily request budget exhausted, stopping fetch cycle",
				"completed", i, "skipped", len(fetchTasks)-i)
			return
		}

		o.runTask(ctx, task)

		if i < len(fetchTasks)-1 {
			if !o.delayBetweenTasks(ctx) {
				return
			}
		}
	}
}

// runTask executes one search task. Failures are isolated: an error is
// logged to the audit trail and the cycle moves on to the next task.
func (o *Orchestrator) runTask(ctx context.Context, task FetchTask) {
	slog.Info("Fetching", "topic", task.Topic, "region", task.Region, "subregion", task.Subregion)

	results, err := o.source.Search(ctx, task.Topic, task.RegionName, task.Subregion)
	if err != nil {
		slog.Error("Search failed", "topic", task.Topic, "region", task.Region, "error", err)
		if recordErr := o.tracker.Record(task.Topic, task.Region, 0, database.FetchStatusError, err.Error()); recordErr != nil {
			slog.Error("Failed to record fetch attempt", "error", recordErr)
		}
		return
	}

	for _, result := range results {
		o.processResult(ctx, result, task)
	}

	// The audit count reflects raw candidates found; individual persistence
	// failures are reported via the log only.
	if err := o.tracker.Record(task.Topic, task.Region, len(results), database.FetchStatusSuccess, ""); err != nil {
		slog.Error("Failed to record fetch attempt", "error", err)
	}

	slog.Info("Task completed", "topic", task.Topic, "region", task.Region, "found", len(results))
}

func (o *Orchestrator) processResult(ctx context.Context, result fetcher.SearchResult, task FetchTask) {
	now := time.Now().UTC()

	content := database.Content{
		ID:          database.ContentID(result.URL),
		URL:         result.URL,
		Title:       result.Title,
		Excerpt:     result.Excerpt,
		ContentType: result.ContentType,
		PublishedAt: now, // best-effort: replaced below when the page carries a publish date
		FetchedAt:   now,
	}

	authorName := result.AuthorName

	details, err := o.source.FetchDetails(ctx, result.URL)
	if err != nil {
		slog.Debug("Detail fetch failed, keeping partial data", "url", result.URL, "error", err)
	}
	if details != nil {
		if details.Title != "" {
			content.Title = details.Title
		}
		if details.Excerpt != "" {
			content.Excerpt = details.Excerpt
		}
		if details.AuthorName != "" {
			authorName = details.AuthorName
		}
		if details.PublishedAt != nil {
			content.PublishedAt = details.PublishedAt.UTC()
		}
		content.FullText = details.FullText
		content.Likes = details.Likes
		content.Comments = details.Comments
	}

	content.AuthorID = o.resolveAuthor(result.AuthorProfileURL, authorName, now)

	contentTopics := []database.ContentTopic{{
		ContentID: content.ID,
		Topic:     task.Topic,
		Region:    task.Region,
		Subregion: task.Subregion,
	}}

	if err := o.contentRepo.UpsertContentWithTopics(content, contentTopics); err != nil {
		slog.Error("Failed to store content", "url", result.URL, "error", err)
	}
}

// resolveAuthor upserts the author on first encounter and returns the author
// id, or "" when no author can be resolved. Author detail is sticky to the
// first observation: repeat sightings leave the existing record untouched.
func (o *Orchestrator) resolveAuthor(profileURL, name string, now time.Time) string {
	if profileURL == "" {
		return ""
	}

	existing, err := o.authorRepo.GetAuthorByProfileURL(profileURL)
	if err != nil {
		slog.Warn("Failed to look up author", "profile_url", profileURL, "error", err)
		return ""
	}
	if existing != nil {
		return existing.ID
	}

	if name == "" {
		name = "Unknown"
	}

	author := database.Author{
		ID:         database.AuthorID(profileURL),
		Name:       name,
		ProfileURL: profileURL,
		FetchedAt:  now,
	}
	if err := o.authorRepo.UpsertAuthor(author); err != nil {
		slog.Warn("Failed to store author", "profile_url", profileURL, "error", err)
		return ""
	}

	return author.ID
}

// delayBetweenTasks sleeps for the base delay plus random jitter of up to
// the same amount, avoiding a fixed, fingerprintable request cadence.
// Returns false when the context is cancelled during the delay.
func (o *Orchestrator) delayBetweenTasks(ctx context.Context) bool {
	if o.delay <= 0 {
		return true
	}

	delay := o.delay + time.Duration(rand.Int63n(int64(o.delay)))

	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		slog.Info("Fetch cycle interrupted during inter-task delay")
		return false
	}
}

package api

import (
	"github.com/lysyi3m/linkedin-comb/app/database"
	"github.com/lysyi3m/linkedin-comb/app/tasks"
	"github.com/lysyi3m/linkedin-comb/app/topics"
)

// FetchTriggerInterface is the slice of the orchestrator the API needs:
// fire-and-forget trigger plus the in-progress flag for status reporting.
type FetchTriggerInterface interface {
	Trigger() bool
	IsRunning() bool
}

var _ FetchTriggerInterface = (*tasks.Orchestrator)(nil)

// QuotaInterface reports the remaining daily fetch budget.
type QuotaInterface interface {
	Remaining() (int, error)
}

type Handler struct {
	authorRepo   database.AuthorRepository
	contentRepo  database.ContentRepository
	fetchLogRepo database.FetchLogRepository
	quota        QuotaInterface
	trigger      FetchTriggerInterface
	topicsLoader *topics.Loader
}

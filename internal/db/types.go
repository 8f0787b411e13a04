package db

import (
	"time"

	"github.com/google/uuid"
)

// Run status values recorded in brief_runs.status
const (
	StatusRunning        = "running"
	StatusDelivered      = "delivered"
	StatusDegraded       = "degraded"
	StatusNoRecords      = "no_records"
	StatusDeliveryFailed = "delivery_failed"
	StatusFailed         = "failed"
)

// Artifact kinds stored per run
const (
	ArtifactPrompt    = "prompt"
	ArtifactSynthesis = "synthesis"
	ArtifactHTML      = "html"
	ArtifactText      = "text"
)

// BriefRun represents one pipeline run record
type BriefRun struct {
	ID          uuid.UUID  `json:"id"`
	Variant     string     `json:"variant"`
	Status      string     `json:"status"`
	Collected   int        `json:"collected"`
	Selected    int        `json:"selected"`
	Degraded    bool       `json:"degraded"`
	Error       *string    `json:"error,omitempty"`
	ArchiveURI  *string    `json:"archive_uri,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Duration returns how long the run took, or zero while it is still running.
func (r BriefRun) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.CreatedAt)
}

// RunOutcome is what a finished run writes back to its record
type RunOutcome struct {
	Status     string
	Collected  int
	Selected   int
	Degraded   bool
	Error      string
	ArchiveURI string
}

// BriefArtifact is a stored text artifact of a run
type BriefArtifact struct {
	ID        uuid.UUID `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// RunFilters holds optional filters for listing runs
type RunFilters struct {
	Variant string
	Status  string
	Limit   int
}

// DefaultListLimit caps ListBriefRuns when no limit is given
const DefaultListLimit = 50

package runstore

import (
	"time"

	"github.com/google/uuid"

	"indexdeploy/core"
)

// Status is the lifecycle state of a deployment run.
type Status string

const (
	StatusRunning    Status = "running"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusRolledBack Status = "rolled_back"
)

// RunRecord is the persistent record of one deployment run.
type RunRecord struct {
	ID         string
	Status     Status
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      core.RunStats
	Tag        string
	Error      string

	// Commits holds the SHAs of every index commit this run landed, in
	// commit order. Rollback replays them in reverse.
	Commits []string
}

// NewRunRecord creates a running record with a fresh identifier.
func NewRunRecord() *RunRecord {
	return &RunRecord{
		ID:        uuid.NewString(),
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
}

// LogEntry is one line of a run's log stream.
type LogEntry struct {
	At      time.Time
	Level   string
	Step    string
	Message string
}

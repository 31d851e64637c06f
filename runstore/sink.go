package runstore

import (
	"log/slog"
	"time"

	"indexdeploy/core"
	"indexdeploy/progress"
)

// Sink adapts a run's store entry to the progress.Sink interface. Log
// lines become log stream entries; stat updates land on the run record
// itself.
type Sink struct {
	store  *Store
	record *RunRecord
	logger *slog.Logger
}

var _ progress.Sink = (*Sink)(nil)

// NewSink creates a sink writing into record's log stream.
func NewSink(store *Store, record *RunRecord) *Sink {
	return &Sink{
		store:  store,
		record: record,
		logger: slog.Default().With("component", "runstore-sink"),
	}
}

func (s *Sink) append(level, step, message string) {
	entry := &LogEntry{
		At:      time.Now(),
		Level:   level,
		Step:    step,
		Message: message,
	}
	if err := s.store.AppendLog(s.record.ID, entry); err != nil {
		// The run must not die because history could not be written.
		s.logger.Warn("failed to append run log", "run", s.record.ID, "err", err)
	}
}

func (s *Sink) LogInfo(step, message string, percent int) {
	s.append("info", step, message)
}

func (s *Sink) LogWarning(step, message string, percent int) {
	s.append("warning", step, message)
}

func (s *Sink) LogError(step, message string, percent int) {
	s.append("error", step, message)
}

func (s *Sink) UpdateStep(step string, stepIndex, stepPercent, remainingSeconds int) {
	s.append("info", step, "step started")
}

func (s *Sink) UpdateStats(stats core.RunStats) {
	s.record.Stats = stats
	if err := s.store.Put(s.record); err != nil {
		s.logger.Warn("failed to persist run stats", "run", s.record.ID, "err", err)
	}
}

package progress

import (
	"log/slog"

	"indexdeploy/core"
)

// LogSink writes progress reports to a slog.Logger.
type LogSink struct {
	logger *slog.Logger
}

var _ Sink = (*LogSink)(nil)

// NewLogSink creates a sink over the given logger.
// A nil logger falls back to slog.Default.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With("component", "progress")}
}

func (s *LogSink) LogInfo(step, message string, percent int) {
	s.logger.Info(message, "step", step, "percent", percent)
}

func (s *LogSink) LogWarning(step, message string, percent int) {
	s.logger.Warn(message, "step", step, "percent", percent)
}

func (s *LogSink) LogError(step, message string, percent int) {
	s.logger.Error(message, "step", step, "percent", percent)
}

func (s *LogSink) UpdateStep(step string, stepIndex, stepPercent, remainingSeconds int) {
	s.logger.Info("step progress",
		"step", step,
		"index", stepIndex,
		"stepPercent", stepPercent,
		"remainingSeconds", remainingSeconds)
}

func (s *LogSink) UpdateStats(stats core.RunStats) {
	s.logger.Info("run stats",
		"records", stats.RecordCount,
		"created", stats.CreatedCount,
		"deleted", stats.DeletedCount)
}

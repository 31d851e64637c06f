package progress

import "indexdeploy/core"

// Sink receives progress reports from the pipeline. The pipeline depends
// only on this interface; concrete sinks are owned by the caller.
// Implementations must be safe for concurrent use: the enrichment stages
// report from multiple workers.
type Sink interface {
	// LogInfo records an informational message for the named step at the
	// given overall percentage.
	LogInfo(step, message string, percent int)

	// LogWarning records a warning that does not interrupt the run.
	LogWarning(step, message string, percent int)

	// LogError records the failure that is about to abort the run.
	LogError(step, message string, percent int)

	// UpdateStep reports the current step index, its internal completion
	// percentage, and the estimated remaining time in seconds.
	UpdateStep(step string, stepIndex, stepPercent, remainingSeconds int)

	// UpdateStats reports the run's record counters as they become known.
	UpdateStats(stats core.RunStats)
}

// Nop is a Sink that discards everything. Useful as a default and in tests.
type Nop struct{}

var _ Sink = Nop{}

func (Nop) LogInfo(string, string, int)     {}
func (Nop) LogWarning(string, string, int)  {}
func (Nop) LogError(string, string, int)    {}
func (Nop) UpdateStep(string, int, int, int) {}
func (Nop) UpdateStats(core.RunStats)       {}

// Multi fans every report out to each sink in order.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) LogInfo(step, message string, percent int) {
	for _, s := range m {
		s.LogInfo(step, message, percent)
	}
}

func (m multiSink) LogWarning(step, message string, percent int) {
	for _, s := range m {
		s.LogWarning(step, message, percent)
	}
}

func (m multiSink) LogError(step, message string, percent int) {
	for _, s := range m {
		s.LogError(step, message, percent)
	}
}

func (m multiSink) UpdateStep(step string, stepIndex, stepPercent, remainingSeconds int) {
	for _, s := range m {
		s.UpdateStep(step, stepIndex, stepPercent, remainingSeconds)
	}
}

func (m multiSink) UpdateStats(stats core.RunStats) {
	for _, s := range m {
		s.UpdateStats(stats)
	}
}

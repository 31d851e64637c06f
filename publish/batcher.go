package publish

import (
	"context"
	"fmt"
	"log/slog"

	"indexdeploy/core"
	"indexdeploy/progress"
)

// Committer is the slice of the GitLab client the batcher needs.
type Committer interface {
	Commit(ctx context.Context, branch, message string, actions []core.CommitAction) (string, error)
	Revert(ctx context.Context, branch, sha string) (string, error)
}

// RollbackLedger records commit SHAs in the order they landed.
type RollbackLedger []string

// Batcher publishes action batches as sequential commits.
type Batcher struct {
	committer Committer
	branch    string
	message   string
	batchSize int
	sink      progress.Sink
	logger    *slog.Logger
}

// NewBatcher creates a batcher committing to branch with the given commit
// message. batchSize below 1 is clamped to 1.
func NewBatcher(committer Committer, branch, message string, batchSize int, sink progress.Sink) *Batcher {
	if batchSize < 1 {
		batchSize = 1
	}
	if sink == nil {
		sink = progress.Nop{}
	}
	return &Batcher{
		committer: committer,
		branch:    branch,
		message:   message,
		batchSize: batchSize,
		sink:      sink,
		logger:    slog.Default().With("component", "publisher"),
	}
}

// Publish commits every batch in order. The returned ledger holds the SHA
// of every commit that landed, including when a later batch fails; the
// caller uses it to roll back.
func (b *Batcher) Publish(ctx context.Context, actions []core.CommitAction) (RollbackLedger, error) {
	batches := Chunk(actions, b.batchSize)
	ledger := make(RollbackLedger, 0, len(batches))

	for i, batch := range batches {
		message := b.message
		if len(batches) > 1 {
			message = fmt.Sprintf("%s (%d/%d)", b.message, i+1, len(batches))
		}

		sha, err := b.committer.Commit(ctx, b.branch, message, batch)
		if err != nil {
			b.sink.LogError("publish",
				fmt.Sprintf("batch %d/%d failed: %v", i+1, len(batches), err), 0)
			return ledger, fmt.Errorf("publish batch %d/%d: %w", i+1, len(batches), err)
		}

		ledger = append(ledger, sha)
		b.logger.Info("batch committed",
			"batch", i+1, "batches", len(batches), "actions", len(batch), "sha", sha)
		b.sink.LogInfo("publish",
			fmt.Sprintf("committed batch %d/%d (%d actions)", i+1, len(batches), len(batch)),
			(i+1)*100/len(batches))
	}

	return ledger, nil
}

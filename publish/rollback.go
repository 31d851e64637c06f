package publish

import (
	"context"
	"fmt"
	"log/slog"

	"indexdeploy/progress"
)

// ManualRevert identifies a commit the coordinator could not revert.
// Someone has to undo it by hand.
type ManualRevert struct {
	SHA    string
	Reason string
}

// Coordinator unwinds a failed publication.
type Coordinator struct {
	committer Committer
	branch    string
	sink      progress.Sink
	logger    *slog.Logger
}

// NewCoordinator creates a rollback coordinator for branch.
func NewCoordinator(committer Committer, branch string, sink progress.Sink) *Coordinator {
	if sink == nil {
		sink = progress.Nop{}
	}
	return &Coordinator{
		committer: committer,
		branch:    branch,
		sink:      sink,
		logger:    slog.Default().With("component", "rollback"),
	}
}

// Rollback reverts every ledger entry in reverse order. A failed revert is
// recorded and the coordinator moves on to the next entry, so one stuck
// commit never strands the rest. The returned list names the commits that
// still need manual action, oldest first.
func (c *Coordinator) Rollback(ctx context.Context, ledger RollbackLedger) []ManualRevert {
	var manual []ManualRevert

	for i := len(ledger) - 1; i >= 0; i-- {
		sha := ledger[i]
		revertSHA, err := c.committer.Revert(ctx, c.branch, sha)
		if err != nil {
			c.logger.Error("revert failed", "sha", sha, "err", err)
			c.sink.LogError("rollback",
				fmt.Sprintf("could not revert commit %s, manual action required: %v", sha, err), 0)
			manual = append([]ManualRevert{{SHA: sha, Reason: err.Error()}}, manual...)
			continue
		}
		c.logger.Info("commit reverted", "sha", sha, "revert", revertSHA)
		c.sink.LogInfo("rollback", fmt.Sprintf("reverted commit %s", sha), 0)
	}

	if len(manual) > 0 {
		c.sink.LogWarning("rollback",
			fmt.Sprintf("%d commit(s) require manual revert", len(manual)), 0)
	}
	return manual
}

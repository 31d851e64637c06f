package publish

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indexdeploy/core"
)

// fakeCommitter records commits and reverts, with injectable failures.
type fakeCommitter struct {
	commits    [][]core.CommitAction
	messages   []string
	reverted   []string
	failCommit map[int]error    // fail the Nth commit (1-based)
	failRevert map[string]error // fail reverting a given SHA
}

func newFakeCommitter() *fakeCommitter {
	return &fakeCommitter{
		failCommit: map[int]error{},
		failRevert: map[string]error{},
	}
}

func (f *fakeCommitter) Commit(ctx context.Context, branch, message string, actions []core.CommitAction) (string, error) {
	n := len(f.commits) + 1
	if err := f.failCommit[n]; err != nil {
		return "", err
	}
	f.commits = append(f.commits, actions)
	f.messages = append(f.messages, message)
	return fmt.Sprintf("sha-%d", n), nil
}

func (f *fakeCommitter) Revert(ctx context.Context, branch, sha string) (string, error) {
	if err := f.failRevert[sha]; err != nil {
		return "", err
	}
	f.reverted = append(f.reverted, sha)
	return "revert-" + sha, nil
}

func makeActions(n int) []core.CommitAction {
	actions := make([]core.CommitAction, n)
	for i := range actions {
		actions[i] = core.CommitAction{
			Action:  core.ActionCreate,
			Path:    fmt.Sprintf("id-%d.json", i),
			Content: "{}",
		}
	}
	return actions
}

func TestChunk(t *testing.T) {
	actions := makeActions(250)
	batches := Chunk(actions, 100)

	require.Len(t, batches, 3, "250 actions at batch size 100 is 3 batches")
	assert.Len(t, batches[0], 100)
	assert.Len(t, batches[1], 100)
	assert.Len(t, batches[2], 50)

	// Order is preserved across batch boundaries.
	assert.Equal(t, "id-99.json", batches[0][99].Path)
	assert.Equal(t, "id-100.json", batches[1][0].Path)
}

func TestChunk_ExactMultiple(t *testing.T) {
	batches := Chunk(makeActions(200), 100)
	require.Len(t, batches, 2)
	assert.Len(t, batches[1], 100)
}

func TestChunk_Empty(t *testing.T) {
	assert.Empty(t, Chunk(nil, 100))
}

func TestChunk_SizeClamped(t *testing.T) {
	batches := Chunk(makeActions(3), 0)
	require.Len(t, batches, 3)
}

func TestPublish(t *testing.T) {
	committer := newFakeCommitter()
	batcher := NewBatcher(committer, "main", "chore: update index files", 100, nil)

	ledger, err := batcher.Publish(context.Background(), makeActions(250))
	require.NoError(t, err)

	assert.Equal(t, RollbackLedger{"sha-1", "sha-2", "sha-3"}, ledger)
	require.Len(t, committer.commits, 3)
	assert.Equal(t, "chore: update index files (1/3)", committer.messages[0])
	assert.Equal(t, "chore: update index files (3/3)", committer.messages[2])
}

func TestPublish_SingleBatchKeepsPlainMessage(t *testing.T) {
	committer := newFakeCommitter()
	batcher := NewBatcher(committer, "main", "chore: update index files", 100, nil)

	ledger, err := batcher.Publish(context.Background(), makeActions(10))
	require.NoError(t, err)
	assert.Equal(t, RollbackLedger{"sha-1"}, ledger)
	assert.Equal(t, "chore: update index files", committer.messages[0])
}

func TestPublish_MidwayFailureReturnsPartialLedger(t *testing.T) {
	committer := newFakeCommitter()
	committer.failCommit[2] = errors.New("branch protected")
	batcher := NewBatcher(committer, "main", "msg", 100, nil)

	ledger, err := batcher.Publish(context.Background(), makeActions(250))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch 2/3")
	assert.Equal(t, RollbackLedger{"sha-1"}, ledger, "ledger holds only commits that landed")
}

func TestRollback_ReverseOrder(t *testing.T) {
	committer := newFakeCommitter()
	coordinator := NewCoordinator(committer, "main", nil)

	manual := coordinator.Rollback(context.Background(), RollbackLedger{"sha-1", "sha-2", "sha-3"})
	assert.Empty(t, manual)
	assert.Equal(t, []string{"sha-3", "sha-2", "sha-1"}, committer.reverted)
}

func TestRollback_FailedRevertDoesNotStopTheRest(t *testing.T) {
	committer := newFakeCommitter()
	committer.failRevert["sha-2"] = errors.New("merge conflict")
	coordinator := NewCoordinator(committer, "main", nil)

	manual := coordinator.Rollback(context.Background(), RollbackLedger{"sha-1", "sha-2", "sha-3"})

	assert.Equal(t, []string{"sha-3", "sha-1"}, committer.reverted,
		"sha-1 is still attempted after sha-2 fails")
	require.Len(t, manual, 1)
	assert.Equal(t, "sha-2", manual[0].SHA)
	assert.Contains(t, manual[0].Reason, "merge conflict")
}

func TestRollback_EmptyLedger(t *testing.T) {
	committer := newFakeCommitter()
	coordinator := NewCoordinator(committer, "main", nil)
	assert.Empty(t, coordinator.Rollback(context.Background(), nil))
	assert.Empty(t, committer.reverted)
}

package publish

import (
	"fmt"

	"indexdeploy/core"
	"indexdeploy/staging"
)

// BuildActions assembles the full action list for one run: a create action
// per staged artifact, then a delete action per superseded identifier.
// Creates come first so a mid-run failure never leaves the index smaller
// than it started.
func BuildActions(writer *staging.Writer, artifacts []core.Artifact, supersededIDs []string) ([]core.CommitAction, error) {
	actions := make([]core.CommitAction, 0, len(artifacts)+len(supersededIDs))

	for i := range artifacts {
		content, err := writer.Read(artifacts[i].RagID)
		if err != nil {
			return nil, fmt.Errorf("publish: read staged artifact %s: %w", artifacts[i].RagID, err)
		}
		actions = append(actions, core.CommitAction{
			Action:  core.ActionCreate,
			Path:    artifacts[i].FileName(),
			Content: string(content),
		})
	}

	for _, id := range supersededIDs {
		actions = append(actions, core.CommitAction{
			Action: core.ActionDelete,
			Path:   id + ".json",
		})
	}

	return actions, nil
}

// Chunk splits actions into batches of at most size, preserving order.
func Chunk(actions []core.CommitAction, size int) [][]core.CommitAction {
	if size < 1 {
		size = 1
	}

	var batches [][]core.CommitAction
	for start := 0; start < len(actions); start += size {
		end := start + size
		if end > len(actions) {
			end = len(actions)
		}
		batches = append(batches, actions[start:end])
	}
	return batches
}

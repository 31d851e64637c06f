package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indexdeploy/core"
	"indexdeploy/staging"
)

func TestBuildActions(t *testing.T) {
	writer := staging.NewWriter(t.TempDir())
	artifacts := []core.Artifact{
		{RagID: "id-1", Content: "first", Embedding: []float32{0.1}, Keywords: []string{}},
		{RagID: "id-2", Content: "second", Embedding: []float32{0.2}, Keywords: []string{}},
	}
	require.NoError(t, writer.WriteAll(artifacts))

	actions, err := BuildActions(writer, artifacts, []string{"old-1", "old-2"})
	require.NoError(t, err)
	require.Len(t, actions, 4)

	// Creates first, deletes after.
	assert.Equal(t, core.ActionCreate, actions[0].Action)
	assert.Equal(t, "id-1.json", actions[0].Path)
	assert.Contains(t, actions[0].Content, `"rag_id": "id-1"`)

	assert.Equal(t, core.ActionDelete, actions[2].Action)
	assert.Equal(t, "old-1.json", actions[2].Path)
	assert.Empty(t, actions[2].Content, "delete actions carry no content")
}

func TestBuildActions_MissingStagedFile(t *testing.T) {
	writer := staging.NewWriter(t.TempDir())
	_, err := BuildActions(writer, []core.Artifact{{RagID: "never-staged"}}, nil)
	require.Error(t, err)
}

func TestBuildActions_DeletesOnly(t *testing.T) {
	writer := staging.NewWriter(t.TempDir())
	actions, err := BuildActions(writer, nil, []string{"old-1"})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, core.ActionDelete, actions[0].Action)
}

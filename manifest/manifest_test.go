package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indexdeploy/core"
)

func TestAssignIDs(t *testing.T) {
	rows := []core.ContentRow{
		{ThreadID: "t1"},
		{ThreadID: "t2"},
		{ThreadID: "t3"},
	}

	assigned := AssignIDs(rows)
	require.Len(t, assigned, 3)

	seen := make(map[string]bool)
	for _, row := range assigned {
		require.NotEmpty(t, row.RagID)
		require.False(t, seen[row.RagID], "identifiers must be pairwise distinct")
		seen[row.RagID] = true
	}
	// Input rows are not mutated.
	assert.Empty(t, rows[0].RagID)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "manifest.csv")
	rows := []core.ContentRow{{
		RagID:           "id-1",
		ThreadID:        "t1",
		GroupID:         "g1",
		UpdateTimestamp: "20250110",
		Content:         "hello",
		EffectiveStart:  "20250101",
		EffectiveEnd:    "20250201",
	}}

	require.NoError(t, Write(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "rag_id")
	assert.Contains(t, content, "id-1")
	assert.Contains(t, content, "2025-01-10", "dates are humanized")

	lines := strings.Split(strings.TrimSpace(content), "\n")
	assert.Len(t, lines, 2, "header plus one row")
}

func TestWriteAdvisory_BadPathDoesNotFail(t *testing.T) {
	// Target is a directory, so the write fails; advisory mode swallows it.
	dir := t.TempDir()
	WriteAdvisory(dir, nil, nil)
}

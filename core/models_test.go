package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRagID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewRagID()
		require.NotEmpty(t, id)
		require.False(t, seen[id], "rag_id collision: %s", id)
		seen[id] = true
	}
}

func TestBuildArtifact(t *testing.T) {
	row := ContentRow{
		RagID:           "abc-123",
		ThreadID:        "t1",
		GroupID:         "g1",
		UpdateTimestamp: "20250110",
		Content:         "本文テキスト",
		ContentEN:       "body text",
		CategoryLarge:   "3.0",
		CategoryMedium:  "12",
		CategorySmall:   "-",
		EffectiveStart:  "20250101",
		EffectiveEnd:    "20991231",
	}

	a, err := BuildArtifact(row)
	require.NoError(t, err)

	assert.Equal(t, "abc-123", a.RagID)
	assert.Equal(t, "本文テキスト \n\nbody text", a.Content)
	assert.Equal(t, "2025-01-10", a.UpdateTimestamp)
	assert.Equal(t, "2025-01-01", a.EffectiveStart)
	assert.Equal(t, "2099-12-31", a.EffectiveEnd)
	assert.Equal(t, "3", a.CategoryLarge)
	assert.Equal(t, "12", a.CategoryMedium)
	assert.Equal(t, NoCategory, a.CategorySmall)
	assert.Empty(t, a.Embedding)
	assert.Empty(t, a.Keywords)
	assert.False(t, a.Complete())
	assert.Equal(t, "abc-123.json", a.FileName())
}

func TestBuildArtifact_NoEnglishSupplement(t *testing.T) {
	row := ContentRow{
		RagID:           "id",
		UpdateTimestamp: "20250110",
		Content:         "only japanese",
		EffectiveStart:  "20250101",
		EffectiveEnd:    "20250201",
	}
	a, err := BuildArtifact(row)
	require.NoError(t, err)
	assert.Equal(t, "only japanese", a.Content)
}

func TestBuildArtifact_BadDate(t *testing.T) {
	row := ContentRow{RagID: "id", UpdateTimestamp: "2025-01-10"}
	_, err := BuildArtifact(row)
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestArtifactComplete(t *testing.T) {
	a := &Artifact{Embedding: []float32{0.1}, Keywords: []string{}}
	assert.True(t, a.Complete(), "empty keyword list still counts as enriched")

	a = &Artifact{Embedding: nil, Keywords: []string{"k"}}
	assert.False(t, a.Complete())
}

func TestReleaseTagName(t *testing.T) {
	tag := ReleaseTag{Sequence: 8, Date: time.Date(2025, 9, 4, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "008-20250904", tag.Name())
}

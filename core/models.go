package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NoCategory marks a row or artifact as carrying no category at a given level.
const NoCategory = "-"

// ContentRow is one record of tabular input. Rows are read once and are
// immutable afterwards: a row with a RagID refers to previously published
// content and is superseded; a row without one becomes a new artifact.
type ContentRow struct {
	RagID           string // empty for new rows
	ThreadID        string
	GroupID         string
	UpdateTimestamp string // YYYYMMDD as read from the source
	Content         string
	ContentEN       string // optional English supplement
	CategoryLarge   string
	CategoryMedium  string
	CategorySmall   string
	EffectiveStart  string // YYYYMMDD
	EffectiveEnd    string // YYYYMMDD
}

// NewRagID generates a fresh unique identifier for an artifact.
// Collision probability is treated as negligible.
func NewRagID() string {
	return uuid.NewString()
}

// Artifact is the canonical unit published downstream. Its RagID is also the
// addressable name of the staged file and of its entry in the content store.
type Artifact struct {
	RagID           string    `json:"rag_id"`
	ThreadID        string    `json:"thread_id"`
	GroupID         string    `json:"group_id"`
	UpdateTimestamp string    `json:"update_timestamp"`
	Content         string    `json:"content"`
	Embedding       []float32 `json:"content_embedding"`
	Keywords        []string  `json:"content_keywords"`
	CategoryLarge   string    `json:"category_id_large"`
	CategoryMedium  string    `json:"category_id_medium"`
	CategorySmall   string    `json:"category_id_small"`
	EffectiveStart  string    `json:"effective_start_date"`
	EffectiveEnd    string    `json:"effective_end_date"`
	ExtraField1     string    `json:"extra_field_1"`
	ExtraField2     string    `json:"extra_field_2"`
}

// Complete reports whether the artifact has been fully enriched.
// An artifact is never published while incomplete, though artifacts with
// empty keywords are allowed once keyword extraction has been attempted.
func (a *Artifact) Complete() bool {
	return len(a.Embedding) > 0 && a.Keywords != nil
}

// FileName returns the addressable name of the artifact's persisted unit.
func (a *Artifact) FileName() string {
	return a.RagID + ".json"
}

// BuildArtifact normalizes a row into its canonical artifact form.
// Category codes are normalized to integer strings or the no-category
// marker, dates are reformatted, and the enrichment fields start empty.
// The row must already carry an assigned RagID.
func BuildArtifact(row ContentRow) (*Artifact, error) {
	updated, err := FormatInputDate(row.UpdateTimestamp)
	if err != nil {
		return nil, err
	}
	start, err := FormatInputDate(row.EffectiveStart)
	if err != nil {
		return nil, err
	}
	end, err := FormatInputDate(row.EffectiveEnd)
	if err != nil {
		return nil, err
	}

	content := row.Content
	if row.ContentEN != "" {
		content = row.Content + " \n\n" + row.ContentEN
	}

	return &Artifact{
		RagID:           row.RagID,
		ThreadID:        row.ThreadID,
		GroupID:         row.GroupID,
		UpdateTimestamp: updated,
		Content:         content,
		Embedding:       []float32{},
		Keywords:        []string{},
		CategoryLarge:   ParseCategoryID(row.CategoryLarge),
		CategoryMedium:  ParseCategoryID(row.CategoryMedium),
		CategorySmall:   ParseCategoryID(row.CategorySmall),
		EffectiveStart:  start,
		EffectiveEnd:    end,
	}, nil
}

// ActionType identifies a content-store commit action.
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionDelete ActionType = "delete"
)

// CommitAction is one add or delete inside a publication batch.
type CommitAction struct {
	Action  ActionType `json:"action"`
	Path    string     `json:"file_path"`
	Content string     `json:"content,omitempty"`
}

// ReleaseTag is a monotonically sequenced, dated marker of one publication.
type ReleaseTag struct {
	Sequence int
	Date     time.Time
}

// Name renders the tag in its NNN-YYYYMMDD wire form.
func (t ReleaseTag) Name() string {
	return fmt.Sprintf("%03d-%s", t.Sequence, t.Date.Format("20060102"))
}

// RunStats carries the counters surfaced to the progress sink at the end of
// a run.
type RunStats struct {
	RecordCount  int
	CreatedCount int
	DeletedCount int
}

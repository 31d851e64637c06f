package source

import (
	"fmt"
	"strings"

	"indexdeploy/core"
)

// Reconciliation is the partition of the input into rows to be created and
// identifiers to be deleted. Every input row lands in exactly one side.
type Reconciliation struct {
	NewRows       []core.ContentRow
	SupersededIDs []string
	// DuplicateRows counts byte-identical rows; duplicates are advisory
	// only and never rejected.
	DuplicateRows int
}

// Reconcile validates the merged table and splits its rows by presence of
// the stable identifier. Missing required columns abort before any row is
// processed.
func (l *Loader) Reconcile(table *Table) (*Reconciliation, error) {
	var missing []string
	have := make(map[string]bool, len(table.Columns))
	for _, col := range table.Columns {
		have[col] = true
	}
	for _, col := range RequiredColumns {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	rec := &Reconciliation{}
	seen := make(map[core.Fingerprint]bool, len(table.Rows))
	for _, raw := range table.Rows {
		row := rowFromRecord(raw)

		fp := core.RowFingerprint(row)
		if seen[fp] {
			rec.DuplicateRows++
			l.logger.Warn("duplicate input row", "thread_id", row.ThreadID, "group_id", row.GroupID)
		}
		seen[fp] = true

		if row.RagID != "" {
			rec.SupersededIDs = append(rec.SupersededIDs, row.RagID)
			continue
		}
		rec.NewRows = append(rec.NewRows, row)
	}

	l.logger.Info("rows reconciled",
		"new", len(rec.NewRows),
		"superseded", len(rec.SupersededIDs),
		"duplicates", rec.DuplicateRows)
	return rec, nil
}

func rowFromRecord(raw map[string]string) core.ContentRow {
	return core.ContentRow{
		RagID:           strings.TrimSpace(raw["rag_id"]),
		ThreadID:        raw["thread_id"],
		GroupID:         raw["group_id"],
		UpdateTimestamp: raw["update_timestamp"],
		Content:         raw["content"],
		ContentEN:       raw["content_en"],
		CategoryLarge:   raw["category_id_large"],
		CategoryMedium:  raw["category_id_medium"],
		CategorySmall:   raw["category_id_small"],
		EffectiveStart:  raw["effective_start_date"],
		EffectiveEnd:    raw["effective_end_date"],
	}
}

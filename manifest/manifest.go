// Package manifest writes the human-auditable mapping of input rows to
// their freshly assigned identifiers. The manifest is informational: the
// pipeline continues even if it cannot be written.
package manifest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"

	"indexdeploy/core"
)

// AssignIDs stamps every row with a freshly generated unique identifier
// and returns the updated rows.
func AssignIDs(rows []core.ContentRow) []core.ContentRow {
	assigned := make([]core.ContentRow, len(rows))
	for i, row := range rows {
		row.RagID = core.NewRagID()
		assigned[i] = row
	}
	return assigned
}

// Write renders the assigned-identifier manifest as CSV at the given path.
// The parent directory is created if needed.
func Write(path string, rows []core.ContentRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{
		"rag_id", "thread_id", "group_id", "update_timestamp", "content",
		"category_id_large", "category_id_medium", "category_id_small",
		"effective_start_date", "effective_end_date",
	})
	for _, row := range rows {
		tw.AppendRow(table.Row{
			row.RagID, row.ThreadID, row.GroupID, humanDate(row.UpdateTimestamp), row.Content,
			row.CategoryLarge, row.CategoryMedium, row.CategorySmall,
			humanDate(row.EffectiveStart), humanDate(row.EffectiveEnd),
		})
	}

	if err := os.WriteFile(path, []byte(tw.RenderCSV()+"\n"), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// WriteAdvisory writes the manifest and logs instead of failing; losing the
// audit artifact never aborts the run.
func WriteAdvisory(path string, rows []core.ContentRow, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := Write(path, rows); err != nil {
		logger.Warn("manifest not written", "path", path, "err", err)
		return
	}
	logger.Info("manifest written", "path", path, "rows", len(rows))
}

func humanDate(raw string) string {
	formatted, err := core.FormatInputDate(raw)
	if err != nil {
		return raw
	}
	return formatted
}

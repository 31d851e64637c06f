package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// RequiredColumns lists the columns every input file must carry.
// The identifier column (rag_id) is optional: its presence per row decides
// whether the row supersedes published content.
var RequiredColumns = []string{
	"thread_id",
	"group_id",
	"update_timestamp",
	"content",
	"content_embedding",
	"category_id_large",
	"category_id_medium",
	"category_id_small",
	"effective_start_date",
	"effective_end_date",
}

// Table holds the merged rows of all input files, keyed by column name.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Loader reads and merges the tabular input files of one run.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a loader over the given input directory.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, logger: logger.With("component", "source")}
}

// Load reads every CSV file in the input directory and merges the rows.
// It fails fast if no input exists or any file cannot be read; nothing is
// partially processed.
func (l *Loader) Load() (*Table, error) {
	paths, err := filepath.Glob(filepath.Join(l.dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list input files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInputFiles, l.dir)
	}
	sort.Strings(paths)

	merged := &Table{}
	for _, path := range paths {
		l.logger.Info("reading input file", "file", filepath.Base(path))
		table, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		if merged.Columns == nil {
			merged.Columns = table.Columns
		}
		merged.Rows = append(merged.Rows, table.Rows...)
	}

	l.logger.Info("input files merged", "files", len(paths), "rows", len(merged.Rows))
	return merged, nil
}

func readFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	table := &Table{Columns: header}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inputHeader = "rag_id,thread_id,group_id,update_timestamp,content,content_embedding,category_id_large,category_id_medium,category_id_small,effective_start_date,effective_end_date"

func writeInput(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoad_MergesFiles(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "a.csv", inputHeader+"\n,t1,g1,20250101,hello,,1,2,3,20250101,20250201\n")
	writeInput(t, dir, "b.csv", inputHeader+"\n,t2,g2,20250102,world,,1,2,3,20250101,20250201\n")

	loader := NewLoader(dir, nil)
	table, err := loader.Load()
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestLoad_EmptyDir(t *testing.T) {
	loader := NewLoader(t.TempDir(), nil)
	_, err := loader.Load()
	require.ErrorIs(t, err, ErrNoInputFiles)
}

func TestReconcile_Partition(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "rows.csv", inputHeader+"\n"+
		",t1,g1,20250101,new one,,1,-,-,20250101,20250201\n"+
		"old-id-1,t2,g1,20250101,old one,,1,-,-,20250101,20250201\n"+
		",t3,g1,20250101,new two,,1,-,-,20250101,20250201\n")

	loader := NewLoader(dir, nil)
	table, err := loader.Load()
	require.NoError(t, err)

	rec, err := loader.Reconcile(table)
	require.NoError(t, err)

	// Every row lands in exactly one side of the partition.
	assert.Len(t, rec.NewRows, 2)
	assert.Equal(t, []string{"old-id-1"}, rec.SupersededIDs)
	for _, row := range rec.NewRows {
		assert.Empty(t, row.RagID)
	}
	assert.Zero(t, rec.DuplicateRows)
}

func TestReconcile_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "rows.csv", "thread_id,content\nt1,hello\n")

	loader := NewLoader(dir, nil)
	table, err := loader.Load()
	require.NoError(t, err)

	_, err = loader.Reconcile(table)
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "group_id")
	assert.Contains(t, err.Error(), "effective_end_date")
}

func TestReconcile_DuplicatesAdvisory(t *testing.T) {
	dir := t.TempDir()
	row := ",t1,g1,20250101,same,,1,-,-,20250101,20250201\n"
	writeInput(t, dir, "rows.csv", inputHeader+"\n"+row+row)

	loader := NewLoader(dir, nil)
	table, err := loader.Load()
	require.NoError(t, err)

	rec, err := loader.Reconcile(table)
	require.NoError(t, err, "duplicates are logged, not rejected")
	assert.Len(t, rec.NewRows, 2)
	assert.Equal(t, 1, rec.DuplicateRows)
}

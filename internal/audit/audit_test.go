package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditor_SaveJSON(t *testing.T) {
	dir := t.TempDir()
	auditor := NewAuditor(dir)

	filename, err := auditor.SaveJSON(map[string]any{
		"book_id":       "b1",
		"selected_text": "a passage",
	})
	require.NoError(t, err)
	assert.Equal(t, ".json", filepath.Ext(filename))

	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)

	var saved map[string]any
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "b1", saved["book_id"])
}

func TestAuditor_SaveJSON_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "audit")
	auditor := NewAuditor(dir)

	_, err := auditor.SaveJSON(map[string]string{"k": "v"})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAuditor_Prune(t *testing.T) {
	dir := t.TempDir()
	auditor := NewAuditor(dir)

	oldFile, err := auditor.SaveJSON(map[string]string{"age": "old"})
	require.NoError(t, err)
	_, err = auditor.SaveJSON(map[string]string{"age": "new"})
	require.NoError(t, err)

	// Backdate one file past the cutoff
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, oldFile), past, past))

	removed, err := auditor.Prune(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAuditor_Prune_MissingDirIsNoop(t *testing.T) {
	auditor := NewAuditor(filepath.Join(t.TempDir(), "does-not-exist"))
	removed, err := auditor.Prune(time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

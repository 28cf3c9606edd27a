package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessFileMarksEmptyBatchDone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	// An empty batch is a no-op ingest and never touches the database.
	w := NewWatcher(dir, NewService(nil, nil, nil, nil, nil))
	w.processFile(context.Background(), path)

	assert.NoFileExists(t, path)
	assert.FileExists(t, path+".done")
}

func TestProcessFileMarksUnparseableFailed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	w := NewWatcher(dir, NewService(nil, nil, nil, nil, nil))
	w.processFile(context.Background(), path)

	assert.NoFileExists(t, path)
	assert.FileExists(t, path+".failed")
}

func TestProcessFileMarksInvalidBatchFailed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")
	body := `{"snapshots":[{"songId":1,"timestamp":"not-a-day","total":10}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	w := NewWatcher(dir, NewService(nil, nil, nil, nil, nil))
	w.processFile(context.Background(), path)

	assert.FileExists(t, path+".failed")
}

package hasher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rileyhilliard/dupefindr/internal/errors"
	"github.com/rileyhilliard/dupefindr/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) scan.FileInfo {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return scan.FileInfo{Path: path, Size: int64(len(content))}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		content string
		want    string
	}{
		{"", "d41d8cd98f00b204e9800998ecf8427e"},
		{"a", "0cc175b9c0f1b6a831c399e269772661"},
		{"hello world", "5eb63bbbe01eeed093cb22bb8f5acdc3"},
	}

	for _, tt := range tests {
		f := writeFile(t, dir, "f", tt.content)
		got, err := HashFile(f.Path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "content %q", tt.content)
	}
}

func TestHashFileMissing(t *testing.T) {
	_, err := HashFile("/nonexistent/file")
	assert.Error(t, err)
}

type recorder struct {
	mu       sync.Mutex
	started  map[string]int
	finished map[string]error
	workers  map[int]bool
}

func newRecorder() *recorder {
	return &recorder{started: map[string]int{}, finished: map[string]error{}, workers: map[int]bool{}}
}

func (r *recorder) Started(worker int, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started[path] = worker
	r.workers[worker] = true
}

func (r *recorder) Finished(worker int, path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished[path] = err
}

func TestHashAll(t *testing.T) {
	dir := t.TempDir()
	var files []scan.FileInfo
	for i, content := range []string{"same", "same", "other", "same", "x"} {
		files = append(files, writeFile(t, dir, string(rune('a'+i))+".txt", content))
	}
	files = append(files, scan.FileInfo{Path: filepath.Join(dir, "missing.txt")})

	rep := newRecorder()
	results, err := HashAll(context.Background(), files, Options{Workers: 3}, rep)
	require.NoError(t, err)
	require.Len(t, results, len(files))

	for i, r := range results {
		assert.Equal(t, files[i].Path, r.File.Path, "results keep input order")
	}
	assert.Equal(t, results[0].Hash, results[1].Hash)
	assert.Equal(t, results[0].Hash, results[3].Hash)
	assert.NotEqual(t, results[0].Hash, results[2].Hash)

	missing := results[5]
	assert.Empty(t, missing.Hash)
	require.Error(t, missing.Err)
	assert.True(t, errors.IsCode(missing.Err, errors.ErrHash))
	assert.Len(t, Failed(results), 1)

	assert.Len(t, rep.started, len(files))
	assert.Len(t, rep.finished, len(files))
	assert.Error(t, rep.finished[missing.File.Path])
	for w := range rep.workers {
		assert.True(t, w >= 0 && w < 3, "worker id %d within pool", w)
	}
}

func TestHashAllEmpty(t *testing.T) {
	results, err := HashAll(context.Background(), nil, Options{}, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestHashAllCancelled(t *testing.T) {
	dir := t.TempDir()
	files := []scan.FileInfo{writeFile(t, dir, "a", "a"), writeFile(t, dir, "b", "b")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := HashAll(ctx, files, Options{Workers: 1}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 2, WorkerCount(Options{Workers: 2}, 10))
	assert.Equal(t, 3, WorkerCount(Options{Workers: 8}, 3), "never more workers than files")
	assert.Equal(t, 1, WorkerCount(Options{Workers: 4}, 0))
	assert.GreaterOrEqual(t, WorkerCount(Options{}, 1000), 1)
}

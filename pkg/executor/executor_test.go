package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuya-takeyama/lms/internal/checksum"
	"github.com/yuya-takeyama/lms/pkg/entry"
	"github.com/yuya-takeyama/lms/pkg/progress"
)

type logCall struct {
	level string
	msg   string
	path  string
}

// recordingLogger is safe for the concurrent calls made in parallel mode
type recordingLogger struct {
	mu    sync.Mutex
	calls []logCall
}

func (l *recordingLogger) record(level, msg string, args []any) {
	call := logCall{level: level, msg: msg}
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == "path" {
			call.path = fmt.Sprint(args[i+1])
		}
	}
	l.mu.Lock()
	l.calls = append(l.calls, call)
	l.mu.Unlock()
}

func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

func (l *recordingLogger) errors() []logCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logCall
	for _, c := range l.calls {
		if c.level == "error" {
			out = append(out, c)
		}
	}
	return out
}

func writeFile(t *testing.T, root, rel, content string) entry.File {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return entry.NewFile(rel, int64(len(content)))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCopyMany(t *testing.T) {
	for _, mode := range []Mode{Parallel, Sequential} {
		t.Run(mode.String(), func(t *testing.T) {
			src, dest := t.TempDir(), t.TempDir()
			files := []entry.File{
				writeFile(t, src, "a.txt", "alpha"),
				writeFile(t, src, filepath.Join("nested", "deep", "b.txt"), "bravo"),
			}
			dirs := []entry.Dir{entry.NewDir("empty"), entry.NewDir(filepath.Join("x", "y"))}

			counter := &progress.Counter{}
			e := New(WithProgress(counter), WithConcurrency(4))

			dirResults, err := e.CopyMany(context.Background(), entry.Entries(dirs), src, dest, mode)
			require.NoError(t, err)
			fileResults, err := e.CopyMany(context.Background(), entry.Entries(files), src, dest, mode)
			require.NoError(t, err)

			assert.Len(t, dirResults, 2)
			assert.Len(t, fileResults, 2)
			assert.Empty(t, Failed(append(dirResults, fileResults...)))

			assert.Equal(t, "alpha", readFile(t, filepath.Join(dest, "a.txt")))
			assert.Equal(t, "bravo", readFile(t, filepath.Join(dest, "nested", "deep", "b.txt")))
			assert.DirExists(t, filepath.Join(dest, "empty"))
			assert.DirExists(t, filepath.Join(dest, "x", "y"))
			assert.Equal(t, int64(4), counter.Current())

			var stats Stats
			UpdateStats(&stats, fileResults)
			assert.Equal(t, int64(2), stats.Copied)
			assert.Equal(t, int64(10), stats.BytesCopied)
		})
	}
}

func TestCopyDirIsIdempotent(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "exists"), 0755))

	results, err := New().CopyMany(context.Background(), []entry.Entry{entry.NewDir("exists")}, src, dest, Sequential)
	require.NoError(t, err)
	assert.Empty(t, Failed(results))
}

func TestCopyOverwritesExistingFile(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	f := writeFile(t, src, "file.txt", "new")
	writeFile(t, dest, "file.txt", "much older content")

	results, err := New().CopyMany(context.Background(), []entry.Entry{f}, src, dest, Parallel)
	require.NoError(t, err)
	assert.Empty(t, Failed(results))
	assert.Equal(t, "new", readFile(t, filepath.Join(dest, "file.txt")))
}

func TestCopySymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	src, dest := t.TempDir(), t.TempDir()
	link := entry.NewSymlink(filepath.Join("sub", "link"), "../does/not/matter")

	results, err := New().CopyMany(context.Background(), []entry.Entry{link}, src, dest, Parallel)
	require.NoError(t, err)
	assert.Empty(t, Failed(results))

	target, err := os.Readlink(filepath.Join(dest, "sub", "link"))
	require.NoError(t, err)
	assert.Equal(t, "../does/not/matter", target)
}

func TestCopyFailureIsIsolated(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	good := writeFile(t, src, "good.txt", "ok")
	missing := entry.NewFile("missing.txt", 3)

	log := &recordingLogger{}
	counter := &progress.Counter{}
	e := New(WithLogger(log), WithProgress(counter))

	results, err := e.CopyMany(context.Background(), []entry.Entry{missing, good}, src, dest, Parallel)
	require.NoError(t, err)

	failed := Failed(results)
	require.Len(t, failed, 1)
	assert.Equal(t, missing, failed[0].Entry)
	assert.Len(t, log.errors(), 1)
	assert.FileExists(t, filepath.Join(dest, "good.txt"))
	assert.Equal(t, int64(2), counter.Current())
}

func TestDeleteMany(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.txt", "a")
	b := writeFile(t, root, filepath.Join("sub", "b.txt"), "b")
	gone := entry.NewFile("gone.txt", 1)

	log := &recordingLogger{}
	results, err := New(WithLogger(log)).DeleteMany(context.Background(), []entry.Entry{a, b, gone}, root, Parallel)
	require.NoError(t, err)

	var stats Stats
	UpdateStats(&stats, results)
	assert.Equal(t, int64(2), stats.Deleted)
	assert.Equal(t, int64(1), stats.Errors)
	assert.NoFileExists(t, filepath.Join(root, "a.txt"))
	assert.NoFileExists(t, filepath.Join(root, "sub", "b.txt"))
	assert.DirExists(t, filepath.Join(root, "sub"))
}

func TestDeleteOrdered(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"a/b/c", "d"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0755))
	}
	dirs := []entry.Dir{
		entry.NewDir("a"),
		entry.NewDir("d"),
		entry.NewDir(filepath.Join("a", "b")),
		entry.NewDir(filepath.Join("a", "b", "c")),
	}

	log := &recordingLogger{}
	counter := &progress.Counter{}
	results, err := New(WithLogger(log), WithProgress(counter)).DeleteOrdered(context.Background(), dirs, root)
	require.NoError(t, err)
	assert.Empty(t, Failed(results))
	assert.Empty(t, log.errors())
	assert.Equal(t, int64(4), counter.Current())

	order := make(map[string]int)
	for i, r := range results {
		order[filepath.ToSlash(r.Entry.Path())] = i
	}
	assert.Less(t, order["a/b/c"], order["a/b"])
	assert.Less(t, order["a/b"], order["a"])

	for _, d := range []string{"a", "d"} {
		assert.NoDirExists(t, filepath.Join(root, d))
	}

	// the caller's slice is left untouched
	assert.Equal(t, "a", dirs[0].RelPath)
}

func TestDeleteOrderedNonEmptyDirLogsError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, filepath.Join("full", "keep.txt"), "x")

	log := &recordingLogger{}
	results, err := New(WithLogger(log)).DeleteOrdered(context.Background(), []entry.Dir{entry.NewDir("full")}, root)
	require.NoError(t, err)
	assert.Len(t, Failed(results), 1)
	assert.Len(t, log.errors(), 1)
	assert.FileExists(t, filepath.Join(root, "full", "keep.txt"))
}

func TestDeleteOrderedRootLast(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "target")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "x", "y"), 0755))

	dirs := []entry.Dir{entry.NewDir("x"), entry.NewDir(filepath.Join("x", "y")), entry.NewDir("")}
	results, err := New().DeleteOrdered(context.Background(), dirs, root)
	require.NoError(t, err)
	assert.Empty(t, Failed(results))
	assert.Equal(t, "", results[len(results)-1].Entry.Path())
	assert.NoDirExists(t, root)
}

func TestCompareAndCopy(t *testing.T) {
	for _, cmp := range []checksum.Mode{checksum.Fast, checksum.Secure} {
		t.Run(cmp.String(), func(t *testing.T) {
			src, dest := t.TempDir(), t.TempDir()
			same := writeFile(t, src, "same.txt", "abcd")
			writeFile(t, dest, "same.txt", "abcd")
			diff := writeFile(t, src, "diff.txt", "abcd")
			writeFile(t, dest, "diff.txt", "abce")

			counter := &progress.Counter{}
			results, err := New(WithProgress(counter)).CompareAndCopy(context.Background(), []entry.File{same, diff}, src, dest, cmp, Parallel)
			require.NoError(t, err)

			var stats Stats
			UpdateStats(&stats, results)
			assert.Equal(t, int64(1), stats.Skipped)
			assert.Equal(t, int64(1), stats.Copied)
			assert.Equal(t, "abcd", readFile(t, filepath.Join(dest, "diff.txt")))
			assert.Equal(t, int64(4), counter.Current())
		})
	}
}

func TestDryRun(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	f := writeFile(t, src, "a.txt", "a")
	old := writeFile(t, dest, "old.txt", "o")

	e := New(WithDryRun(true))
	copied, err := e.CopyMany(context.Background(), []entry.Entry{f, entry.NewDir("d")}, src, dest, Parallel)
	require.NoError(t, err)
	deleted, err := e.DeleteMany(context.Background(), []entry.Entry{old}, dest, Parallel)
	require.NoError(t, err)

	var stats Stats
	UpdateStats(&stats, append(copied, deleted...))
	assert.Equal(t, int64(2), stats.Copied)
	assert.Equal(t, int64(1), stats.Deleted)
	assert.NoFileExists(t, filepath.Join(dest, "a.txt"))
	assert.NoDirExists(t, filepath.Join(dest, "d"))
	assert.FileExists(t, filepath.Join(dest, "old.txt"))
}

func TestCancelledContext(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	f := writeFile(t, src, "a.txt", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, mode := range []Mode{Parallel, Sequential} {
		results, err := New().CopyMany(ctx, []entry.Entry{f}, src, dest, mode)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, results)
	}
	assert.NoFileExists(t, filepath.Join(dest, "a.txt"))
}

package syncer

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// tree describes a directory: "dir/" keys are directories, "@target" values
// are symlinks, anything else is file content.
type tree map[string]string

func build(t *testing.T, root string, layout tree) {
	t.Helper()
	for rel, v := range layout {
		path := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(rel, "/")))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		switch {
		case strings.HasSuffix(rel, "/"):
			require.NoError(t, os.MkdirAll(path, 0755))
		case strings.HasPrefix(v, "@"):
			require.NoError(t, os.Symlink(strings.TrimPrefix(v, "@"), path))
		default:
			require.NoError(t, os.WriteFile(path, []byte(v), 0644))
		}
	}
}

// snapshot reads a directory back into the tree format used by build.
func snapshot(t *testing.T, root string) tree {
	t.Helper()
	out := tree{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		rel = filepath.ToSlash(rel)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			require.NoError(t, err)
			out[rel] = "@" + target
		case d.IsDir():
			out[rel+"/"] = ""
		default:
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			out[rel] = string(data)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func skipWithoutSymlinks(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
}

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Error(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

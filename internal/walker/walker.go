package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuya-takeyama/lms/pkg/entry"
	"github.com/yuya-takeyama/lms/pkg/logger"
)

// ErrNotDirectory is returned when the scan root exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Walker scans a directory tree into an entry.Collection
type Walker struct {
	root     string
	excludes []string
	log      logger.Logger
}

// NewWalker validates root and creates a walker for it
func NewWalker(root string, excludes []string, log logger.Logger) (*Walker, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s: %w", absRoot, ErrNotDirectory)
	}

	// WalkDir does not descend into a symlinked root
	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(strings.TrimSuffix(pattern, "/")) {
			return nil, fmt.Errorf("invalid exclude pattern: %q", pattern)
		}
	}

	return &Walker{
		root:     resolved,
		excludes: excludes,
		log:      logger.OrNull(log),
	}, nil
}

// Root returns the resolved absolute root
func (w *Walker) Root() string {
	return w.root
}

// Walk scans the tree. Only a failure to read the root itself is returned;
// anything below it that cannot be read is logged and skipped.
func (w *Walker) Walk() (*entry.Collection, error) {
	c := entry.NewCollection()

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == w.root {
				return err
			}
			w.log.Error("read entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == w.root {
			return nil
		}

		relPath, err := filepath.Rel(w.root, path)
		if err != nil {
			w.log.Error("get relative path", "path", path, "error", err)
			return nil
		}

		if w.isExcluded(filepath.ToSlash(relPath)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch mode := d.Type(); {
		case mode.IsDir():
			c.AddDir(entry.NewDir(relPath))
		case mode.IsRegular():
			info, err := d.Info()
			if err != nil {
				w.log.Error("read metadata", "path", path, "error", err)
				return nil
			}
			c.AddFile(entry.NewFile(relPath, info.Size()))
		case mode&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				w.log.Error("read symlink", "path", path, "error", err)
				return nil
			}
			c.AddSymlink(entry.NewSymlink(relPath, target))
		default:
			w.log.Error("unsupported file type", "path", path, "mode", mode.String())
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	return c, nil
}

// Scan is a shorthand for NewWalker followed by Walk
func Scan(root string, excludes []string, log logger.Logger) (*entry.Collection, error) {
	w, err := NewWalker(root, excludes, log)
	if err != nil {
		return nil, err
	}
	return w.Walk()
}

// isExcluded checks if a path matches any exclude pattern
func (w *Walker) isExcluded(path string) bool {
	for _, pattern := range w.excludes {
		// Handle directory patterns (ending with /)
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			parts := strings.Split(path, "/")
			for i := 1; i <= len(parts); i++ {
				subPath := strings.Join(parts[:i], "/")
				if matched, _ := doublestar.Match(dirPattern, subPath); matched {
					return true
				}
			}
		} else if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

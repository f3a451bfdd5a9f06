package planner

import (
	"path/filepath"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/yuya-takeyama/lms/pkg/entry"
)

// ToCreate returns the entries present in src but absent from dest.
func ToCreate[T entry.Comparable](src, dest mapset.Set[T]) []T {
	return entry.SortByPath(src.Difference(dest).ToSlice())
}

// ToRemove returns the entries present in dest but absent from src.
func ToRemove[T entry.Comparable](src, dest mapset.Set[T]) []T {
	return entry.SortByPath(dest.Difference(src).ToSlice())
}

// ToCompare returns the entries present in both src and dest.
func ToCompare[T entry.Comparable](src, dest mapset.Set[T]) []T {
	return entry.SortByPath(src.Intersect(dest).ToSlice())
}

// Diff computes every partition between src and dest.
func Diff(src, dest *entry.Collection) Plan {
	return Plan{
		CreateDirs:     ToCreate(src.DirSet(), dest.DirSet()),
		RemoveDirs:     ToRemove(src.DirSet(), dest.DirSet()),
		CreateSymlinks: ToCreate(src.SymlinkSet(), dest.SymlinkSet()),
		RemoveSymlinks: ToRemove(src.SymlinkSet(), dest.SymlinkSet()),
		CreateFiles:    ToCreate(src.FileSet(), dest.FileSet()),
		RemoveFiles:    ToRemove(src.FileSet(), dest.FileSet()),
		CompareFiles:   ToCompare(src.FileSet(), dest.FileSet()),
	}
}

// Depth returns the number of components in a relative path. The empty path,
// which denotes the scan root, has depth 0.
func Depth(path string) int {
	path = filepath.ToSlash(filepath.Clean(path))
	if path == "." || path == "" {
		return 0
	}
	return strings.Count(strings.Trim(path, "/"), "/") + 1
}

// SortByDepth orders entries deepest first. Entries of equal depth keep no
// particular order.
func SortByDepth[T entry.Entry](entries []T) []T {
	sort.Slice(entries, func(i, j int) bool {
		return Depth(entries[i].Path()) > Depth(entries[j].Path())
	})
	return entries
}

// Replaced returns the directories in p.RemoveDirs that sit at, or below, a
// path about to be created as a file or symlink. They must be gone before
// the copy phase; the rest of p.RemoveDirs can wait for the final pass.
func (p Plan) Replaced() (replaced, rest []entry.Dir) {
	if len(p.RemoveDirs) == 0 {
		return nil, nil
	}

	created := mapset.NewThreadUnsafeSet[string]()
	for _, f := range p.CreateFiles {
		created.Add(f.Path())
	}
	for _, s := range p.CreateSymlinks {
		created.Add(s.Path())
	}

	for _, d := range p.RemoveDirs {
		if underAny(d.Path(), created) {
			replaced = append(replaced, d)
		} else {
			rest = append(rest, d)
		}
	}
	return replaced, rest
}

func underAny(path string, prefixes mapset.Set[string]) bool {
	for p := path; p != "." && p != string(filepath.Separator) && p != ""; p = filepath.Dir(p) {
		if prefixes.Contains(p) {
			return true
		}
	}
	return false
}

package planner

import "github.com/yuya-takeyama/lms/pkg/entry"

// Plan partitions a source and a destination collection per entry type.
// It is plain data: computing it touches no filesystem.
type Plan struct {
	CreateDirs []entry.Dir
	RemoveDirs []entry.Dir

	CreateSymlinks []entry.Symlink
	RemoveSymlinks []entry.Symlink

	CreateFiles  []entry.File
	RemoveFiles  []entry.File
	CompareFiles []entry.File
}

// Operations returns the number of progress steps executing the plan takes:
// one per copy or delete, two per comparison.
func (p Plan) Operations(noDelete bool) int64 {
	n := len(p.CreateDirs) + len(p.CreateSymlinks) + len(p.CreateFiles) + 2*len(p.CompareFiles)
	if !noDelete {
		n += len(p.RemoveDirs) + len(p.RemoveSymlinks) + len(p.RemoveFiles)
	}
	return int64(n)
}

// Empty reports whether the plan would neither create nor remove anything.
// Files in CompareFiles may still be overwritten when their content differs.
func (p Plan) Empty() bool {
	return len(p.CreateDirs) == 0 && len(p.RemoveDirs) == 0 &&
		len(p.CreateSymlinks) == 0 && len(p.RemoveSymlinks) == 0 &&
		len(p.CreateFiles) == 0 && len(p.RemoveFiles) == 0
}

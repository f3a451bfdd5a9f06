package entry

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Collection holds the files, directories and symlinks found under one scan
// root. It is filled by a single scan and treated as read-only afterwards.
type Collection struct {
	files    mapset.Set[File]
	dirs     mapset.Set[Dir]
	symlinks mapset.Set[Symlink]
}

// NewCollection creates an empty Collection.
func NewCollection() *Collection {
	return &Collection{
		files:    mapset.NewSet[File](),
		dirs:     mapset.NewSet[Dir](),
		symlinks: mapset.NewSet[Symlink](),
	}
}

// NewCollectionWith creates a Collection pre-populated with entries.
func NewCollectionWith(files []File, dirs []Dir, symlinks []Symlink) *Collection {
	return &Collection{
		files:    mapset.NewSet(files...),
		dirs:     mapset.NewSet(dirs...),
		symlinks: mapset.NewSet(symlinks...),
	}
}

func (c *Collection) AddFile(f File)       { c.files.Add(f) }
func (c *Collection) AddDir(d Dir)         { c.dirs.Add(d) }
func (c *Collection) AddSymlink(s Symlink) { c.symlinks.Add(s) }

// FileSet exposes the underlying file set for set algebra.
func (c *Collection) FileSet() mapset.Set[File] { return c.files }

// DirSet exposes the underlying directory set for set algebra.
func (c *Collection) DirSet() mapset.Set[Dir] { return c.dirs }

// SymlinkSet exposes the underlying symlink set for set algebra.
func (c *Collection) SymlinkSet() mapset.Set[Symlink] { return c.symlinks }

// Files returns the files sorted by path.
func (c *Collection) Files() []File { return SortByPath(c.files.ToSlice()) }

// Dirs returns the directories sorted by path.
func (c *Collection) Dirs() []Dir { return SortByPath(c.dirs.ToSlice()) }

// Symlinks returns the symlinks sorted by path.
func (c *Collection) Symlinks() []Symlink { return SortByPath(c.symlinks.ToSlice()) }

// Len returns the total number of entries of all kinds.
func (c *Collection) Len() int {
	return c.files.Cardinality() + c.dirs.Cardinality() + c.symlinks.Cardinality()
}

// SortByPath sorts items in place by relative path and returns them.
func SortByPath[T Entry](items []T) []T {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Path() < items[j].Path()
	})
	return items
}

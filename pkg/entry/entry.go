// Package entry models the filesystem objects tracked by a scan: regular
// files, directories and symbolic links, each keyed by its path relative to
// the scan root.
package entry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Kind identifies the variant of an Entry.
type Kind string

const (
	KindFile    Kind = "file"
	KindDir     Kind = "dir"
	KindSymlink Kind = "symlink"
)

// Entry is the capability shared by File, Dir and Symlink.
type Entry interface {
	Path() string
	Kind() Kind
	// Copy materializes the entry at dest. src is the absolute source path.
	Copy(src, dest string) error
	// Remove deletes the entry found at the absolute path.
	Remove(path string) error
}

// Comparable constrains set members: an Entry usable as a map key, whose
// struct equality is its identity.
type Comparable interface {
	comparable
	Entry
}

// File is a regular file. Two files are equal only when both path and size
// match, so a resized file never lands in the comparison set.
type File struct {
	RelPath string
	Size    int64
}

// NewFile creates a File entry.
func NewFile(relPath string, size int64) File {
	return File{RelPath: relPath, Size: size}
}

func (f File) Path() string { return f.RelPath }

func (f File) Kind() Kind { return KindFile }

func (f File) Copy(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create parent: %w", err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("write destination: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}

	return nil
}

func (f File) Remove(path string) error {
	return os.Remove(path)
}

// Dir is a directory. Directories carry no size; the path is the whole key.
type Dir struct {
	RelPath string
}

// NewDir creates a Dir entry. The empty path denotes the scan root.
func NewDir(relPath string) Dir {
	return Dir{RelPath: relPath}
}

func (d Dir) Path() string { return d.RelPath }

func (d Dir) Kind() Kind { return KindDir }

// Copy ensures the directory exists. It never fails on an existing directory.
func (d Dir) Copy(_, dest string) error {
	return os.MkdirAll(dest, 0o755)
}

// Remove deletes an empty directory.
func (d Dir) Remove(path string) error {
	return os.Remove(path)
}

// Symlink is a symbolic link. A link whose target changed is a different
// entry: links are recreated, never edited.
type Symlink struct {
	RelPath string
	Target  string
}

// NewSymlink creates a Symlink entry.
func NewSymlink(relPath, target string) Symlink {
	return Symlink{RelPath: relPath, Target: target}
}

func (s Symlink) Path() string { return s.RelPath }

func (s Symlink) Kind() Kind { return KindSymlink }

// Copy creates a link at dest pointing at the recorded target verbatim.
func (s Symlink) Copy(_, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create parent: %w", err)
	}
	return os.Symlink(s.Target, dest)
}

func (s Symlink) Remove(path string) error {
	return os.Remove(path)
}

// Resolve joins root and the entry path. The empty path resolves to root.
func Resolve(root string, e Entry) string {
	if e.Path() == "" {
		return root
	}
	return filepath.Join(root, e.Path())
}

// Entries converts a typed slice into a slice of the Entry interface.
func Entries[T Entry](items []T) []Entry {
	out := make([]Entry, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

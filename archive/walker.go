// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk, dir gives access to every file of the archive so documents could
// reach resources they reference. If an error is returned, processing stops.
type WalkFunc func(archive string, dir *Dir, file *zip.File) error

// Dir indexes regular files of an opened archive by cleaned name.
type Dir struct {
	files map[string]*zip.File
}

func newDir(files []*zip.File) *Dir {
	d := &Dir{files: make(map[string]*zip.File, len(files))}
	for _, f := range files {
		if !f.FileInfo().IsDir() {
			d.files[path.Clean(f.Name)] = f
		}
	}
	return d
}

// ReadFile returns content of the named file. Name is slash separated and
// relative to archive root, names escaping the root are rejected.
func (d *Dir) ReadFile(name string) ([]byte, error) {
	name = path.Clean(strings.TrimPrefix(name, "./"))
	if !isSafePath(name) {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrPermission)
	}
	f, ok := d.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Walk walks all files in the archive with names starting with pattern, in
// natural order of names, calling walkFn for each item. Archives having
// entries with path traversal components ("..") or absolute paths are
// rejected to prevent Zip Slip attacks.
func Walk(archive, pattern string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
	}

	files := slices.Clone(r.File)
	slices.SortStableFunc(files, func(a, b *zip.File) int {
		switch {
		case natural.Less(a.Name, b.Name):
			return -1
		case natural.Less(b.Name, a.Name):
			return 1
		}
		return 0
	})

	dir := newDir(files)
	for _, f := range files {
		if f.FileInfo().IsDir() || !strings.HasPrefix(f.Name, pattern) {
			continue
		}
		if err := walkFn(archive, dir, f); err != nil {
			return err
		}
	}
	return nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

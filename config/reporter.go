package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/multierr"

	"hdoc/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When destination cannot be created report
// goes to temporary directory, see Report.Name.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{entries: make(map[string]entry), file: f}, nil
}

type entry struct {
	original string
	actual   string
	stamp    time.Time
	data     []byte
	// scratch is temporary directory with a copy owned by the report
	scratch string
}

// Report accumulates inputs, logs and element dumps of a run to be packed
// into single archive when program ends. All methods are no-ops on nil
// report, so callers do not have to check whether report was requested.
// Not safe for concurrent use.
type Report struct {
	entries map[string]entry
	file    *os.File
}

// Close writes the archive. Temporary copies made by StoreCopy are removed
// after they have been archived.
func (r *Report) Close() (err error) {
	if r == nil || r.file == nil {
		return nil
	}
	defer func() {
		err = multierr.Combine(err, r.file.Close(), r.cleanup())
	}()
	return r.finalize()
}

func (r *Report) cleanup() (err error) {
	for _, e := range r.entries {
		if e.scratch != "" {
			err = multierr.Append(err, os.RemoveAll(e.scratch))
		}
	}
	return err
}

// Name returns name of the archive being written.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// add puts entry under name, adding timestamp suffix when name is taken by
// a different entry.
func (r *Report) add(name string, e entry) {
	if old, exists := r.entries[name]; exists {
		if e.data == nil && e.scratch == "" && old.original == e.original {
			return
		}
		if e.stamp.IsZero() {
			e.stamp = time.Now()
		}
		name = fmt.Sprintf("%s-%d", name, e.stamp.UnixNano())
	}
	r.entries[name] = e
}

// Store remembers file or directory to be archived as it is when report is
// closed.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	e := entry{original: path, actual: path}
	if p, err := filepath.Abs(path); err == nil {
		e.actual = p
	}
	r.add(name, e)
}

// StoreData archives data as a file with requested name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if data == nil {
		data = []byte{}
	}
	r.add(name, entry{data: data, stamp: time.Now()})
}

// StoreCopy archives file or directory as it is now: content is copied to
// temporary location right away. Repeated names are versioned.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}
	src, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir, err := os.MkdirTemp("", misc.GetAppName()+"-r-")
	if err != nil {
		return err
	}
	actual, err := copyTree(dir, src)
	if err != nil {
		os.RemoveAll(dir)
		return err
	}
	r.add(name, entry{original: path, actual: actual, stamp: time.Now(), scratch: dir})
	return nil
}

// walkRegular calls fn for every regular file under root with its path
// relative to root. Links, sockets and other special files are skipped.
func walkRegular(root string, fn func(rel, path string, mod time.Time) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return fn(rel, path, info.ModTime())
	})
}

// copyTree copies file or directory src into dir and returns path of the
// copy.
func copyTree(dir, src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	if info.Mode().IsRegular() {
		dst := filepath.Join(dir, filepath.Base(src))
		return dst, copyFile(dst, src, info.ModTime())
	}
	return dir, walkRegular(src, func(rel, path string, mod time.Time) error {
		return copyFile(filepath.Join(dir, rel), path, mod)
	})
}

func copyFile(dst, src string, mod time.Time) (err error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err == nil {
		err = out.Sync()
	}
	if err = multierr.Append(err, out.Close()); err != nil {
		return err
	}
	return os.Chtimes(dst, mod, mod)
}

// finalize writes manifest followed by all stored entries in manifest order.
// Entries which disappeared since they were stored are skipped.
func (r *Report) finalize() error {
	arc := zip.NewWriter(r.file)

	names, manifest := prepareManifest(r.entries)
	err := saveFile(arc, "MANIFEST", time.Now(), manifest)
	for _, name := range names {
		if err != nil {
			break
		}
		err = saveEntry(arc, name, r.entries[name])
	}
	return multierr.Append(err, arc.Close())
}

func saveEntry(arc *zip.Writer, name string, e entry) error {
	if e.data != nil {
		return saveFile(arc, name, e.stamp, bytes.NewReader(e.data))
	}
	info, err := os.Stat(e.actual)
	switch {
	case err != nil:
		return nil
	case info.Mode().IsRegular():
		return saveLocalFile(arc, name, e.actual, info.ModTime())
	case info.IsDir():
		return walkRegular(e.actual, func(rel, path string, mod time.Time) error {
			return saveLocalFile(arc, filepath.ToSlash(filepath.Join(name, rel)), path, mod)
		})
	}
	return nil
}

// prepareManifest lists entries in natural order, so numbered entries like
// "doc-2" go before "doc-10".
func prepareManifest(entries map[string]entry) ([]string, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	names := make([]string, 0, len(entries))
	for k := range entries {
		names = append(names, k)
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})

	now := time.Now()
	for _, k := range names {
		e := entries[k]
		if e.stamp.IsZero() {
			e.stamp = now
		}
		fmt.Fprintf(buf, "%s\t%s\t%s : %s\n", e.stamp.UTC().Format(time.UnixDate), k, e.original, e.actual)
	}
	return names, buf
}

func saveLocalFile(arc *zip.Writer, name, path string, mod time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return saveFile(arc, name, mod, f)
}

func saveFile(arc *zip.Writer, name string, mod time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: mod})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestReport(t *testing.T) (*Report, string) {
	t.Helper()
	name := filepath.Join(t.TempDir(), "report.zip")
	r, err := (&ReporterConfig{Destination: name}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	return r, name
}

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func TestReport_Content(t *testing.T) {
	r, name := newTestReport(t)

	input := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(input, []byte("<p>x</p>"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r.Store("doc-10/source.html", input)
	r.StoreData("doc-2/tree.txt", []byte("Paragraph"))
	if err := r.StoreCopy("doc-1/copy.html", input); err != nil {
		t.Fatalf("StoreCopy() error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	files := readArchive(t, name)
	if files["doc-10/source.html"] != "<p>x</p>" {
		t.Errorf("stored file content = %q", files["doc-10/source.html"])
	}
	if files["doc-2/tree.txt"] != "Paragraph" {
		t.Errorf("stored data content = %q", files["doc-2/tree.txt"])
	}
	if files["doc-1/copy.html"] != "<p>x</p>" {
		t.Errorf("stored copy content = %q", files["doc-1/copy.html"])
	}

	lines := strings.Split(strings.TrimSpace(files["MANIFEST"]), "\n")
	if len(lines) != 3 {
		t.Fatalf("manifest has %d lines, want 3:\n%s", len(lines), files["MANIFEST"])
	}
	for i, want := range []string{"doc-1/copy.html", "doc-2/tree.txt", "doc-10/source.html"} {
		if !strings.Contains(lines[i], "\t"+want+"\t") {
			t.Errorf("manifest line %d = %q, want entry %s", i, lines[i], want)
		}
	}

	if _, err := os.Stat(input); err != nil {
		t.Errorf("stored file must survive Close: %v", err)
	}
}

func TestReportClose_RemovesCopies(t *testing.T) {
	r, _ := newTestReport(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.css"), []byte("p{}"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := r.StoreCopy("styles", dir); err != nil {
		t.Fatalf("StoreCopy() error: %v", err)
	}
	scratch := r.entries["styles"].scratch
	if scratch == "" {
		t.Fatal("copy has no scratch directory")
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		os.RemoveAll(scratch)
		t.Errorf("expected scratch directory to be removed")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("original directory must survive Close: %v", err)
	}
}

func TestReport_StoreCopyVersioning(t *testing.T) {
	r, _ := newTestReport(t)
	defer r.Close()

	input := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(input, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	for range 2 {
		if err := r.StoreCopy("log", input); err != nil {
			t.Fatalf("StoreCopy() error: %v", err)
		}
	}
	if len(r.entries) != 2 {
		t.Errorf("expected versioned entries, got %d", len(r.entries))
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	r.Store("x", "y")
	r.StoreData("x", nil)
	if r.Name() != "" {
		t.Errorf("Name() on nil report = %q", r.Name())
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}

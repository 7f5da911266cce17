package convert

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

// TestIsArchiveFile tests archive file detection
func TestIsArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()

	// Test non-zip extension
	t.Run("non-zip extension", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "test.txt")
		if err := os.WriteFile(filePath, []byte("not a zip"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got != false {
			t.Errorf("isArchiveFile() = %v, want false", got)
		}
	})

	// Test zip extension but invalid content
	t.Run("zip extension but invalid content", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "test.zip")
		if err := os.WriteFile(filePath, []byte("not a real zip file"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got != false {
			t.Errorf("isArchiveFile() = %v, want false", got)
		}
	})

	// Test valid zip file - using actual zip creation
	t.Run("valid zip file via zip package", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "test2.zip")
		zipFile, err := os.Create(filePath)
		if err != nil {
			t.Fatalf("Failed to create zip file: %v", err)
		}
		w := zip.NewWriter(zipFile)
		f, err := w.Create("test.txt")
		if err != nil {
			t.Fatalf("Failed to create file in zip: %v", err)
		}
		content := make([]byte, 300)
		f.Write(content)
		w.Close()
		zipFile.Close()

		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if !got {
			t.Error("isArchiveFile() = false, want true")
		}
	})
}

// TestIsArchiveFile_NonExistent tests with non-existent file
func TestIsArchiveFile_NonExistent(t *testing.T) {
	_, err := isArchiveFile("/nonexistent/file.zip")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

// TestDetectUTF tests UTF encoding detection
func TestDetectUTF(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want srcEncoding
	}{
		{
			name: "UTF-8 BOM",
			buf:  []byte{0xEF, 0xBB, 0xBF, 0x00},
			want: encUTF8,
		},
		{
			name: "UTF-16 Big Endian BOM",
			buf:  []byte{0xFE, 0xFF, 0x00, 0x00},
			want: encUTF16BigEndian,
		},
		{
			name: "UTF-16 Little Endian BOM",
			buf:  []byte{0xFF, 0xFE, 0x01, 0x00}, // Different from UTF-32LE
			want: encUTF16LittleEndian,
		},
		{
			name: "UTF-32 Big Endian BOM",
			buf:  []byte{0x00, 0x00, 0xFE, 0xFF},
			want: encUTF32BigEndian,
		},
		{
			name: "UTF-32 Little Endian BOM",
			buf:  []byte{0xFF, 0xFE, 0x00, 0x00},
			want: encUTF32LittleEndian,
		},
		{
			name: "No BOM",
			buf:  []byte{0x00, 0x01, 0x02, 0x03},
			want: encUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectUTF(tt.buf)
			if got != tt.want {
				t.Errorf("detectUTF() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestBOMDetectionFunctions tests individual BOM detection functions
func TestBOMDetectionFunctions(t *testing.T) {
	t.Run("isUTF8BOM3", func(t *testing.T) {
		if !isUTF8BOM3([]byte{0xEF, 0xBB, 0xBF}) {
			t.Error("Expected true for UTF-8 BOM")
		}
		if isUTF8BOM3([]byte{0x00, 0x00, 0x00}) {
			t.Error("Expected false for non-BOM")
		}
	})

	t.Run("isUTF16BigEndianBOM2", func(t *testing.T) {
		if !isUTF16BigEndianBOM2([]byte{0xFE, 0xFF}) {
			t.Error("Expected true for UTF-16 BE BOM")
		}
		if isUTF16BigEndianBOM2([]byte{0xFF, 0xFE}) {
			t.Error("Expected false for UTF-16 LE BOM")
		}
	})

	t.Run("isUTF16LittleEndianBOM2", func(t *testing.T) {
		if !isUTF16LittleEndianBOM2([]byte{0xFF, 0xFE}) {
			t.Error("Expected true for UTF-16 LE BOM")
		}
		if isUTF16LittleEndianBOM2([]byte{0xFE, 0xFF}) {
			t.Error("Expected false for UTF-16 BE BOM")
		}
	})

	t.Run("isUTF32BigEndianBOM4", func(t *testing.T) {
		if !isUTF32BigEndianBOM4([]byte{0x00, 0x00, 0xFE, 0xFF}) {
			t.Error("Expected true for UTF-32 BE BOM")
		}
		if isUTF32BigEndianBOM4([]byte{0xFF, 0xFE, 0x00, 0x00}) {
			t.Error("Expected false for UTF-32 LE BOM")
		}
	})

	t.Run("isUTF32LittleEndianBOM4", func(t *testing.T) {
		if !isUTF32LittleEndianBOM4([]byte{0xFF, 0xFE, 0x00, 0x00}) {
			t.Error("Expected true for UTF-32 LE BOM")
		}
		if isUTF32LittleEndianBOM4([]byte{0x00, 0x00, 0xFE, 0xFF}) {
			t.Error("Expected false for UTF-32 BE BOM")
		}
	})
}

var testExtensions = []string{".html", ".htm", ".xhtml"}

const testPage = `<html><head><title>Test</title></head>
<body><h1>Heading</h1><p>Some <b>bold</b> text.</p></body></html>`

func TestHasExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"page.html", true},
		{"page.HTM", true},
		{"dir/page.xhtml", true},
		{"page.txt", false},
		{"page", false},
		{"html", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasExtension(tt.name, testExtensions); got != tt.want {
				t.Errorf("hasExtension(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLooksLikeMarkup(t *testing.T) {
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(testPage))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	tests := []struct {
		name   string
		header []byte
		want   bool
	}{
		{"html", []byte(testPage), true},
		{"fragment", []byte("text before <p>para</p>"), true},
		{"utf16 html", utf16, true},
		{"plain text", []byte("just some text"), false},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, '<'}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksLikeMarkup(tt.header); got != tt.want {
				t.Errorf("looksLikeMarkup() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDocumentFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		content  []byte
		wantDoc  bool
		wantEnc  srcEncoding
	}{
		{
			name:     "html file",
			filename: "page.html",
			content:  []byte(testPage),
			wantDoc:  true,
			wantEnc:  encUnknown,
		},
		{
			name:     "html with UTF-8 BOM",
			filename: "page-bom.html",
			content:  append([]byte{0xEF, 0xBB, 0xBF}, testPage...),
			wantDoc:  true,
			wantEnc:  encUTF8,
		},
		{
			name:     "uppercase extension",
			filename: "PAGE.HTM",
			content:  []byte(testPage),
			wantDoc:  true,
			wantEnc:  encUnknown,
		},
		{
			name:     "wrong extension",
			filename: "page.txt",
			content:  []byte(testPage),
			wantDoc:  false,
			wantEnc:  encUnknown,
		},
		{
			name:     "html extension without markup",
			filename: "empty.html",
			content:  []byte("nothing here"),
			wantDoc:  false,
			wantEnc:  encUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filePath := filepath.Join(tmpDir, tt.filename)
			if err := os.WriteFile(filePath, tt.content, 0644); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			gotDoc, gotEnc, err := isDocumentFile(filePath, testExtensions)
			if err != nil {
				t.Fatalf("isDocumentFile() error = %v", err)
			}
			if gotDoc != tt.wantDoc {
				t.Errorf("isDocumentFile() doc = %v, want %v", gotDoc, tt.wantDoc)
			}
			if gotEnc != tt.wantEnc {
				t.Errorf("isDocumentFile() encoding = %v, want %v", gotEnc, tt.wantEnc)
			}
		})
	}
}

func TestIsDocumentFile_NonExistent(t *testing.T) {
	if _, _, err := isDocumentFile("/nonexistent/file.html", testExtensions); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestIsDocumentInArchive(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	for _, entry := range []struct {
		name string
		data []byte
	}{
		{"page.html", []byte(testPage)},
		{"notes.txt", []byte("not a document")},
		{"bom.xhtml", append([]byte{0xEF, 0xBB, 0xBF}, testPage...)},
	} {
		f, err := w.Create(entry.name)
		if err != nil {
			t.Fatalf("Failed to create file in zip: %v", err)
		}
		if _, err := f.Write(entry.data); err != nil {
			t.Fatalf("Failed to write to zip: %v", err)
		}
	}
	w.Close()
	zipFile.Close()

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("Failed to open zip: %v", err)
	}
	defer r.Close()

	tests := []struct {
		name    string
		fileIdx int
		wantDoc bool
		wantEnc srcEncoding
	}{
		{"html in archive", 0, true, encUnknown},
		{"text in archive", 1, false, encUnknown},
		{"xhtml with BOM in archive", 2, true, encUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotDoc, gotEnc, err := isDocumentInArchive(r.File[tt.fileIdx], testExtensions)
			if err != nil {
				t.Fatalf("isDocumentInArchive() error = %v", err)
			}
			if gotDoc != tt.wantDoc {
				t.Errorf("isDocumentInArchive() doc = %v, want %v", gotDoc, tt.wantDoc)
			}
			if gotEnc != tt.wantEnc {
				t.Errorf("isDocumentInArchive() encoding = %v, want %v", gotEnc, tt.wantEnc)
			}
		})
	}
}

func TestSelectReader(t *testing.T) {
	const text = "<p>Привет</p>"

	encode := func(t *testing.T, e interface{ Bytes([]byte) ([]byte, error) }) []byte {
		t.Helper()
		b, err := e.Bytes([]byte(text))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		return b
	}

	tests := []struct {
		name string
		data []byte
		enc  srcEncoding
		want string
	}{
		{"unknown", []byte(text), encUnknown, text},
		{"utf8 keeps BOM for source", append([]byte{0xEF, 0xBB, 0xBF}, text...), encUTF8, "\uFEFF" + text},
		{"utf16 big endian", encode(t, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()), encUTF16BigEndian, text},
		{"utf16 little endian", encode(t, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()), encUTF16LittleEndian, text},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(selectReader(bytes.NewReader(tt.data), tt.enc))
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("selectReader() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectReader_UTF32(t *testing.T) {
	// U+0041 'A' in UTF-32 little endian with BOM
	data := []byte{0xFF, 0xFE, 0x00, 0x00, 0x41, 0x00, 0x00, 0x00}
	got, err := io.ReadAll(selectReader(bytes.NewReader(data), detectUTF(data)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "A" {
		t.Errorf("selectReader() = %q, want %q", got, "A")
	}
}

func TestSrcEncoding(t *testing.T) {
	encodings := []srcEncoding{
		encUnknown,
		encUTF8,
		encUTF16BigEndian,
		encUTF16LittleEndian,
		encUTF32BigEndian,
		encUTF32LittleEndian,
	}

	seen := make(map[srcEncoding]bool)
	for _, enc := range encodings {
		if seen[enc] {
			t.Errorf("Duplicate encoding value: %v", enc)
		}
		seen[enc] = true
	}
}

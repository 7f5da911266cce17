package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hdoc/source"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	doc := cfg.Document
	if doc.Tokenizer != source.KindHtml {
		t.Errorf("Tokenizer = %v, want html", doc.Tokenizer)
	}
	if doc.Sink != SinkModeBatch {
		t.Errorf("Sink = %v, want batch", doc.Sink)
	}
	if len(doc.Extensions) == 0 {
		t.Error("Extensions should not be empty")
	}
	if doc.Images.JPEGQuality < 40 || doc.Images.JPEGQuality > 100 {
		t.Errorf("JPEGQuality = %d, should be between 40 and 100", doc.Images.JPEGQuality)
	}
	if doc.Images.RemoteTimeout != 30*time.Second {
		t.Errorf("RemoteTimeout = %v, want 30s", doc.Images.RemoteTimeout)
	}
	if !doc.Images.UseBroken {
		t.Error("UseBroken should be enabled by default")
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
document:
  tokenizer: XHTML
  sink: incremental
  base_url: https://example.com/pages/
  tags:
    center: div
    blink: unknown
  styles:
    tags:
      p:
        size: "10"
    classes:
      note:
        i: ""
  images:
    scale_factor: 1.5
    max_width: 600
    remote_timeout: 5s
    jpeg_quality_level: 70
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	doc := cfg.Document
	if doc.Tokenizer != source.KindXhtml {
		t.Errorf("Tokenizer = %v, want xhtml", doc.Tokenizer)
	}
	if !doc.Sink.Incremental() {
		t.Errorf("Sink = %v, want incremental", doc.Sink)
	}
	if doc.Tags["center"] != "div" || doc.Tags["blink"] != "unknown" {
		t.Errorf("Tags = %v", doc.Tags)
	}
	if doc.Styles.Tags["p"]["size"] != "10" {
		t.Errorf("Styles.Tags = %v", doc.Styles.Tags)
	}
	if _, ok := doc.Styles.Classes["note"]["i"]; !ok {
		t.Errorf("Styles.Classes = %v", doc.Styles.Classes)
	}
	if doc.Images.ScaleFactor != 1.5 || doc.Images.MaxWidth != 600 || doc.Images.JPEGQuality != 70 {
		t.Errorf("Images = %+v", doc.Images)
	}
	if doc.Images.RemoteTimeout != 5*time.Second {
		t.Errorf("RemoteTimeout = %v, want 5s", doc.Images.RemoteTimeout)
	}
	// values absent from the file keep defaults
	if len(doc.Extensions) == 0 || !doc.Images.UseBroken {
		t.Errorf("defaults were lost: %+v", doc)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("console level = %q", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\ndocument:\n  sink: batch\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"bad enum", "version: 1\ndocument:\n  sink: sometimes\n"},
		{"bad quality", "version: 1\ndocument:\n  images:\n    jpeg_quality_level: 5\n"},
		{"bad base url", "version: 1\ndocument:\n  base_url: not a url\n"},
		{"negative scale", "version: 1\ndocument:\n  images:\n    scale_factor: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if err := decodeInto(&Config{}, data, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
	// output name template must survive template expansion untouched
	if !strings.Contains(string(data), "output_name_template") {
		t.Error("output_name_template is missing from prepared configuration")
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Document.Tokenizer = source.KindXhtml
	cfg.Document.Sink = SinkModeIncremental

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	for _, want := range []string{"tokenizer: xhtml", "sink: incremental", "remote_timeout: 30s"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("dump does not contain %q:\n%s", want, data)
		}
	}

	cfg2 := &Config{}
	if err := decodeInto(cfg2, data, false); err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Document.Tokenizer != source.KindXhtml || cfg2.Document.Sink != SinkModeIncremental {
		t.Errorf("enums lost in dump/load: %v %v", cfg2.Document.Tokenizer, cfg2.Document.Sink)
	}
}

func TestSinkMode(t *testing.T) {
	tests := []struct {
		input string
		want  SinkMode
		err   bool
	}{
		{"batch", SinkModeBatch, false},
		{"Incremental", SinkModeIncremental, false},
		{"stream", SinkMode(0), true},
		{"", SinkMode(0), true},
	}
	for _, tt := range tests {
		got, err := ParseSinkMode(tt.input)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseSinkMode(%q) = %v, %v", tt.input, got, err)
		}
	}
	if s := SinkMode(7).String(); s != "SinkMode(7)" {
		t.Errorf("String() = %q", s)
	}
	if names := SinkModeNames(); len(names) != 2 || names[1] != "incremental" {
		t.Errorf("SinkModeNames() = %v", names)
	}
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a" + string(os.PathSeparator) + "b", "ab"},
		{"page:1", "page1"},
		{"tab\there", "tabhere"},
		{"..hidden", "hidden"},
		{"My Page", "My Page"},
		{string(os.PathSeparator), badFileName},
		{"  ", badFileName},
	}
	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package debug

import (
	"bytes"
	"strings"
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "test", nil, "test\n"},
		{"depth 2", 2, "double indent", nil, "    double indent\n"},
		{"with formatting", 1, "value: %d", []any{42}, "  value: 42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Fields(t *testing.T) {
	tw := NewTreeWriter().WithIndent("\t")
	tw.Fields(1, "Cell", "width", 30.0, "percent", true, "colspan", 0, "align", "center", "empty", "", "widths", []float64{30, 35, 35})
	tw.Fields(0, "Chunk", "anchor", "a b", "rise", -3.5)

	want := "\tCell width=30 percent=true align=center widths=[30 35 35]\n" +
		"Chunk anchor=\"a b\" rise=-3.5\n"
	if got := tw.String(); got != want {
		t.Fatalf("Fields() = %q, want %q", got, want)
	}
}

func TestTreeWriter_WriteTo(t *testing.T) {
	tw := NewTreeWriter()
	tw.TextBlock(0, "text", "a\tb")

	var buf bytes.Buffer
	n, err := tw.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error: %v", err)
	}
	if n != int64(buf.Len()) || buf.String() != "text: \"a\\tb\"\n" {
		t.Fatalf("WriteTo() wrote %d bytes: %q", n, buf.String())
	}
}

func TestEncodeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "simple text",
			input: "hello",
			want:  `"hello"`,
		},
		{
			name:  "with spaces",
			input: "hello world",
			want:  `"hello world"`,
		},
		{
			name:  "with quotes",
			input: `say "hi"`,
			want:  `"say \"hi\""`,
		},
		{
			name:  "with newline",
			input: "line1\nline2",
			want:  `"line1\nline2"`,
		},
		{
			name:  "with tab",
			input: "col1\tcol2",
			want:  `"col1\tcol2"`,
		},
		{
			name:  "with backslash",
			input: `path\to\file`,
			want:  `"path\\to\\file"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeText(tt.input)
			if got != tt.want {
				t.Errorf("encodeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_MultipleOperations(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "Root")
	tw.Line(1, "Child 1")
	tw.TextBlock(2, "field", "value")
	tw.Line(1, "Child 2")
	tw.TextBlock(1, "data", "test")

	got := tw.String()
	want := "Root\n  Child 1\n    field: \"value\"\n  Child 2\n  data: \"test\"\n"

	if got != want {
		t.Errorf("Multiple operations:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestTreeWriter_ComplexTree(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "Paragraph")
	tw.TextBlock(1, "Chunk", "before ")
	tw.Line(1, "Phrase")
	tw.TextBlock(2, "Chunk", "link text")
	tw.TextBlock(1, "Chunk", " after")

	result := tw.String()
	if !strings.HasPrefix(result, "Paragraph\n") {
		t.Error("Missing paragraph line")
	}
	if !strings.Contains(result, "  Chunk: \"before \"\n") {
		t.Error("Missing first chunk")
	}
	if !strings.Contains(result, "    Chunk: \"link text\"\n") {
		t.Error("Missing nested chunk")
	}
}

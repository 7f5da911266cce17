package markup

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newTestStyleSheet(t *testing.T) *StyleSheet {
	t.Helper()
	return NewStyleSheet(zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))))
}

func TestStyleSheet_ApplyPrecedence(t *testing.T) {
	s := newTestStyleSheet(t)
	s.LoadTagStyle("P", "align", "center")
	s.LoadTagStyle("p", "color", "#000000")
	s.LoadStyle("note", "color", "#00ff00")
	s.LoadStyle("note", "face", "Courier")

	in := NewAttrs("class", "note", "align", "left")
	out := s.Apply("p", in)

	if out["align"] != "left" {
		t.Errorf("markup attribute must win, align = %q", out["align"])
	}
	if out["color"] != "#000000" {
		t.Errorf("tag default must win over class default, color = %q", out["color"])
	}
	if out["face"] != "Courier" {
		t.Errorf("class default missing, face = %q", out["face"])
	}
	if len(in) != 2 {
		t.Errorf("input attributes modified: %v", in)
	}
}

func TestStyleSheet_LoadCSSRules(t *testing.T) {
	s := newTestStyleSheet(t)
	warnings := s.Load([]byte(`
		p { text-align: right }
		.big { font-size: 18pt }
		td.num { text-align: right; font-weight: bold }
		div > p { color: red }
	`), "test.css")
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v", warnings)
	}

	attrs := s.Apply("td", NewAttrs("class", "num big", "style", "font-weight: normal"))
	if !strings.HasSuffix(attrs["style"], "font-weight: normal") {
		t.Fatalf("inline style must come last: %q", attrs["style"])
	}

	s.ResolveStyleAttribute(attrs, nil)
	if attrs["size"] != "18pt" {
		t.Errorf("size = %q", attrs["size"])
	}
	if attrs["align"] != "right" {
		t.Errorf("align = %q", attrs["align"])
	}
	if attrs.Has("b") {
		t.Error("inline style must override rule from style sheet")
	}

	plain := s.Apply("span", NewAttrs())
	if plain.Has("style") {
		t.Errorf("unexpected style for span: %q", plain["style"])
	}
}

func TestStyleSheet_ResolveStyleAttribute(t *testing.T) {
	s := newTestStyleSheet(t)

	var chain *Chain
	chain = chain.Push("body", NewAttrs("size", "10pt"))

	attrs := NewAttrs("style", `font-family: "Times New Roman", serif; font-size: 1.5em; font-style: italic;
		font-weight: 700; text-decoration: underline line-through; color: rgb(255,0,0);
		background-color: navy; line-height: 150%; text-align: Justify; padding-left: 2em;
		margin-top: 6pt; margin-bottom: 0.5in; width: 40%; height: 20px; bogus: 1; : broken`)
	s.ResolveStyleAttribute(attrs, chain)

	want := map[string]string{
		"face":    `"Times New Roman", serif`,
		"size":    "15pt",
		"i":       "",
		"b":       "",
		"u":       "",
		"s":       "",
		"color":   "#ff0000",
		"bgcolor": "#000080",
		"leading": "0,1.5",
		"align":   "justify",
		"indent":  "30",
		"before":  "6",
		"after":   "36",
		"width":   "40%",
		"height":  "15",
	}
	for k, v := range want {
		got, ok := attrs[k]
		if !ok || got != v {
			t.Errorf("%s = %q (present %v), want %q", k, got, ok, v)
		}
	}
	if attrs.Has("bogus") {
		t.Error("unsupported property must be ignored")
	}
}

func TestStyleSheet_ResolveLineHeight(t *testing.T) {
	s := newTestStyleSheet(t)
	tests := []struct {
		style string
		want  string
	}{
		{"line-height: normal", "0,1.5"},
		{"line-height: 2", "0,2"},
		{"line-height: 18pt", "18,0"},
		{"line-height: 1.5em", "18,0"},
	}
	for _, tt := range tests {
		attrs := NewAttrs("style", tt.style)
		s.ResolveStyleAttribute(attrs, nil)
		if attrs["leading"] != tt.want {
			t.Errorf("%s: leading = %q, want %q", tt.style, attrs["leading"], tt.want)
		}
	}
}

func TestStyleSheet_ResolveWithoutStyle(t *testing.T) {
	s := newTestStyleSheet(t)
	attrs := NewAttrs("align", "left")
	s.ResolveStyleAttribute(attrs, nil)
	if len(attrs) != 1 {
		t.Fatalf("attributes changed: %v", attrs)
	}
}

// Package element defines document elements produced by the converter. The
// set of kinds is closed: code switching on concrete types is expected to be
// exhaustive.
package element

import (
	"image/color"
	"strings"
)

// Type identifies element kind.
type Type int

const (
	TypeChunk Type = iota
	TypePhrase
	TypeParagraph
	TypeList
	TypeListItem
	TypeTable
	TypeRow
	TypeCell
	TypeImage
	TypeLineSeparator
)

func (t Type) String() string {
	switch t {
	case TypeChunk:
		return "Chunk"
	case TypePhrase:
		return "Phrase"
	case TypeParagraph:
		return "Paragraph"
	case TypeList:
		return "List"
	case TypeListItem:
		return "ListItem"
	case TypeTable:
		return "Table"
	case TypeRow:
		return "Row"
	case TypeCell:
		return "Cell"
	case TypeImage:
		return "Image"
	case TypeLineSeparator:
		return "LineSeparator"
	default:
		return "Unknown"
	}
}

// Element is implemented by every document element.
type Element interface {
	Type() Type
}

// Container is an element which owns an ordered sequence of children. Add
// reports whether the child was accepted.
type Container interface {
	Element
	Add(Element) bool
}

// Alignment of blocks, cells and images.
type Alignment int

const (
	AlignUndefined Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustified
	AlignTop
	AlignMiddle
	AlignBottom
	AlignBaseline
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustified:
		return "justify"
	case AlignTop:
		return "top"
	case AlignMiddle:
		return "middle"
	case AlignBottom:
		return "bottom"
	case AlignBaseline:
		return "baseline"
	default:
		return "undefined"
	}
}

// ParseAlignment maps markup alignment values, unknown values are undefined.
func ParseAlignment(s string) Alignment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return AlignLeft
	case "center", "middle":
		return AlignCenter
	case "right":
		return AlignRight
	case "justify":
		return AlignJustified
	case "top":
		return AlignTop
	case "bottom":
		return AlignBottom
	case "baseline":
		return AlignBaseline
	}
	return AlignUndefined
}

// Font describes resolved character attributes of a chunk.
type Font struct {
	Family    string
	Encoding  string
	Size      float64 // points
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Color     *color.RGBA
}

// Leading is line spacing as fixed part plus multiple of font size.
type Leading struct {
	Fixed      float64
	Multiplied float64
}

// Total returns effective leading for the given font size.
func (l Leading) Total(size float64) float64 {
	return l.Fixed + l.Multiplied*size
}

// Chunk is the smallest run of text sharing the same font. A chunk may carry
// an inline image instead of text.
type Chunk struct {
	Content  string
	Font     Font
	Anchor   string  // hyperlink target
	TextRise float64 // positive for superscript, negative for subscript
	Newline  bool    // line break marker
	Image    *Image  // inline image
}

func (*Chunk) Type() Type { return TypeChunk }

// NewLine creates line break chunk.
func NewLine(f Font) *Chunk {
	return &Chunk{Content: "\n", Font: f, Newline: true}
}

// Phrase is an ordered sequence of inline elements.
type Phrase struct {
	Font     Font
	Leading  Leading
	Children []Element
}

func (*Phrase) Type() Type { return TypePhrase }

func (p *Phrase) Add(e Element) bool {
	if e == nil {
		return false
	}
	p.Children = append(p.Children, e)
	return true
}

// Chunks returns all chunks of the phrase in document order, descending into
// nested phrases and paragraphs.
func (p *Phrase) Chunks() []*Chunk {
	var out []*Chunk
	for _, c := range p.Children {
		switch v := c.(type) {
		case *Chunk:
			out = append(out, v)
		case *Phrase:
			out = append(out, v.Chunks()...)
		case *Paragraph:
			out = append(out, v.Chunks()...)
		case *ListItem:
			out = append(out, v.Chunks()...)
		}
	}
	return out
}

// IsEmpty reports whether phrase has no children.
func (p *Phrase) IsEmpty() bool {
	return len(p.Children) == 0
}

// Paragraph is a block of inline content.
type Paragraph struct {
	Phrase
	Alignment     Alignment
	IndentLeft    float64
	SpacingBefore float64
	SpacingAfter  float64
}

func (*Paragraph) Type() Type { return TypeParagraph }

// ListItem is a paragraph with a list symbol.
type ListItem struct {
	Paragraph
	Symbol     string
	SymbolFont Font
}

func (*ListItem) Type() Type { return TypeListItem }

// Numbering of ordered lists.
type Numbering int

const (
	NumberingNone Numbering = iota
	NumberingDecimal
	NumberingLowerAlpha
	NumberingUpperAlpha
	NumberingLowerRoman
	NumberingUpperRoman
)

// List is an ordered or unordered list of items. Nested lists are kept as
// children in document order together with items.
type List struct {
	Ordered    bool
	Numbering  Numbering
	Start      int
	Symbol     string
	IndentLeft float64
	AutoIndent bool
	Children   []Element
}

func (*List) Type() Type { return TypeList }

// Add accepts list items and nested lists only.
func (l *List) Add(e Element) bool {
	switch e.(type) {
	case *ListItem, *List:
		l.Children = append(l.Children, e)
		return true
	}
	return false
}

// Items returns direct list items.
func (l *List) Items() []*ListItem {
	var out []*ListItem
	for _, c := range l.Children {
		if li, ok := c.(*ListItem); ok {
			out = append(out, li)
		}
	}
	return out
}

// Image is either a block image or, wrapped into a chunk, an inline one.
type Image struct {
	Src           string
	Alt           string
	MimeType      string
	Data          []byte
	PixelWidth    int
	PixelHeight   int
	Width         float64 // scaled width in points
	Height        float64 // scaled height in points
	Alignment     Alignment
	SpacingBefore float64
	SpacingAfter  float64
}

func (*Image) Type() Type { return TypeImage }

// LineSeparator is a horizontal rule.
type LineSeparator struct {
	LineWidth  float64
	Percentage float64
	Color      *color.RGBA
	Alignment  Alignment
	Offset     float64
}

func (*LineSeparator) Type() Type { return TypeLineSeparator }

// Cell is a table cell holding block content.
type Cell struct {
	Header     bool
	Width      float64
	Percentage bool
	ColSpan    int
	RowSpan    int
	Alignment  Alignment
	VAlignment Alignment
	Border     float64
	Padding    float64
	Background *color.RGBA
	Content    []Element
}

func (*Cell) Type() Type { return TypeCell }

func (c *Cell) Add(e Element) bool {
	if e == nil {
		return false
	}
	c.Content = append(c.Content, e)
	return true
}

// Row is a table row with its computed column widths.
type Row struct {
	Cells  []*Cell
	Widths []float64
}

func (*Row) Type() Type { return TypeRow }

// Table holds rows. Widths reflect the last completed row.
type Table struct {
	Rows         []*Row
	Widths       []float64
	WidthPercent float64
	TotalWidth   float64
	LockedWidth  bool
	Alignment    Alignment
	Border       float64
	CellPadding  float64
	CellSpacing  float64
	Background   *color.RGBA
	SplitRows    bool
}

func (*Table) Type() Type { return TypeTable }

// Add accepts rows only, everything else is handled by cells.
func (t *Table) Add(e Element) bool {
	if r, ok := e.(*Row); ok {
		t.Rows = append(t.Rows, r)
		return true
	}
	return false
}

// Columns returns number of columns derived from the first row.
func (t *Table) Columns() int {
	if len(t.Rows) == 0 {
		return 1
	}
	n := 0
	for _, c := range t.Rows[0].Cells {
		n += max(c.ColSpan, 1)
	}
	return max(n, 1)
}

// Text returns concatenated text content of the element tree.
func Text(e Element) string {
	var sb strings.Builder
	writeText(&sb, e)
	return sb.String()
}

func writeText(sb *strings.Builder, e Element) {
	switch v := e.(type) {
	case *Chunk:
		sb.WriteString(v.Content)
	case *Phrase:
		for _, c := range v.Children {
			writeText(sb, c)
		}
	case *Paragraph:
		writeText(sb, &v.Phrase)
	case *ListItem:
		writeText(sb, &v.Phrase)
	case *List:
		for _, c := range v.Children {
			writeText(sb, c)
		}
	case *Cell:
		for _, c := range v.Content {
			writeText(sb, c)
		}
	case *Row:
		for _, c := range v.Cells {
			writeText(sb, c)
		}
	case *Table:
		for _, r := range v.Rows {
			writeText(sb, r)
		}
	case *Image, *LineSeparator, nil:
	}
}

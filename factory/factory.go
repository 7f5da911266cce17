// Package factory builds document elements from attributes resolved through
// the markup cascade.
package factory

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"hdoc/element"
	"hdoc/markup"
)

// BulletSymbol is list symbol of unordered lists.
const BulletSymbol = "•"

// DefaultLeading is used by paragraphs without (or with malformed) leading.
var DefaultLeading = element.Leading{Fixed: 0, Multiplied: 1.5}

// Factory creates elements. It keeps no state between calls besides the
// font provider.
type Factory struct {
	log   *zap.Logger
	fonts FontProvider
}

// New creates factory, nil font provider means DefaultFontProvider.
func New(log *zap.Logger, fonts FontProvider) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	if fonts == nil {
		fonts = NewDefaultFontProvider()
	}
	return &Factory{log: log.Named("factory"), fonts: fonts}
}

// SetFontProvider replaces font provider, nil is ignored.
func (f *Factory) SetFontProvider(fonts FontProvider) {
	if fonts != nil {
		f.fonts = fonts
	}
}

// Font resolves character attributes of the innermost scope. When provider
// cannot supply requested family, default family with the same attributes
// is returned together with the error.
func (f *Factory) Font(chain *markup.Chain) (element.Font, error) {
	req := element.Font{
		Size:      chain.FontSize(),
		Encoding:  "Cp1252",
		Bold:      chain.HasProperty(markup.KeyBold),
		Italic:    chain.HasProperty(markup.KeyItalic),
		Underline: chain.HasProperty(markup.KeyUnderline),
		Strike:    chain.HasProperty(markup.KeyStrike),
	}
	if v, ok := chain.Property(markup.KeyFace); ok && strings.TrimSpace(v) != "" {
		req.Family = selectFamily(f.fonts, v)
	}
	if v, ok := chain.Property(markup.KeyEncoding); ok && v != "" {
		req.Encoding = v
	}
	if v, ok := chain.Property(markup.KeyColor); ok {
		req.Color, _ = markup.DecodeColor(v)
	}

	font, err := f.fonts.Font(req)
	if err != nil {
		req.Family = DefaultFamily
		return req, err
	}
	return font, nil
}

func (f *Factory) font(chain *markup.Chain) element.Font {
	font, err := f.Font(chain)
	if err != nil {
		f.log.Debug("Font substituted", zap.String("family", font.Family), zap.Error(err))
	}
	return font
}

// Chunk creates text run, sub and sup scopes raise or lower text by half
// of the font size.
func (f *Factory) Chunk(content string, chain *markup.Chain) *element.Chunk {
	ck := &element.Chunk{Content: content, Font: f.font(chain)}
	switch {
	case chain.HasProperty(markup.KeySub):
		ck.TextRise = -ck.Font.Size / 2
	case chain.HasProperty(markup.KeySup):
		ck.TextRise = ck.Font.Size / 2
	}
	return ck
}

// NewLine creates line break run.
func (f *Factory) NewLine(chain *markup.Chain) *element.Chunk {
	return element.NewLine(f.font(chain))
}

// Paragraph creates empty paragraph with block properties of the chain.
func (f *Factory) Paragraph(chain *markup.Chain) *element.Paragraph {
	p := &element.Paragraph{}
	f.block(p, chain)
	return p
}

func (f *Factory) block(p *element.Paragraph, chain *markup.Chain) {
	p.Font = f.font(chain)
	p.Leading = Leading(chain)
	if v, ok := chain.Property(markup.KeyAlign); ok {
		p.Alignment = element.ParseAlignment(v)
	}
	if v, ok := chain.Property(markup.KeyIndent); ok {
		p.IndentLeft, _ = markup.ParseFloat(v)
	}
	if v, ok := chain.Property(markup.KeyBefore); ok {
		p.SpacingBefore, _ = markup.ParseFloat(v)
	}
	if v, ok := chain.Property(markup.KeyAfter); ok {
		p.SpacingAfter, _ = markup.ParseFloat(v)
	}
}

// Leading returns leading defined by the chain or DefaultLeading.
func Leading(chain *markup.Chain) element.Leading {
	v, ok := chain.Property(markup.KeyLeading)
	if !ok {
		return DefaultLeading
	}
	fixed, mult, ok := markup.ParseLeading(v)
	if !ok {
		return DefaultLeading
	}
	return element.Leading{Fixed: fixed, Multiplied: mult}
}

// List creates list for "ul" or "ol" tag. Numbering and start come from the
// list's own scope, indentation is inherited.
func (f *Factory) List(tag string, chain *markup.Chain) *element.List {
	l := &element.List{}
	own := chain.Attrs()
	if strings.EqualFold(tag, "ul") {
		l.Symbol = BulletSymbol
	} else {
		l.Ordered = true
		l.Numbering = element.ParseNumbering(own[markup.KeyType])
		l.Start = 1
		if v, ok := own[markup.KeyStart]; ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				l.Start = n
			}
		}
	}
	if v, ok := chain.Property(markup.KeyIndent); ok {
		if indent, ok := markup.ParseFloat(v); ok {
			l.IndentLeft = indent
			return l
		}
	}
	l.AutoIndent = true
	return l
}

// ListItem creates empty list item.
func (f *Factory) ListItem(chain *markup.Chain) *element.ListItem {
	li := &element.ListItem{}
	f.block(&li.Paragraph, chain)
	li.SymbolFont = li.Font
	return li
}

// LineSeparator creates horizontal rule from hr attributes. Width in
// absolute units is treated as full width.
func (f *Factory) LineSeparator(attrs markup.Attrs, offset float64) *element.LineSeparator {
	ls := &element.LineSeparator{LineWidth: 1, Percentage: 100, Alignment: element.AlignCenter, Offset: offset}
	if v, ok := attrs[markup.KeySize]; ok {
		if size, ok := markup.ParseLength(v, markup.DefaultFontSize); ok && size > 0 {
			ls.LineWidth = size
		}
	}
	if v, ok := attrs[markup.KeyWidth]; ok {
		if pct, ok := strings.CutSuffix(strings.TrimSpace(v), "%"); ok {
			if p, ok := markup.ParseFloat(pct); ok && p > 0 {
				ls.Percentage = p
			}
		}
	}
	if v, ok := attrs[markup.KeyColor]; ok {
		ls.Color, _ = markup.DecodeColor(v)
	}
	if v, ok := attrs[markup.KeyAlign]; ok {
		if a := element.ParseAlignment(v); a != element.AlignUndefined {
			ls.Alignment = a
		}
	}
	return ls
}

// Cell creates table cell. Width and spans are taken from the cell's own
// scope, presentation is inherited from table and row.
func (f *Factory) Cell(tag string, chain *markup.Chain) *element.Cell {
	own := chain.Attrs()
	c := &element.Cell{
		Header:     strings.EqualFold(tag, "th"),
		ColSpan:    1,
		RowSpan:    1,
		VAlignment: element.AlignMiddle,
	}
	if c.Header {
		c.Alignment = element.AlignCenter
	}
	if n, err := strconv.Atoi(strings.TrimSpace(own[markup.KeyColSpan])); err == nil && n > 0 {
		c.ColSpan = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(own[markup.KeyRowSpan])); err == nil && n > 0 {
		c.RowSpan = n
	}
	if v, ok := own[markup.KeyWidth]; ok {
		c.Width, c.Percentage = parseWidth(v, chain.FontSize())
	}
	if v, ok := chain.Property(markup.KeyAlign); ok {
		if a := element.ParseAlignment(v); a != element.AlignUndefined {
			c.Alignment = a
		}
	}
	if v, ok := chain.Property(markup.KeyVAlign); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "top":
			c.VAlignment = element.AlignTop
		case "bottom":
			c.VAlignment = element.AlignBottom
		case "baseline":
			c.VAlignment = element.AlignBaseline
		}
	}
	if v, ok := chain.Property(markup.KeyBorder); ok {
		c.Border, _ = markup.ParseFloat(v)
	}
	if v, ok := chain.Property(markup.KeyCellPadding); ok {
		c.Padding, _ = markup.ParseFloat(v)
	}
	if v, ok := chain.Property(markup.KeyBgColor); ok {
		c.Background, _ = markup.DecodeColor(v)
	}
	return c
}

// Table creates empty table from table tag attributes.
func (f *Factory) Table(attrs markup.Attrs) *element.Table {
	t := &element.Table{WidthPercent: 100, SplitRows: true}
	if v, ok := attrs[markup.KeyWidth]; ok {
		w, pct := parseWidth(v, markup.DefaultFontSize)
		switch {
		case pct && w > 0:
			t.WidthPercent = w
		case w > 0:
			t.WidthPercent = 0
			t.TotalWidth = w
			t.LockedWidth = true
		}
	}
	if v, ok := attrs[markup.KeyAlign]; ok {
		t.Alignment = element.ParseAlignment(v)
	}
	if v, ok := attrs[markup.KeyBorder]; ok {
		t.Border, _ = markup.ParseFloat(v)
	}
	if v, ok := attrs[markup.KeyCellPadding]; ok {
		t.CellPadding, _ = markup.ParseFloat(v)
	}
	if v, ok := attrs[markup.KeyCellSpacing]; ok {
		t.CellSpacing, _ = markup.ParseFloat(v)
	}
	if v, ok := attrs[markup.KeyBgColor]; ok {
		t.Background, _ = markup.DecodeColor(v)
	}
	return t
}

// ScaleImage applies width and height attributes (keeping aspect ratio when
// only one is given) and spacing of the chain to resolved image.
func (f *Factory) ScaleImage(img *element.Image, attrs markup.Attrs, chain *markup.Chain) {
	size := chain.FontSize()
	w, _ := markup.ParseLength(attrs[markup.KeyWidth], size)
	h, _ := markup.ParseLength(attrs[markup.KeyHeight], size)

	switch {
	case w > 0 && h > 0:
		img.Width, img.Height = w, h
	case w > 0 && img.Width > 0:
		img.Height = img.Height * w / img.Width
		img.Width = w
	case h > 0 && img.Height > 0:
		img.Width = img.Width * h / img.Height
		img.Height = h
	}
	if v, ok := chain.Property(markup.KeyBefore); ok {
		img.SpacingBefore, _ = markup.ParseFloat(v)
	}
	if v, ok := chain.Property(markup.KeyAfter); ok {
		img.SpacingAfter, _ = markup.ParseFloat(v)
	}
	if v, ok := attrs[markup.KeyAlt]; ok {
		img.Alt = v
	}
}

// parseWidth returns width and whether it is a percentage.
func parseWidth(v string, base float64) (float64, bool) {
	v = strings.TrimSpace(v)
	if pct, ok := strings.CutSuffix(v, "%"); ok {
		w, _ := markup.ParseFloat(pct)
		return w, true
	}
	w, _ := markup.ParseLength(v, base)
	return w, false
}

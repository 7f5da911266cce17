package element

import (
	"fmt"

	"hdoc/utils/debug"
)

// Dump renders elements as indented tree.
func Dump(elements ...Element) string {
	tw := debug.NewTreeWriter()
	for _, e := range elements {
		dump(tw, 0, e)
	}
	return tw.String()
}

func align(a Alignment) string {
	if a == AlignUndefined {
		return ""
	}
	return a.String()
}

func fontDesc(f Font) string {
	desc := f.Family
	if f.Bold {
		desc += ",bold"
	}
	if f.Italic {
		desc += ",italic"
	}
	if f.Underline {
		desc += ",underline"
	}
	if f.Strike {
		desc += ",strike"
	}
	return desc
}

func dump(tw *debug.TreeWriter, depth int, e Element) {
	switch v := e.(type) {
	case *Chunk:
		switch {
		case v.Image != nil:
			tw.Fields(depth, "Chunk", "image", v.Image.Src, "anchor", v.Anchor)
		case v.Newline:
			tw.Fields(depth, "Newline")
		default:
			tw.Fields(depth, "Chunk", "text", v.Content, "font", fontDesc(v.Font), "size", v.Font.Size,
				"color", colorDesc(v.Font), "anchor", v.Anchor, "rise", v.TextRise)
		}
	case *Phrase:
		tw.Fields(depth, "Phrase")
		dumpChildren(tw, depth+1, v.Children)
	case *Paragraph:
		tw.Fields(depth, "Paragraph", "align", align(v.Alignment), "indent", v.IndentLeft,
			"before", v.SpacingBefore, "after", v.SpacingAfter)
		dumpChildren(tw, depth+1, v.Children)
	case *ListItem:
		tw.Fields(depth, "ListItem", "symbol", v.Symbol, "align", align(v.Alignment))
		dumpChildren(tw, depth+1, v.Children)
	case *List:
		tw.Fields(depth, "List", "ordered", v.Ordered, "start", v.Start, "symbol", v.Symbol, "indent", v.IndentLeft)
		dumpChildren(tw, depth+1, v.Children)
	case *Table:
		tw.Fields(depth, "Table", "columns", v.Columns(), "widths", v.Widths, "width%", v.WidthPercent,
			"total", v.TotalWidth, "align", align(v.Alignment), "border", v.Border)
		for _, r := range v.Rows {
			dump(tw, depth+1, r)
		}
	case *Row:
		tw.Fields(depth, "Row", "widths", v.Widths)
		for _, c := range v.Cells {
			dump(tw, depth+1, c)
		}
	case *Cell:
		tw.Fields(depth, "Cell", "header", v.Header, "width", v.Width, "percent", v.Percentage,
			"colspan", v.ColSpan, "rowspan", v.RowSpan, "align", align(v.Alignment))
		dumpChildren(tw, depth+1, v.Content)
	case *Image:
		tw.Fields(depth, "Image", "src", v.Src, "type", v.MimeType, "px", pixels(v),
			"width", v.Width, "height", v.Height, "align", align(v.Alignment))
	case *LineSeparator:
		tw.Fields(depth, "LineSeparator", "line", v.LineWidth, "percent", v.Percentage,
			"align", align(v.Alignment), "offset", v.Offset)
	case nil:
		tw.Line(depth, "<nil>")
	}
}

func dumpChildren(tw *debug.TreeWriter, depth int, children []Element) {
	for _, c := range children {
		dump(tw, depth, c)
	}
}

func colorDesc(f Font) string {
	if f.Color == nil {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", f.Color.R, f.Color.G, f.Color.B)
}

func pixels(img *Image) string {
	if img.PixelWidth == 0 && img.PixelHeight == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", img.PixelWidth, img.PixelHeight)
}

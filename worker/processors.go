package worker

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"hdoc/element"
	"hdoc/factory"
	"hdoc/markup"
)

func (w *Worker) start(kind TagKind, tag string, attrs markup.Attrs) error {
	switch kind {
	case TagKindEmStrongEtc:
		tag = mapTag(tag)
		attrs[tag] = ""
		w.chain = w.chain.Push(tag, attrs)
	case TagKindAnchor:
		w.chain = w.chain.Push(tag, attrs)
		w.flushContent()
	case TagKindBreak:
		w.newLine()
	case TagKindListContainer:
		if err := w.carriageReturn(); err != nil {
			return err
		}
		if w.pendingLI {
			if err := w.endListItem(); err != nil {
				return err
			}
		}
		w.skipText = true
		w.chain = w.chain.Push(tag, attrs)
		w.push(w.factory.List(tag, w.chain))
	case TagKindRule:
		return w.rule(attrs)
	case TagKindSpan:
		w.chain = w.chain.Push(tag, attrs)
	case TagKindHeading:
		if err := w.carriageReturn(); err != nil {
			return err
		}
		if !attrs.Has(markup.KeySize) {
			if level, err := strconv.Atoi(tag[1:]); err == nil && level >= 1 && level <= 6 {
				attrs[markup.KeySize] = strconv.Itoa(7 - level)
			}
		}
		w.chain = w.chain.Push(tag, attrs)
	case TagKindListItem:
		if err := w.carriageReturn(); err != nil {
			return err
		}
		if w.pendingLI {
			if err := w.endListItem(); err != nil {
				return err
			}
		}
		w.skipText = false
		w.pendingLI = true
		w.chain = w.chain.Push(tag, attrs)
		w.push(w.factory.ListItem(w.chain))
	case TagKindPreformatted:
		if err := w.carriageReturn(); err != nil {
			return err
		}
		if !attrs.Has(markup.KeyFace) {
			attrs[markup.KeyFace] = "Courier"
		}
		w.chain = w.chain.Push(tag, attrs)
		w.insidePRE = true
	case TagKindDiv:
		if err := w.carriageReturn(); err != nil {
			return err
		}
		w.chain = w.chain.Push(tag, attrs)
	case TagKindTable:
		if err := w.carriageReturn(); err != nil {
			return err
		}
		w.push(w.factory.Table(attrs))
		w.tables = append(w.tables, tableState{pendingTR: w.pendingTR, pendingTD: w.pendingTD})
		w.pendingTR, w.pendingTD = false, false
		w.skipText = true
		// alignment applies to the table, not to its content
		delete(attrs, markup.KeyAlign)
		w.chain = w.chain.Push(tag, attrs)
	case TagKindRow:
		if err := w.carriageReturn(); err != nil {
			return err
		}
		if w.pendingTR {
			if err := w.endRow(tag); err != nil {
				return err
			}
		}
		w.skipText = true
		w.pendingTR = true
		w.chain = w.chain.Push(tag, attrs)
	case TagKindCell:
		if err := w.carriageReturn(); err != nil {
			return err
		}
		if w.pendingTD {
			if err := w.endCell(); err != nil {
				return err
			}
		}
		w.skipText = false
		w.pendingTD = true
		w.chain = w.chain.Push("td", attrs)
		w.push(w.factory.Cell(tag, w.chain))
	case TagKindImage:
		w.chain = w.chain.Push(tag, attrs)
		err := w.image(attrs)
		w.chain = w.chain.Pop(tag)
		return err
	case TagKindUnknown:
	}
	return nil
}

func (w *Worker) end(kind TagKind, tag string) error {
	switch kind {
	case TagKindEmStrongEtc:
		w.popScope(mapTag(tag))
	case TagKindAnchor:
		w.ensureParagraph()
		if lp := w.providers.LinkProcessor; lp == nil || !lp.Process(w.current, w.chain) {
			if href, ok := w.chain.Property(markup.KeyHref); ok {
				for _, ck := range w.current.Chunks() {
					ck.Anchor = href
				}
			}
		}
		w.mergeContent()
		w.popScope(tag)
	case TagKindBreak, TagKindRule, TagKindImage:
	case TagKindListContainer:
		if err := w.carriageReturn(); err != nil {
			return err
		}
		if w.pendingLI {
			if err := w.endListItem(); err != nil {
				return err
			}
		}
		w.skipText = false
		w.popScope(tag)
		return w.addList()
	case TagKindSpan:
		w.popScope(tag)
	case TagKindHeading, TagKindDiv:
		if err := w.carriageReturn(); err != nil {
			return err
		}
		w.popScope(tag)
	case TagKindListItem:
		return w.endListItem()
	case TagKindPreformatted:
		if err := w.carriageReturn(); err != nil {
			return err
		}
		w.popScope(tag)
		w.insidePRE = false
	case TagKindTable:
		return w.endTable(tag)
	case TagKindRow:
		return w.endRow(tag)
	case TagKindCell:
		return w.endCell()
	case TagKindUnknown:
	}
	return nil
}

func (w *Worker) endListItem() error {
	if err := w.carriageReturn(); err != nil {
		return err
	}
	w.pendingLI = false
	w.skipText = true
	w.popScope("li")
	return w.addListItem()
}

func (w *Worker) endCell() error {
	if err := w.carriageReturn(); err != nil {
		return err
	}
	w.pendingTD = false
	w.popScope("td")
	w.skipText = true
	return nil
}

func (w *Worker) endRow(tag string) error {
	if err := w.carriageReturn(); err != nil {
		return err
	}
	if w.pendingTD {
		if err := w.endCell(); err != nil {
			return err
		}
	}
	w.pendingTR = false
	w.popScope(tag)
	w.addRow()
	return nil
}

func (w *Worker) endTable(tag string) error {
	if err := w.carriageReturn(); err != nil {
		return err
	}
	if w.pendingTR {
		if err := w.endRow("tr"); err != nil {
			return err
		}
	}
	w.popScope(tag)
	return w.addTable()
}

// mapTag maps synonyms of character style tags to attribute keys.
func mapTag(tag string) string {
	switch tag {
	case "em":
		return markup.KeyItalic
	case "strong":
		return markup.KeyBold
	case "strike":
		return markup.KeyStrike
	}
	return tag
}

// rule closes pending paragraph and inserts horizontal line. Line is offset
// by half of the leading of the paragraph it follows.
func (w *Worker) rule(attrs markup.Attrs) error {
	var offset float64
	if w.current != nil {
		offset = w.current.Leading.Total(w.current.Font.Size) / 2
	} else {
		offset = factory.Leading(w.chain).Total(w.chain.FontSize()) / 2
	}
	if err := w.carriageReturn(); err != nil {
		return err
	}
	return w.attach(w.factory.LineSeparator(attrs, offset))
}

// image resolves and places image. Images which could not be resolved are
// skipped.
func (w *Worker) image(attrs markup.Attrs) error {
	img, err := w.createImage(attrs)
	if err != nil {
		w.log.Warn("Unable to load image", zap.String("src", attrs[markup.KeySrc]), zap.Error(err))
	}
	if img == nil {
		return nil
	}
	if ip := w.providers.ImageProcessor; ip != nil && ip.Process(img, attrs, w.chain, w.listener) {
		return nil
	}

	ck := w.factory.Chunk("", w.chain)
	ck.Image = img

	align, ok := attrs[markup.KeyAlign]
	if !ok {
		w.ensureParagraph()
		w.current.Add(ck)
		w.lastSpace = false
		return nil
	}

	if err := w.carriageReturn(); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(align)) {
	case "left":
		img.Alignment = element.AlignLeft
	case "right":
		img.Alignment = element.AlignRight
	default:
		img.Alignment = element.AlignCenter
	}
	p := w.factory.Paragraph(w.chain)
	p.Alignment = img.Alignment
	p.Add(ck)
	w.current = p
	return w.carriageReturn()
}

// createImage asks image provider, then image store and finally resolver.
// Image may be returned together with error when placeholder is used.
func (w *Worker) createImage(attrs markup.Attrs) (*element.Image, error) {
	src := strings.TrimSpace(attrs[markup.KeySrc])

	var img *element.Image
	if p := w.providers.ImageProvider; p != nil {
		var err error
		if img, err = p.Image(src, attrs, w.chain, w.listener); err != nil {
			return nil, err
		}
	}
	if img == nil && src != "" {
		if stored := w.providers.Images[src]; stored != nil {
			cp := *stored
			img = &cp
		}
	}

	var err error
	if img == nil {
		dir, _ := w.chain.Property(markup.KeyImagePath)
		if img, err = w.resolver.Resolve(w.ctx, src, dir); img == nil {
			return nil, err
		}
	}
	w.factory.ScaleImage(img, attrs, w.chain)
	return img, err
}

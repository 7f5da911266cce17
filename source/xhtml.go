package source

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"hdoc/markup"
)

// XHTML parses document as XML and walks the tree. Parsing is permissive and
// understands HTML named character references. Namespace prefixes are
// dropped from tag and attribute names.
func XHTML(ctx context.Context, r io.Reader, h Handler, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	o := newOptions(opts)

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Entity:        xml.HTMLEntity,
		ValidateInput: false,
		Permissive:    true,
	}
	if o.encoding != "" {
		rd, err := charset.NewReaderLabel(o.encoding, r)
		if err != nil {
			return fmt.Errorf("unable to decode xhtml: %w", err)
		}
		r = rd
		// input is already UTF-8, ignore declared encoding
		doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
			return input, nil
		}
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return fmt.Errorf("unable to read xhtml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return errors.New("unable to read xhtml: no root element")
	}

	f := &feeder{ctx: ctx, h: h}
	return f.run(func() error {
		return f.walk(root)
	})
}

func (f *feeder) walk(el *etree.Element) error {
	if err := f.check(); err != nil {
		return err
	}
	tag := strings.ToLower(el.Tag)
	if skipped[tag] {
		f.loadStyles(el)
		return nil
	}

	attrs := make(markup.Attrs, len(el.Attr))
	for _, a := range el.Attr {
		if a.Space == "xmlns" || a.Key == "xmlns" {
			continue
		}
		attrs[strings.ToLower(a.Key)] = a.Value
	}
	if err := f.h.StartElement(tag, attrs); err != nil {
		return err
	}
	for _, tok := range el.Child {
		switch c := tok.(type) {
		case *etree.Element:
			if err := f.walk(c); err != nil {
				return err
			}
		case *etree.CharData:
			if err := f.check(); err != nil {
				return err
			}
			if err := f.h.Text(c.Data); err != nil {
				return err
			}
		}
	}
	if err := f.check(); err != nil {
		return err
	}
	return f.h.EndElement(tag)
}

// loadStyles loads style sheets found anywhere in the skipped subtree, so
// styles from document head are not lost.
func (f *feeder) loadStyles(el *etree.Element) {
	if strings.EqualFold(el.Tag, "style") {
		f.loadStyle(el.Text(), "style")
		return
	}
	for _, c := range el.ChildElements() {
		f.loadStyles(c)
	}
}

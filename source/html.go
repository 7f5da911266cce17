package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"hdoc/markup"
)

// voids are HTML elements without end tag, end event is synthesized for them.
var voids = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// HTML tokenizes HTML document. Tag and attribute names are lower-cased and
// character references are decoded by tokenizer. Character set is detected
// from BOM and meta elements unless forced with WithEncoding.
func HTML(ctx context.Context, r io.Reader, h Handler, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	o := newOptions(opts)

	var (
		rd  io.Reader
		err error
	)
	if o.encoding != "" {
		rd, err = charset.NewReaderLabel(o.encoding, r)
	} else {
		rd, err = charset.NewReader(r, "text/html")
	}
	if err != nil {
		return fmt.Errorf("unable to decode html: %w", err)
	}

	f := &feeder{ctx: ctx, h: h}
	z := html.NewTokenizer(rd)
	return f.run(func() error {
		var style strings.Builder
		for {
			if err := f.check(); err != nil {
				return err
			}
			tt := z.Next()
			switch tt {
			case html.ErrorToken:
				if errors.Is(z.Err(), io.EOF) {
					return nil
				}
				return fmt.Errorf("unable to read html: %w", z.Err())

			case html.TextToken:
				if f.skip > 0 {
					style.Write(z.Text())
					continue
				}
				if err := h.Text(string(z.Text())); err != nil {
					return err
				}

			case html.StartTagToken, html.SelfClosingTagToken:
				name, hasAttr := z.TagName()
				tag := string(name)
				attrs := markup.Attrs{}
				for hasAttr {
					var k, v []byte
					k, v, hasAttr = z.TagAttr()
					attrs[string(k)] = string(v)
				}
				if skipped[tag] {
					if tt == html.StartTagToken {
						f.skip++
					}
					style.Reset()
					continue
				}
				if f.skip > 0 {
					continue
				}
				if err := h.StartElement(tag, attrs); err != nil {
					return err
				}
				if tt == html.SelfClosingTagToken || voids[tag] {
					if err := h.EndElement(tag); err != nil {
						return err
					}
				}

			case html.EndTagToken:
				name, _ := z.TagName()
				tag := string(name)
				if skipped[tag] {
					if f.skip > 0 {
						f.skip--
					}
					if tag == "style" {
						f.loadStyle(style.String(), "style")
					}
					style.Reset()
					continue
				}
				if f.skip > 0 || voids[tag] {
					continue
				}
				if err := h.EndElement(tag); err != nil {
					return err
				}
			}
		}
	})
}

// Package source turns markup documents into events for the worker.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"hdoc/markup"
)

// Handler receives markup events in document order.
type Handler interface {
	StartDocument() error
	StartElement(tag string, attrs markup.Attrs) error
	Text(content string) error
	EndElement(tag string) error
	EndDocument() error
}

// Stopper is implemented by handlers which may ask source to stop feeding
// events.
type Stopper interface {
	Stopped() bool
}

// StyleLoader is implemented by handlers accepting content of embedded
// style elements.
type StyleLoader interface {
	LoadStyleSheet(data []byte, source string)
}

// Func reads document from r and feeds it to handler. StartDocument and
// EndDocument are always called by Func itself.
type Func func(ctx context.Context, r io.Reader, h Handler) error

//go:generate go tool go-enum --marshal --nocase --names

// Kind of event source.
// ENUM(html, xhtml)
type Kind int

// ForKind returns event source function.
func ForKind(k Kind, opts ...Option) Func {
	switch k {
	case KindXhtml:
		return func(ctx context.Context, r io.Reader, h Handler) error {
			return XHTML(ctx, r, h, opts...)
		}
	default:
		return func(ctx context.Context, r io.Reader, h Handler) error {
			return HTML(ctx, r, h, opts...)
		}
	}
}

type options struct {
	encoding string
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures source.
type Option func(*options)

// WithEncoding forces input character set, detection is used otherwise.
func WithEncoding(label string) Option {
	return func(o *options) {
		o.encoding = strings.TrimSpace(label)
	}
}

// skipped are elements whose content never reaches the handler.
var skipped = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// errStop unwinds source when handler does not want more events.
var errStop = errors.New("handler stopped")

// feeder tracks state shared by both sources.
type feeder struct {
	ctx  context.Context
	h    Handler
	skip int
}

// run wraps document walk with StartDocument and EndDocument.
func (f *feeder) run(walk func() error) error {
	if err := f.h.StartDocument(); err != nil {
		return err
	}
	if err := walk(); err != nil {
		if errors.Is(err, errStop) {
			return nil
		}
		return err
	}
	return f.h.EndDocument()
}

func (f *feeder) stopped() bool {
	if s, ok := f.h.(Stopper); ok {
		return s.Stopped()
	}
	return false
}

// check is called before every event.
func (f *feeder) check() error {
	if err := f.ctx.Err(); err != nil {
		return fmt.Errorf("document processing canceled: %w", err)
	}
	if f.stopped() {
		return errStop
	}
	return nil
}

func (f *feeder) loadStyle(data, source string) {
	if l, ok := f.h.(StyleLoader); ok && strings.TrimSpace(data) != "" {
		l.LoadStyleSheet([]byte(data), source)
	}
}

// Package worker assembles document elements from markup events. Worker is a
// single pass state machine: it keeps stack of open containers, the pending
// paragraph and attribute chain, and hands complete top level elements to a
// Listener.
package worker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"hdoc/element"
	"hdoc/factory"
	"hdoc/images"
	"hdoc/markup"
	"hdoc/source"
)

// tableState keeps row and cell flags of enclosing table while nested table
// is processed.
type tableState struct {
	pendingTR bool
	pendingTD bool
}

// Worker converts markup events to elements. It is not safe for concurrent
// use, create one worker per document.
type Worker struct {
	log       *zap.Logger
	ctx       context.Context
	listener  Listener
	style     *markup.StyleSheet
	registry  *Registry
	factory   *factory.Factory
	resolver  *images.Resolver
	providers Providers

	chain   *markup.Chain
	stack   []element.Element
	current *element.Paragraph
	tables  []tableState

	pendingTR bool
	pendingTD bool
	pendingLI bool
	skipText  bool
	insidePRE bool
	// lastSpace is set when inline content so far ends with collapsible
	// space (or there is no inline content yet).
	lastSpace bool
	stopped   bool
}

// Option configures worker.
type Option func(*Worker)

func WithLogger(log *zap.Logger) Option {
	return func(w *Worker) {
		if log != nil {
			w.log = log
		}
	}
}

// WithContext sets context used for image resolution.
func WithContext(ctx context.Context) Option {
	return func(w *Worker) {
		if ctx != nil {
			w.ctx = ctx
		}
	}
}

func WithStyleSheet(style *markup.StyleSheet) Option {
	return func(w *Worker) {
		w.style = style
	}
}

func WithRegistry(r *Registry) Option {
	return func(w *Worker) {
		w.registry = r
	}
}

func WithProviders(p Providers) Option {
	return func(w *Worker) {
		w.providers = p
	}
}

// WithResolver replaces default image resolver, BaseURL of providers is not
// applied to it.
func WithResolver(r *images.Resolver) Option {
	return func(w *Worker) {
		w.resolver = r
	}
}

// New creates worker sending complete elements to listener.
func New(listener Listener, opts ...Option) *Worker {
	w := &Worker{
		log:       zap.NewNop(),
		ctx:       context.Background(),
		listener:  listener,
		lastSpace: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.Named("worker")
	if w.style == nil {
		w.style = markup.NewStyleSheet(w.log)
	}
	if w.registry == nil {
		w.registry = NewRegistry()
	}
	if w.resolver == nil {
		w.resolver = images.NewResolver(w.log, images.Options{BaseURL: w.providers.BaseURL})
	}
	w.factory = factory.New(w.log, w.providers.Fonts)
	return w
}

// ParseToList feeds document from r through event source into a new worker
// and returns all top level elements.
func ParseToList(ctx context.Context, r io.Reader, src source.Func, opts ...Option) ([]element.Element, error) {
	var c Collector
	w := New(&c, append([]Option{WithContext(ctx)}, opts...)...)
	if err := src(ctx, r, w); err != nil {
		return nil, err
	}
	return c.Elements(), nil
}

// Stopped reports whether listener asked to stop or failed.
func (w *Worker) Stopped() bool {
	return w.stopped
}

// Depth returns current depth of attribute chain.
func (w *Worker) Depth() int {
	return w.chain.Depth()
}

// StyleSheet returns style sheet used by worker.
func (w *Worker) StyleSheet() *markup.StyleSheet {
	return w.style
}

// LoadStyleSheet adds rules of embedded style sheet. Rules which cannot be
// used are skipped.
func (w *Worker) LoadStyleSheet(data []byte, name string) {
	if skipped := w.style.Load(data, name); len(skipped) > 0 {
		w.log.Debug("Embedded style sheet rules ignored", zap.String("source", name), zap.Strings("reasons", skipped))
	}
}

func (w *Worker) reset() {
	w.chain = nil
	w.stack = w.stack[:0]
	w.current = nil
	w.tables = w.tables[:0]
	w.pendingTR, w.pendingTD, w.pendingLI = false, false, false
	w.skipText, w.insidePRE = false, false
	w.lastSpace = true
	w.stopped = false
}

func (w *Worker) StartDocument() error {
	w.reset()
	attrs := w.style.Apply("body", markup.Attrs{})
	w.style.ResolveStyleAttribute(attrs, w.chain)
	w.chain = w.chain.Push("body", attrs)
	return nil
}

func (w *Worker) StartElement(tag string, attrs markup.Attrs) error {
	if w.stopped {
		return nil
	}
	tag = strings.ToLower(tag)
	kind := w.registry.Lookup(tag)
	if kind == TagKindUnknown {
		return nil
	}
	if attrs == nil {
		attrs = markup.Attrs{}
	}
	attrs = w.style.Apply(tag, attrs)
	w.style.ResolveStyleAttribute(attrs, w.chain)
	return w.start(kind, tag, attrs)
}

func (w *Worker) EndElement(tag string) error {
	if w.stopped {
		return nil
	}
	tag = strings.ToLower(tag)
	kind := w.registry.Lookup(tag)
	if kind == TagKindUnknown {
		return nil
	}
	return w.end(kind, tag)
}

// Text adds text to the pending paragraph. Outside of preformatted scope
// whitespace runs collapse to a single space and space at the start of a
// line is dropped.
func (w *Worker) Text(content string) error {
	if w.stopped || w.skipText || content == "" {
		return nil
	}
	if w.insidePRE {
		w.ensureParagraph()
		w.current.Add(w.factory.Chunk(content, w.chain))
		w.lastSpace = false
		return nil
	}

	text := collapseSpace(content)
	if w.lastSpace {
		text = strings.TrimPrefix(text, " ")
	}
	if text == "" {
		return nil
	}
	w.ensureParagraph()
	w.current.Add(w.factory.Chunk(text, w.chain))
	w.lastSpace = strings.HasSuffix(text, " ")
	return nil
}

// EndDocument closes pending list items, cells and rows as if their end tags
// were seen, flushes pending paragraph and drains remaining containers into
// the listener bottom to top. Lists and links left open inside cells are
// attached to the cell first.
func (w *Worker) EndDocument() error {
	if w.stopped {
		return nil
	}
	for {
		var err error
		switch {
		case w.pendingLI:
			err = w.endListItem()
		case w.pendingTR || w.pendingTD:
			err = w.closeOpen(isCellOrTable, func() error { return w.endRow("tr") })
		case len(w.tables) > 0:
			err = w.closeOpen(isTable, func() error { return w.endTable("table") })
		default:
			return w.finish()
		}
		if err != nil {
			return err
		}
	}
}

// closeOpen flushes pending paragraph and unwinds containers left open
// inside table structure before it is closed, so their content survives.
// Containers table structure cannot hold follow the closed table.
func (w *Worker) closeOpen(stop func(element.Element) bool, end func() error) error {
	if err := w.carriageReturn(); err != nil {
		return err
	}
	rejected := w.unwind(stop)
	if err := end(); err != nil {
		return err
	}
	if n := len(w.stack); n > 0 && isTable(w.stack[n-1]) {
		// table is still open, its own end takes care of them
		w.stack = append(w.stack, rejected...)
		return nil
	}
	for _, e := range rejected {
		if err := w.attach(e); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) finish() error {
	if err := w.carriageReturn(); err != nil {
		return err
	}
	stack := w.stack
	w.stack = nil
	for _, e := range stack {
		if err := w.emit(e); err != nil {
			return err
		}
	}
	w.chain = w.chain.Pop("body")
	if d := w.chain.Depth(); d != 0 {
		w.log.Debug("Unbalanced markup at the end of document", zap.Strings("open", w.chain.Tags()))
		w.chain = nil
	}
	return nil
}

func collapseSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteRune(r)
	}
	if space {
		sb.WriteByte(' ')
	}
	return sb.String()
}

func (w *Worker) ensureParagraph() {
	if w.current == nil {
		w.current = w.factory.Paragraph(w.chain)
	}
}

// emit sends element to the listener.
func (w *Worker) emit(e element.Element) error {
	if w.stopped {
		return nil
	}
	ok, err := w.listener.Add(e)
	if err != nil {
		w.stopped = true
		return fmt.Errorf("unable to add element to document: %w", err)
	}
	if !ok {
		w.log.Debug("Listener stopped processing", zap.Stringer("element", e.Type()))
		w.stopped = true
	}
	return nil
}

// attach adds element to the container on top of the stack, or sends it to
// the listener when stack is empty.
func (w *Worker) attach(e element.Element) error {
	if len(w.stack) == 0 {
		return w.emit(e)
	}
	top := w.stack[len(w.stack)-1]
	if c, ok := top.(element.Container); ok && c.Add(e) {
		return nil
	}
	w.log.Debug("Element dropped, container does not accept it",
		zap.Stringer("element", e.Type()), zap.Stringer("container", top.Type()))
	return nil
}

// popScope closes attribute scope of tag. Scope closed out of order is cut
// out of the chain, scopes opened inside it stay.
func (w *Worker) popScope(tag string) {
	if top := w.chain.Tag(); top != tag {
		w.log.Debug("Attribute scope closed out of order", zap.String("tag", tag), zap.String("innermost", top))
	}
	w.chain = w.chain.Pop(tag)
}

func (w *Worker) push(e element.Element) {
	w.stack = append(w.stack, e)
}

func (w *Worker) pop() element.Element {
	if len(w.stack) == 0 {
		return nil
	}
	e := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	return e
}

// carriageReturn closes pending paragraph and attaches it to the stack top
// (which stays in place) or sends it to the listener.
func (w *Worker) carriageReturn() error {
	w.lastSpace = true
	if w.current == nil {
		return nil
	}
	p := w.current
	w.current = nil
	if !w.insidePRE {
		trimTrailingSpace(&p.Phrase)
	}
	return w.attach(p)
}

// flushContent stacks pending paragraph and opens fresh one for inline
// content which will be merged back by mergeContent.
func (w *Worker) flushContent() {
	w.ensureParagraph()
	w.push(w.current)
	w.current = w.factory.Paragraph(w.chain)
}

// mergeContent wraps pending paragraph into phrase and appends it to the
// paragraph stacked by flushContent, which becomes pending again.
func (w *Worker) mergeContent() {
	w.ensureParagraph()
	cur := w.current
	phrase := &element.Phrase{Font: cur.Font, Leading: cur.Leading, Children: cur.Children}

	var p *element.Paragraph
	switch top := w.pop().(type) {
	case *element.Paragraph:
		p = top
	case nil:
	default:
		w.log.Debug("Unexpected element on stack while closing link", zap.Stringer("element", top.Type()))
		w.push(top)
	}
	if p == nil {
		p = &element.Paragraph{
			Phrase:        element.Phrase{Font: cur.Font, Leading: cur.Leading},
			Alignment:     cur.Alignment,
			IndentLeft:    cur.IndentLeft,
			SpacingBefore: cur.SpacingBefore,
			SpacingAfter:  cur.SpacingAfter,
		}
	}
	if !phrase.IsEmpty() {
		p.Add(phrase)
	}
	w.current = p
}

func (w *Worker) newLine() {
	w.ensureParagraph()
	w.current.Add(w.factory.NewLine(w.chain))
	w.lastSpace = true
}

// trimTrailingSpace removes collapsed space at the end of the paragraph.
func trimTrailingSpace(ph *element.Phrase) {
	for n := len(ph.Children); n > 0; n = len(ph.Children) {
		switch last := ph.Children[n-1].(type) {
		case *element.Chunk:
			if last.Newline || last.Image != nil {
				return
			}
			last.Content = strings.TrimRight(last.Content, " ")
			if last.Content != "" {
				return
			}
		case *element.Phrase:
			trimTrailingSpace(last)
			if !last.IsEmpty() {
				return
			}
		default:
			return
		}
		ph.Children = ph.Children[:n-1]
	}
}

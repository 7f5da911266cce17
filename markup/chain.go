package markup

import (
	"slices"
	"strconv"
	"strings"

	"hdoc/css"
)

// DefaultFontSize is used when no scope defines font size, in points.
const DefaultFontSize = 12.0

// fontSizes are point sizes of HTML font size steps 1 to 7.
var fontSizes = [...]float64{8, 10, 12, 14, 18, 24, 36}

// Chain is an immutable cascade of attribute scopes. Each scope links to its
// parent so pushing never disturbs chains already handed out and popping is
// a parent pointer. A nil *Chain is the empty cascade.
type Chain struct {
	tag    string
	attrs  Attrs
	parent *Chain
	depth  int
}

// Push returns new chain with scope for tag on top. Attributes are copied.
// Font size is normalized to points: HTML steps ("1".."7"), relative steps
// ("+1", "-2") and lengths ("14pt", "1.2em", "120%") are all resolved against
// the enclosing scopes.
func (c *Chain) Push(tag string, attrs Attrs) *Chain {
	a := attrs.Clone()
	if v, ok := a[KeySize]; ok {
		if size, ok := c.resolveSize(v); ok {
			a[KeySize] = css.FormatNumber(size)
		} else {
			delete(a, KeySize)
		}
	}
	return &Chain{tag: tag, attrs: a, parent: c, depth: c.Depth() + 1}
}

// Pop removes innermost scope with matching tag. When the top scope has a
// different tag the nearest matching one is cut out and scopes above it are
// relinked. Without any match chain is returned unchanged.
func (c *Chain) Pop(tag string) *Chain {
	if c == nil {
		return nil
	}
	if c.tag == tag {
		return c.parent
	}
	var above []*Chain
	for s := c; s != nil; s = s.parent {
		if s.tag != tag {
			above = append(above, s)
			continue
		}
		n := s.parent
		for _, a := range slices.Backward(above) {
			n = &Chain{tag: a.tag, attrs: a.attrs, parent: n, depth: n.Depth() + 1}
		}
		return n
	}
	return c
}

// Depth returns number of scopes.
func (c *Chain) Depth() int {
	if c == nil {
		return 0
	}
	return c.depth
}

// Tag returns tag of innermost scope.
func (c *Chain) Tag() string {
	if c == nil {
		return ""
	}
	return c.tag
}

// Attrs returns copy of innermost scope attributes.
func (c *Chain) Attrs() Attrs {
	if c == nil {
		return Attrs{}
	}
	return c.attrs.Clone()
}

// Tags lists scope tags outermost first.
func (c *Chain) Tags() []string {
	tags := make([]string, 0, c.Depth())
	for s := c; s != nil; s = s.parent {
		tags = append(tags, s.tag)
	}
	slices.Reverse(tags)
	return tags
}

// Property returns value from innermost scope which defines key.
func (c *Chain) Property(key string) (string, bool) {
	for s := c; s != nil; s = s.parent {
		if v, ok := s.attrs[key]; ok {
			return v, true
		}
	}
	return "", false
}

// HasProperty reports whether any scope defines key.
func (c *Chain) HasProperty(key string) bool {
	_, ok := c.Property(key)
	return ok
}

// FontSize returns effective font size in points.
func (c *Chain) FontSize() float64 {
	if v, ok := c.Property(KeySize); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return DefaultFontSize
}

func (c *Chain) resolveSize(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if v[0] == '+' || v[0] == '-' {
		inc, err := strconv.Atoi(v[1:])
		if err != nil {
			return 0, false
		}
		if v[0] == '-' {
			inc = -inc
		}
		return fontSizes[clampStep(sizeStep(c.baseFontSize())+inc)], true
	}
	val := css.ParseValue(v)
	if val.Unit != "" {
		pt, ok := val.Points(c.FontSize())
		return pt, ok && pt > 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fontSizes[0], true
	}
	return fontSizes[clampStep(n-1)], true
}

func (c *Chain) baseFontSize() float64 {
	if v, ok := c.Property(KeyBaseFont); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return c.FontSize()
}

// sizeStep returns largest step not exceeding size.
func sizeStep(size float64) int {
	for k := len(fontSizes) - 1; k >= 0; k-- {
		if size >= fontSizes[k] {
			return k
		}
	}
	return 0
}

func clampStep(s int) int {
	return max(0, min(s, len(fontSizes)-1))
}

// Package markup keeps attribute cascade of the converter: per tag scope
// attributes, tag and class defaults and inline style resolution.
package markup

import (
	"maps"
	"slices"
	"strings"
)

// Attribute names understood by the element factory. Markup attributes and
// resolved CSS properties are both expressed with these keys.
const (
	KeyAlign       = "align"
	KeyAfter       = "after"
	KeyAlt         = "alt"
	KeyBefore      = "before"
	KeyBgColor     = "bgcolor"
	KeyBold        = "b"
	KeyBorder      = "border"
	KeyCellPadding = "cellpadding"
	KeyCellSpacing = "cellspacing"
	KeyClass       = "class"
	KeyColor       = "color"
	KeyColSpan     = "colspan"
	KeyEncoding    = "encoding"
	KeyFace        = "face"
	KeyHeight      = "height"
	KeyHref        = "href"
	KeyImagePath   = "image_path"
	KeyIndent      = "indent"
	KeyItalic      = "i"
	KeyLeading     = "leading"
	KeyRowSpan     = "rowspan"
	KeySize        = "size"
	KeySrc         = "src"
	KeyStart       = "start"
	KeyStrike      = "s"
	KeyStyle       = "style"
	KeySub         = "sub"
	KeySup         = "sup"
	KeyType        = "type"
	KeyUnderline   = "u"
	KeyVAlign      = "valign"
	KeyWidth       = "width"
	KeyBaseFont    = "basefontsize"
)

// Attrs maps attribute names to values. Flag attributes (b, i, u...) are
// present with empty value.
type Attrs map[string]string

// NewAttrs builds attribute map lower-casing names, later pairs win.
func NewAttrs(kv ...string) Attrs {
	a := make(Attrs, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		a[strings.ToLower(kv[i])] = kv[i+1]
	}
	return a
}

// Clone returns shallow copy, never nil.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return Attrs{}
	}
	return maps.Clone(a)
}

// Get returns attribute value and presence.
func (a Attrs) Get(key string) (string, bool) {
	v, ok := a[key]
	return v, ok
}

// Has reports attribute presence.
func (a Attrs) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Keys returns sorted attribute names.
func (a Attrs) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

// String renders attributes in stable order for logging.
func (a Attrs) String() string {
	var sb strings.Builder
	for i, k := range a.Keys() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		if v := a[k]; v != "" {
			sb.WriteString(`="`)
			sb.WriteString(v)
			sb.WriteByte('"')
		}
	}
	return sb.String()
}

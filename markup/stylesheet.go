package markup

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"hdoc/css"
)

// StyleSheet holds default attributes per tag and per class. Defaults come
// either as plain attributes (LoadTagStyle, LoadStyle) or as CSS rules
// (Load) which are resolved together with the inline style attribute.
type StyleSheet struct {
	log    *zap.Logger
	parser *css.Parser

	tags    map[string]Attrs
	classes map[string]Attrs
	rules   map[string][]css.Declaration // keyed by "tag", ".class" or "tag.class"
}

// NewStyleSheet creates empty style sheet.
func NewStyleSheet(log *zap.Logger) *StyleSheet {
	if log == nil {
		log = zap.NewNop()
	}
	return &StyleSheet{
		log:     log.Named("stylesheet"),
		parser:  css.NewParser(log),
		tags:    make(map[string]Attrs),
		classes: make(map[string]Attrs),
		rules:   make(map[string][]css.Declaration),
	}
}

// LoadTagStyle sets default attribute value for tag.
func (s *StyleSheet) LoadTagStyle(tag, key, value string) {
	tag = strings.ToLower(tag)
	if s.tags[tag] == nil {
		s.tags[tag] = Attrs{}
	}
	s.tags[tag][strings.ToLower(key)] = value
}

// LoadStyle sets default attribute value for class.
func (s *StyleSheet) LoadStyle(class, key, value string) {
	class = strings.ToLower(class)
	if s.classes[class] == nil {
		s.classes[class] = Attrs{}
	}
	s.classes[class][strings.ToLower(key)] = value
}

// Load adds rules from CSS text. Only tag, class and tag.class selectors are
// used, warnings for everything skipped are returned.
func (s *StyleSheet) Load(data []byte, source string) []string {
	sheet := s.parser.Parse(data, source)
	for _, rule := range sheet.Rules {
		key := rule.Selector.Element
		if rule.Selector.Class != "" {
			key += "." + strings.ToLower(rule.Selector.Class)
		}
		for _, name := range slices.Sorted(maps.Keys(rule.Properties)) {
			s.rules[key] = append(s.rules[key], css.Declaration{Property: name, Value: rule.Properties[name]})
		}
	}
	for _, w := range sheet.Warnings {
		s.log.Debug("Style sheet rule ignored", zap.String("source", source), zap.String("reason", w))
	}
	return sheet.Warnings
}

// Apply returns attributes for tag with defaults merged in. Attributes
// supplied by markup win over tag defaults which win over class defaults.
// CSS rules are prepended to the style attribute so inline declarations
// override them during ResolveStyleAttribute.
func (s *StyleSheet) Apply(tag string, attrs Attrs) Attrs {
	tag = strings.ToLower(tag)
	out := Attrs{}

	var classes []string
	if v, ok := attrs[KeyClass]; ok {
		classes = strings.Fields(strings.ToLower(v))
	}
	for _, class := range classes {
		for k, v := range s.classes[class] {
			out[k] = v
		}
	}
	for k, v := range s.tags[tag] {
		out[k] = v
	}
	for k, v := range attrs {
		out[k] = v
	}

	var decls []css.Declaration
	decls = append(decls, s.rules[tag]...)
	for _, class := range classes {
		decls = append(decls, s.rules["."+class]...)
		decls = append(decls, s.rules[tag+"."+class]...)
	}
	if len(decls) > 0 {
		var sb strings.Builder
		for _, d := range decls {
			sb.WriteString(d.Property)
			sb.WriteByte(':')
			sb.WriteString(d.Value.Raw)
			sb.WriteByte(';')
		}
		sb.WriteString(out[KeyStyle])
		out[KeyStyle] = sb.String()
	}
	return out
}

// absoluteSizes maps CSS font-size keywords to points.
var absoluteSizes = map[string]float64{
	"xx-small": 7,
	"x-small":  7.5,
	"small":    10,
	"medium":   12,
	"large":    14,
	"x-large":  18,
	"xx-large": 24,
}

// ResolveStyleAttribute parses style attribute of attrs and stores resolved
// properties back into attrs as element attributes. Relative lengths are
// resolved against font size of the chain. Malformed declarations and
// unsupported properties are ignored.
func (s *StyleSheet) ResolveStyleAttribute(attrs Attrs, chain *Chain) {
	style, ok := attrs[KeyStyle]
	if !ok || strings.TrimSpace(style) == "" {
		return
	}
	base := chain.FontSize()

	for _, d := range s.parser.ParseInline(style) {
		v := d.Value
		kw := strings.ToLower(v.Raw)

		switch d.Property {
		case "font-family":
			attrs[KeyFace] = v.Raw

		case "font-size":
			size, ok := absoluteSizes[kw]
			switch {
			case ok:
			case kw == "smaller":
				size = base / 1.2
			case kw == "larger":
				size = base * 1.2
			default:
				size, ok = v.Points(base)
				if !ok || size <= 0 {
					continue
				}
			}
			// actual font size changes for following relative values
			base = size
			attrs[KeySize] = css.FormatNumber(size) + "pt"

		case "font-style":
			switch kw {
			case "italic", "oblique":
				attrs[KeyItalic] = ""
			case "normal":
				delete(attrs, KeyItalic)
			}

		case "font-weight":
			switch kw {
			case "bold", "bolder":
				attrs[KeyBold] = ""
			case "normal", "lighter":
				delete(attrs, KeyBold)
			default:
				if n, err := strconv.Atoi(kw); err == nil && n >= 600 {
					attrs[KeyBold] = ""
				}
			}

		case "text-decoration", "text-decoration-line":
			for _, f := range strings.Fields(kw) {
				switch f {
				case "underline":
					attrs[KeyUnderline] = ""
				case "line-through":
					attrs[KeyStrike] = ""
				}
			}

		case "color":
			if c, ok := DecodeColor(v.Raw); ok {
				attrs[KeyColor] = EncodeColor(c)
			}

		case "background-color", "background":
			for _, f := range strings.Fields(v.Raw) {
				if c, ok := DecodeColor(f); ok {
					attrs[KeyBgColor] = EncodeColor(c)
					break
				}
			}

		case "line-height":
			switch {
			case kw == "normal":
				attrs[KeyLeading] = "0,1.5"
			case v.IsPercentage():
				attrs[KeyLeading] = "0," + css.FormatNumber(v.Value/100)
			case v.IsNumeric() && v.Unit == "":
				attrs[KeyLeading] = "0," + css.FormatNumber(v.Value)
			default:
				if pt, ok := v.Points(base); ok {
					attrs[KeyLeading] = css.FormatNumber(pt) + ",0"
				}
			}

		case "text-align":
			attrs[KeyAlign] = kw

		case "vertical-align":
			attrs[KeyVAlign] = kw

		case "padding-left", "margin-left":
			if pt, ok := v.Points(base); ok {
				attrs[KeyIndent] = css.FormatNumber(pt)
			}

		case "margin-top":
			if pt, ok := v.Points(base); ok {
				attrs[KeyBefore] = css.FormatNumber(pt)
			}

		case "margin-bottom":
			if pt, ok := v.Points(base); ok {
				attrs[KeyAfter] = css.FormatNumber(pt)
			}

		case "width", "height":
			if v.IsPercentage() {
				attrs[d.Property] = css.FormatNumber(v.Value) + "%"
			} else if pt, ok := v.Points(base); ok {
				attrs[d.Property] = css.FormatNumber(pt)
			}

		case "border-width":
			if pt, ok := v.Points(base); ok {
				attrs[KeyBorder] = css.FormatNumber(pt)
			}
		}
	}
}

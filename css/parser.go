// Package css parses the small subset of CSS understood by the converter:
// simple tag/class rules in stylesheets and declarations in inline style
// attributes.
package css

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Rules:    make([]Rule, 0),
		Warnings: make([]string, 0),
	}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil {
				if err != io.EOF {
					p.log.Debug("CSS parse error", zap.Error(err))
				}
				return sheet
			}
			// malformed construct, parser already skipped it

		case css.BeginAtRuleGrammar:
			// @media, @font-face, @page... none of them apply to element defaults
			p.skipAtRuleBlock(parser)
			p.log.Debug("Skipping @-rule", zap.String("rule", string(data)))

		case css.AtRuleGrammar:
			p.log.Debug("Skipping @-rule", zap.String("rule", string(data)))

		case css.BeginRulesetGrammar:
			selectors := parseSelectors(data, parser.Values())
			props := p.parseDeclarations(parser)
			for _, selStr := range selectors {
				sel := p.parseSelector(selStr, sheet)
				if !sel.IsSimple() {
					continue
				}
				propsCopy := make(map[string]Value, len(props))
				for k, v := range props {
					propsCopy[k] = v
				}
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Properties: propsCopy})
			}
		}
	}
}

// ParseInline parses the content of a style attribute ("key:value;key:value").
// Each declaration is tokenized on its own so a malformed one is dropped
// without affecting its neighbours. Order is preserved and later duplicates
// are kept - caller decides which wins.
func (p *Parser) ParseInline(style string) []Declaration {
	var decls []Declaration
	for _, part := range splitDeclarations(style) {
		parser := css.NewParser(parse.NewInputString(part), true)
		for done := false; !done; {
			gt, _, data := parser.Next()
			switch gt {
			case css.ErrorGrammar:
				if err := parser.Err(); err != io.EOF {
					p.log.Debug("Dropping malformed style declaration", zap.String("declaration", part), zap.Error(err))
				}
				done = true

			case css.DeclarationGrammar:
				name := strings.ToLower(strings.TrimSpace(string(data)))
				values := parser.Values()
				if name == "" || len(values) == 0 {
					continue
				}
				if val := parsePropertyValue(values); val.Raw != "" {
					decls = append(decls, Declaration{Property: name, Value: val})
				}

			case css.CustomPropertyGrammar:
				continue
			}
		}
	}
	return decls
}

// ParseValue tokenizes a single property value, for example an HTML
// attribute such as width="30%" or size="12pt".
func ParseValue(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}
	}
	parser := css.NewParser(parse.NewInputString("v:"+s), true)
	for {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return Value{Raw: s, Keyword: strings.ToLower(s)}
		case css.DeclarationGrammar:
			if val := parsePropertyValue(parser.Values()); val.Raw != "" {
				return val
			}
			return Value{Raw: s, Keyword: strings.ToLower(s)}
		}
	}
}

// splitDeclarations splits style attribute on semicolons which are not
// inside quotes or parentheses.
func splitDeclarations(style string) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, r := range style {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			if part := strings.TrimSpace(style[start:i]); part != "" {
				parts = append(parts, part)
			}
			start = i + 1
		}
	}
	if part := strings.TrimSpace(style[start:]); part != "" {
		parts = append(parts, part)
	}
	return parts
}

// parseSelectors extracts selector strings from token data.
func parseSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
func (p *Parser) parseDeclarations(parser *css.Parser) map[string]Value {
	props := make(map[string]Value)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if parser.Err() != nil {
				return props
			}
		case css.EndRulesetGrammar:
			return props

		case css.DeclarationGrammar:
			values := parser.Values()
			if len(values) > 0 {
				props[strings.ToLower(string(data))] = parsePropertyValue(values)
			}
		}
	}
}

// parsePropertyValue converts CSS tokens to a Value.
func parsePropertyValue(tokens []css.Token) Value {
	tokens, important := stripImportant(tokens)
	if len(tokens) == 0 {
		return Value{}
	}

	raw := joinTokens(tokens)

	val := Value{Raw: raw, Important: important}

	if significant := trimWhitespace(tokens); len(significant) == 1 {
		t := significant[0]
		switch t.TokenType {
		case css.DimensionToken:
			val.Value, val.Unit = parseDimension(string(t.Data))
		case css.PercentageToken:
			val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
			val.Unit = "%"
		case css.NumberToken:
			val.Value, _ = strconv.ParseFloat(string(t.Data), 64)
		case css.IdentToken:
			val.Keyword = strings.ToLower(string(t.Data))
		case css.StringToken:
			val.Keyword = unquote(string(t.Data))
		case css.HashToken:
			// color value
			val.Keyword = string(t.Data)
		default:
			val.Keyword = raw
		}
		return val
	}

	// functions (rgb(), url()) and multi-value properties
	val.Keyword = raw
	return val
}

// joinTokens restores value text. Whitespace runs become single space and
// commas are always followed by one, parser does not report whitespace after
// them.
func joinTokens(tokens []css.Token) string {
	var sb strings.Builder
	space := false
	for _, t := range tokens {
		switch t.TokenType {
		case css.WhitespaceToken:
			space = sb.Len() > 0
			continue
		case css.CommaToken:
			sb.WriteByte(',')
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.Write(t.Data)
	}
	return sb.String()
}

// stripImportant removes trailing "! important" tokens.
func stripImportant(tokens []css.Token) ([]css.Token, bool) {
	t := trimWhitespace(tokens)
	if len(t) < 2 {
		return tokens, false
	}
	last := t[len(t)-1]
	if last.TokenType != css.IdentToken || !strings.EqualFold(string(last.Data), "important") {
		return tokens, false
	}
	rest := trimWhitespace(t[:len(t)-1])
	if len(rest) == 0 {
		return tokens, false
	}
	bang := rest[len(rest)-1]
	if bang.TokenType != css.DelimToken || string(bang.Data) != "!" {
		return tokens, false
	}
	return trimWhitespace(rest[:len(rest)-1]), true
}

func trimWhitespace(tokens []css.Token) []css.Token {
	for len(tokens) > 0 && tokens[0].TokenType == css.WhitespaceToken {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].TokenType == css.WhitespaceToken {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// parseDimension extracts numeric value and unit from dimension token.
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}

	if numEnd == 0 {
		return 0, ""
	}

	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	unit := strings.ToLower(s[numEnd:])
	return num, unit
}

// parseSelector parses a single selector string. Only element, class and
// element.class selectors are supported, everything else is reported.
func (p *Parser) parseSelector(selStr string, sheet *Stylesheet) Selector {
	selStr = strings.TrimSpace(selStr)
	sel := Selector{Raw: selStr}

	if strings.ContainsAny(selStr, "+~>[:# \t\n*") {
		sheet.Warnings = append(sheet.Warnings, "unsupported selector: "+selStr)
		p.log.Debug("Skipping selector", zap.String("selector", selStr))
		return sel
	}

	if element, class, found := strings.Cut(selStr, "."); found {
		if strings.Contains(class, ".") {
			sheet.Warnings = append(sheet.Warnings, "unsupported compound class selector: "+selStr)
			p.log.Debug("Skipping selector", zap.String("selector", selStr))
			return sel
		}
		sel.Element = strings.ToLower(element)
		sel.Class = class
	} else {
		sel.Element = strings.ToLower(selStr)
	}
	return sel
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if parser.Err() != nil {
				return
			}
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

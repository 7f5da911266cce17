package factory

import (
	"errors"
	"fmt"
	"strings"

	"hdoc/element"
)

// ErrFontNotRegistered is returned by DefaultFontProvider for unknown families.
var ErrFontNotRegistered = errors.New("font family is not registered")

// FontProvider turns requested character attributes into a concrete font.
type FontProvider interface {
	IsRegistered(family string) bool
	Font(req element.Font) (element.Font, error)
}

// DefaultFamily is used when nothing else is specified or available.
const DefaultFamily = "Helvetica"

// DefaultFontProvider knows standard PDF font families and common CSS
// aliases for them. Additional families may be registered.
type DefaultFontProvider struct {
	families map[string]string
}

func NewDefaultFontProvider(extra ...string) *DefaultFontProvider {
	p := &DefaultFontProvider{
		families: map[string]string{
			"helvetica":       "Helvetica",
			"arial":           "Helvetica",
			"sans-serif":      "Helvetica",
			"times":           "Times-Roman",
			"times-roman":     "Times-Roman",
			"times new roman": "Times-Roman",
			"serif":           "Times-Roman",
			"courier":         "Courier",
			"courier new":     "Courier",
			"monospace":       "Courier",
			"symbol":          "Symbol",
			"zapfdingbats":    "ZapfDingbats",
		},
	}
	for _, f := range extra {
		p.Register(f)
	}
	return p
}

// Register adds font family under its own name.
func (p *DefaultFontProvider) Register(family string) {
	family = strings.TrimSpace(family)
	if family == "" {
		return
	}
	p.families[strings.ToLower(family)] = family
}

func (p *DefaultFontProvider) IsRegistered(family string) bool {
	_, ok := p.families[strings.ToLower(strings.TrimSpace(family))]
	return ok
}

func (p *DefaultFontProvider) Font(req element.Font) (element.Font, error) {
	if req.Family == "" {
		req.Family = DefaultFamily
		return req, nil
	}
	name, ok := p.families[strings.ToLower(strings.TrimSpace(req.Family))]
	if !ok {
		return element.Font{}, fmt.Errorf("font %q: %w", req.Family, ErrFontNotRegistered)
	}
	req.Family = name
	return req, nil
}

// selectFamily picks first registered family from comma separated list. When
// none is registered the last one is returned.
func selectFamily(fonts FontProvider, faces string) string {
	var family string
	for f := range strings.SplitSeq(faces, ",") {
		f = strings.Trim(strings.TrimSpace(f), `"'`)
		if f == "" {
			continue
		}
		family = f
		if fonts.IsRegistered(f) {
			break
		}
	}
	return family
}

package markup

import (
	"strconv"
	"strings"

	"hdoc/css"
)

// ParseLength converts attribute length to points. Relative units are
// resolved against base font size.
func ParseLength(s string, base float64) (float64, bool) {
	return css.ParseValue(s).Points(base)
}

// ParseFloat parses plain number tolerating surrounding spaces and "pt".
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "pt")
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// ParseLeading parses leading value "fixed,multiplied" or "fixed". Second
// return is false when value is malformed.
func ParseLeading(s string) (fixed, multiplied float64, ok bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	switch len(fields) {
	case 1:
		f, ok := ParseFloat(fields[0])
		return f, 0, ok
	case 2:
		f, ok1 := ParseFloat(fields[0])
		m, ok2 := ParseFloat(fields[1])
		return f, m, ok1 && ok2
	}
	return 0, 0, false
}

package element

import (
	"strconv"
	"strings"
)

// ParseNumbering maps type attribute of an ordered list.
func ParseNumbering(s string) Numbering {
	switch strings.TrimSpace(s) {
	case "a":
		return NumberingLowerAlpha
	case "A":
		return NumberingUpperAlpha
	case "i":
		return NumberingLowerRoman
	case "I":
		return NumberingUpperRoman
	}
	return NumberingDecimal
}

// Label returns list symbol for item with zero based index i.
func (l *List) Label(i int) string {
	if !l.Ordered {
		return l.Symbol
	}
	n := i + max(l.Start, 1)
	switch l.Numbering {
	case NumberingLowerAlpha:
		return strings.ToLower(alpha(n)) + "."
	case NumberingUpperAlpha:
		return alpha(n) + "."
	case NumberingLowerRoman:
		return strings.ToLower(roman(n)) + "."
	case NumberingUpperRoman:
		return roman(n) + "."
	}
	return strconv.Itoa(n) + "."
}

// alpha converts 1 based number to A..Z, AA..
func alpha(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

var romans = []struct {
	v int
	s string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	if n <= 0 || n >= 4000 {
		return strconv.Itoa(n)
	}
	var sb strings.Builder
	for _, r := range romans {
		for n >= r.v {
			sb.WriteString(r.s)
			n -= r.v
		}
	}
	return sb.String()
}

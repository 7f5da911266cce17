package markup

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// DecodeColor understands "#rgb", "#rrggbb", "rgb(r, g, b)" with numbers or
// percentages and SVG/CSS color names.
func DecodeColor(s string) (*color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, false
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		return decodeHex(hex)
	}
	if args, ok := strings.CutPrefix(s, "rgb("); ok {
		return decodeRGB(strings.TrimSuffix(args, ")"))
	}
	if c, ok := colornames.Map[s]; ok {
		return &c, true
	}
	// bare hex as found in old markup: color="ff0000"
	if len(s) == 6 {
		return decodeHex(s)
	}
	return nil, false
}

// EncodeColor formats color as "#rrggbb".
func EncodeColor(c *color.RGBA) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func decodeHex(hex string) (*color.RGBA, bool) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return nil, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, false
	}
	return &color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

func decodeRGB(args string) (*color.RGBA, bool) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 {
		return nil, false
	}
	var ch [3]uint8
	for i, p := range parts {
		p = strings.TrimSpace(p)
		var (
			f   float64
			err error
		)
		if pct, ok := strings.CutSuffix(p, "%"); ok {
			f, err = strconv.ParseFloat(pct, 64)
			f = f * 255 / 100
		} else {
			f, err = strconv.ParseFloat(p, 64)
		}
		if err != nil {
			return nil, false
		}
		ch[i] = uint8(max(0, min(f, 255)))
	}
	return &color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xff}, true
}

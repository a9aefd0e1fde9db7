package drawing

import (
	"image/color"
	"strconv"
	"strings"
)

var namedColors = map[string]color.NRGBA{
	"black": {A: 0xff},
	"white": {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	"red":   {R: 0xff, A: 0xff},
	"green": {G: 0x80, A: 0xff},
	"blue":  {B: 0xff, A: 0xff},
}

// ParseColor understands the pen color notations a browser pad emits:
// "#rgb", "#rrggbb", "rgb(r, g, b)", "rgba(r, g, b, a)" and a handful of
// names. Anything else is black.
func ParseColor(s string) color.NRGBA {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c
	}

	switch {
	case strings.HasPrefix(s, "#"):
		if c, ok := parseHex(s[1:]); ok {
			return c
		}
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		if c, ok := parseFunc(s[len("rgba("):len(s)-1], 4); ok {
			return c
		}
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		if c, ok := parseFunc(s[len("rgb("):len(s)-1], 3); ok {
			return c
		}
	}

	return namedColors["black"]
}

func parseHex(h string) (color.NRGBA, bool) {
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	default:
		return color.NRGBA{}, false
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

func parseFunc(args string, n int) (color.NRGBA, bool) {
	parts := strings.Split(args, ",")
	if len(parts) != n {
		return color.NRGBA{}, false
	}

	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, false
		}
		rgb[i] = uint8(v)
	}

	alpha := uint8(0xff)
	if n == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return color.NRGBA{}, false
		}
		alpha = uint8(a*255 + 0.5)
	}

	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha}, true
}

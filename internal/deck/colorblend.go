package deck

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// ParseHex parses a "#RRGGBB" (or "RRGGBB" / "#RGB") color string into an
// opaque RGBA. Slide styles carry colors as hex strings; everything past the
// style loader works on the parsed form.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.ToLower(h), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}, nil
}

// HexString formats c as a lowercase "#rrggbb" string.
func HexString(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// rgbToHSV converts 8-bit RGB to hue [0,360), saturation [0,1], value [0,1].
func rgbToHSV(c color.RGBA) (h, s, v float64) {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	d := max - min

	v = max
	if max > 0 {
		s = d / max
	}
	if d == 0 {
		return 0, s, v
	}
	switch max {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// hsvToRGB converts back to 8-bit RGB.
func hsvToRGB(h, s, v float64) color.RGBA {
	c := v * s
	hh := math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hh, 2)-1))

	var r, g, b float64
	switch {
	case hh < 1:
		r, g, b = c, x, 0
	case hh < 2:
		r, g, b = x, c, 0
	case hh < 3:
		r, g, b = 0, c, x
	case hh < 4:
		r, g, b = 0, x, c
	case hh < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := v - c
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 0xFF,
	}
}

// Blend interpolates between two colors in HSV space. Hue takes the shortest
// circular arc so a blend never sweeps the long way around the color wheel;
// saturation and value interpolate linearly. t is clamped to [0,1], and the
// endpoints return the inputs exactly.
func Blend(c1, c2 color.RGBA, t float64) color.RGBA {
	if t <= 0 {
		return c1
	}
	if t >= 1 {
		return c2
	}

	h1, s1, v1 := rgbToHSV(c1)
	h2, s2, v2 := rgbToHSV(c2)

	dh := h2 - h1
	if dh > 180 {
		dh -= 360
	} else if dh < -180 {
		dh += 360
	}
	h := math.Mod(h1+dh*t+360, 360)
	s := s1 + (s2-s1)*t
	v := v1 + (v2-v1)*t
	return hsvToRGB(h, s, v)
}

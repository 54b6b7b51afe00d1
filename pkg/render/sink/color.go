package sink

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/drpeachy/tagbubbles/pkg/errors"
)

// ParseColor parses the palette notations the web component accepts:
// "#rgb", "#rrggbb", "rgb(r, g, b)" and "rgba(r, g, b, a)". It returns the
// color and its alpha in [0, 1].
func ParseColor(s string) (colorful.Color, float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case strings.HasPrefix(s, "#"):
		if len(s) == 4 {
			s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, 0, errors.Wrap(errors.ErrCodeInvalidPalette, err, "parse color %q", s)
		}
		return c, 1, nil
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunc(s, s[len("rgba("):len(s)-1], 4)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunc(s, s[len("rgb("):len(s)-1], 3)
	default:
		return colorful.Color{}, 0, errors.New(errors.ErrCodeInvalidPalette, "unsupported color %q", s)
	}
}

func parseFunc(orig, args string, n int) (colorful.Color, float64, error) {
	parts := strings.Split(args, ",")
	if len(parts) != n {
		return colorful.Color{}, 0, errors.New(errors.ErrCodeInvalidPalette, "color %q needs %d components", orig, n)
	}
	v := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return colorful.Color{}, 0, errors.Wrap(errors.ErrCodeInvalidPalette, err, "parse color %q", orig)
		}
		v[i] = f
	}
	alpha := 1.0
	if n == 4 {
		alpha = min(max(v[3], 0), 1)
	}
	c := colorful.Color{R: v[0] / 255, G: v[1] / 255, B: v[2] / 255}
	return c.Clamped(), alpha, nil
}

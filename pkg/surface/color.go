package surface

import "github.com/lucasb-eyer/go-colorful"

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Common colors.
var (
	Black     = Color{0, 0, 0}
	White     = Color{1, 1, 1}
	LightGray = Color{0.85, 0.85, 0.85}
	Gray      = Color{0.45, 0.45, 0.45}
	Red       = Color{0.86, 0.15, 0.15}
	Green     = Color{0.09, 0.5, 0.24}
)

// ParseColor parses a "#rrggbb" (or "#rgb") hex string. Invalid input
// returns fallback.
func ParseColor(hex string, fallback Color) Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return Color{R: c.R, G: c.G, B: c.B}
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// Lighten blends the color toward white by t in [0, 1].
func (c Color) Lighten(t float64) Color {
	b := colorful.Color{R: c.R, G: c.G, B: c.B}.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, t)
	return Color{R: b.R, G: b.G, B: b.B}
}

// rgb255 returns the clamped 8-bit channels.
func (c Color) rgb255() (r, g, b int) {
	r8, g8, b8 := colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().RGB255()
	return int(r8), int(g8), int(b8)
}

package particles

import (
	"fmt"

	"github.com/gonewx/wellspring/pkg/utils"
)

// Color is a straight (non-premultiplied) RGBA tint with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

var (
	White       = Color{1, 1, 1, 1}
	Transparent = Color{}
)

// RGBA builds a Color from its channels.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Lerp interpolates every channel independently.
func (c Color) Lerp(o Color, amount float64) Color {
	return Color{
		R: utils.Lerp(c.R, o.R, amount),
		G: utils.Lerp(c.G, o.G, amount),
		B: utils.Lerp(c.B, o.B, amount),
		A: utils.Lerp(c.A, o.A, amount),
	}
}

// validate checks that every channel lies in [0, 1].
func (c Color) validate() error {
	for _, ch := range [...]struct {
		name  string
		value float64
	}{{"r", c.R}, {"g", c.G}, {"b", c.B}, {"a", c.A}} {
		if !(ch.value >= 0 && ch.value <= 1) {
			return fmt.Errorf("channel %s = %v outside [0, 1]", ch.name, ch.value)
		}
	}
	return nil
}

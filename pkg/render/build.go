package render

import (
	"fmt"
	"image/color"
	_ "image/png"
	"io/fs"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/gonewx/wellspring/pkg/config"
	"github.com/gonewx/wellspring/pkg/particles"
)

// TintedDrawable multiplies every draw of the wrapped Drawable by a fixed
// color, for content that cannot bake its color in (text, images).
type TintedDrawable struct {
	Drawable
	Tint ebiten.ColorScale
}

func (d TintedDrawable) DrawTo(dst *ebiten.Image, geom ebiten.GeoM, tint ebiten.ColorScale, blend ebiten.Blend) {
	tint.ScaleWithColorScale(d.Tint)
	d.Drawable.DrawTo(dst, geom, tint, blend)
}

// NewDrawable builds the particle content described by a preset.
// Image paths are resolved in fsys.
func NewDrawable(cfg config.DrawableConfig, fsys fs.FS) (Drawable, error) {
	clr := cfg.TintColor()
	switch cfg.Kind {
	case config.DrawableCircle:
		return NewCircleDrawable(int(math.Ceil(cfg.Radius)), NRGBA(clr)), nil
	case config.DrawableRect:
		size, err := config.ParseVec(cfg.Size)
		if err != nil {
			return nil, fmt.Errorf("rect drawable: %w", err)
		}
		return NewRectDrawable(int(math.Ceil(size.X)), int(math.Ceil(size.Y)), NRGBA(clr)), nil
	case config.DrawableText:
		return tinted(NewTextDrawable(cfg.Text, nil), clr), nil
	case config.DrawableImage:
		if fsys == nil {
			return nil, fmt.Errorf("image drawable %s: no file system", cfg.Image)
		}
		img, _, err := ebitenutil.NewImageFromFileSystem(fsys, cfg.Image)
		if err != nil {
			return nil, fmt.Errorf("image drawable %s: %w", cfg.Image, err)
		}
		return tinted(NewImageDrawable(img), clr), nil
	default:
		return nil, fmt.Errorf("unknown drawable kind %q", cfg.Kind)
	}
}

func tinted(d Drawable, clr particles.Color) Drawable {
	if clr == particles.White {
		return d
	}
	return TintedDrawable{Drawable: d, Tint: Tint(clr)}
}

// NRGBA converts a particle color into an 8-bit straight-alpha color.
func NRGBA(c particles.Color) color.NRGBA {
	to8 := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

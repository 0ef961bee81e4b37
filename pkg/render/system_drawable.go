package render

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/wellspring/pkg/particles"
)

// SystemDrawable draws a whole particle system as one Drawable, so an
// effect can be placed, scaled or tinted like any other sprite.
// Size reports zero: a system has no fixed bounds.
type SystemDrawable struct {
	System *particles.System[Drawable]
}

func (d SystemDrawable) Size() (float64, float64) { return 0, 0 }

func (d SystemDrawable) DrawTo(dst *ebiten.Image, geom ebiten.GeoM, tint ebiten.ColorScale, blend ebiten.Blend) {
	if d.System == nil {
		return
	}
	err := d.System.Draw(particles.RendererFunc[Drawable](func(pd Drawable, inst particles.Instance) error {
		if pd == nil {
			return nil
		}
		w, h := pd.Size()
		g := InstanceGeoM(inst, w, h)
		g.Concat(geom)
		cs := Tint(inst.Color)
		cs.ScaleWithColorScale(tint)
		pd.DrawTo(dst, g, cs, blend)
		return nil
	}))
	if err != nil {
		log.Printf("[SystemDrawable] Draw failed: %v", err)
	}
}

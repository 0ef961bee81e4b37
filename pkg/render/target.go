package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/wellspring/pkg/particles"
)

// BlendAdditive 加法混合（发光效果，如火焰、火花）
var BlendAdditive = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// Target draws particle instances onto an ebiten image. It implements
// particles.Renderer[Drawable].
type Target struct {
	Screen *ebiten.Image
	// GeoM 在粒子自身变换之后应用（摄像机偏移、父变换）
	GeoM ebiten.GeoM
	// Additive 使用加法混合
	Additive bool
}

// NewTarget returns a Target with an identity transform.
func NewTarget(screen *ebiten.Image) *Target {
	return &Target{Screen: screen}
}

// RenderInstance implements particles.Renderer.
func (t *Target) RenderInstance(d Drawable, inst particles.Instance) error {
	if d == nil || t.Screen == nil {
		return nil
	}
	w, h := d.Size()
	geom := InstanceGeoM(inst, w, h)
	geom.Concat(t.GeoM)

	blend := ebiten.BlendSourceOver
	if t.Additive {
		blend = BlendAdditive
	}
	d.DrawTo(t.Screen, geom, Tint(inst.Color), blend)
	return nil
}

// InstanceGeoM builds the transform of one particle: move the anchor to
// the origin, scale, rotate, then translate to the particle position.
func InstanceGeoM(inst particles.Instance, w, h float64) ebiten.GeoM {
	var geom ebiten.GeoM
	geom.Translate(-inst.Offset.X*w, -inst.Offset.Y*h)
	geom.Scale(inst.Scale, inst.Scale)
	geom.Rotate(inst.Rotation)
	geom.Translate(inst.Position.X, inst.Position.Y)
	return geom
}

// Tint converts a straight-alpha particle color into ebiten's
// premultiplied ColorScale.
func Tint(c particles.Color) ebiten.ColorScale {
	var cs ebiten.ColorScale
	cs.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	return cs
}

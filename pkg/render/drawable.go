package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Drawable 是每个粒子绘制的内容（图片、文字、几何图形）
//
// Size 返回未缩放时的宽高，用于把归一化锚点换算成像素。
// DrawTo 使用调用方给出的完整变换与着色绘制一次。
type Drawable interface {
	Size() (width, height float64)
	DrawTo(dst *ebiten.Image, geom ebiten.GeoM, tint ebiten.ColorScale, blend ebiten.Blend)
}

// ImageDrawable draws an ebiten image.
type ImageDrawable struct {
	Image *ebiten.Image
	// Filter 默认为线性过滤，缩放后的粒子边缘更平滑
	Filter ebiten.Filter
}

// NewImageDrawable wraps img with linear filtering.
func NewImageDrawable(img *ebiten.Image) *ImageDrawable {
	return &ImageDrawable{Image: img, Filter: ebiten.FilterLinear}
}

func (d *ImageDrawable) Size() (float64, float64) {
	if d.Image == nil {
		return 0, 0
	}
	b := d.Image.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (d *ImageDrawable) DrawTo(dst *ebiten.Image, geom ebiten.GeoM, tint ebiten.ColorScale, blend ebiten.Blend) {
	if d.Image == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geom
	op.ColorScale = tint
	op.Blend = blend
	op.Filter = d.Filter
	dst.DrawImage(d.Image, op)
}

// DefaultFace is the face used by text particles when none is given.
var DefaultFace text.Face = text.NewGoXFace(basicfont.Face7x13)

// TextDrawable draws a string, e.g. floating damage numbers or a text burst.
type TextDrawable struct {
	Text string
	Face text.Face
	// LineSpacing 多行文字的行距（像素），0 表示使用字体高度
	LineSpacing float64

	width, height float64
}

// NewTextDrawable measures s once with face (DefaultFace when nil).
func NewTextDrawable(s string, face text.Face) *TextDrawable {
	if face == nil {
		face = DefaultFace
	}
	d := &TextDrawable{Text: s, Face: face}
	d.width, d.height = text.Measure(s, face, d.lineSpacing())
	return d
}

func (d *TextDrawable) lineSpacing() float64 {
	if d.LineSpacing > 0 {
		return d.LineSpacing
	}
	m := d.Face.Metrics()
	return m.HAscent + m.HDescent
}

func (d *TextDrawable) Size() (float64, float64) {
	return d.width, d.height
}

func (d *TextDrawable) DrawTo(dst *ebiten.Image, geom ebiten.GeoM, tint ebiten.ColorScale, blend ebiten.Blend) {
	op := &text.DrawOptions{}
	op.GeoM = geom
	op.ColorScale = tint
	op.Blend = blend
	op.LineSpacing = d.lineSpacing()
	text.Draw(dst, d.Text, d.Face, op)
}

// ShapeDrawable is a solid rectangle or circle rasterised once into an
// offscreen image. Particles tint it, so it is drawn in white by default.
type ShapeDrawable struct {
	ImageDrawable
}

// NewRectDrawable creates a filled w×h rectangle.
func NewRectDrawable(w, h int, clr color.Color) *ShapeDrawable {
	img := ebiten.NewImage(max(w, 1), max(h, 1))
	vector.DrawFilledRect(img, 0, 0, float32(w), float32(h), orWhite(clr), false)
	return &ShapeDrawable{ImageDrawable: *NewImageDrawable(img)}
}

// NewCircleDrawable creates a filled circle of radius r.
func NewCircleDrawable(r int, clr color.Color) *ShapeDrawable {
	d := max(2*r, 1)
	img := ebiten.NewImage(d, d)
	vector.DrawFilledCircle(img, float32(r), float32(r), float32(r), orWhite(clr), true)
	return &ShapeDrawable{ImageDrawable: *NewImageDrawable(img)}
}

func orWhite(clr color.Color) color.Color {
	if clr == nil {
		return color.White
	}
	return clr
}

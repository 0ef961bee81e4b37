package particles

// Host-facing interfaces (宿主接口)
//
// The simulation needs only two things from the engine it runs in: the
// time elapsed since the previous frame, and a way to draw one copy of a
// drawable at a position, scale, rotation, anchor and tint.

// Clock reports the seconds elapsed since the previous frame.
type Clock interface {
	Delta() float64
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() float64

func (f ClockFunc) Delta() float64 { return f() }

// FixedClock always reports the same frame duration, e.g. 1.0/60.
type FixedClock float64

func (c FixedClock) Delta() float64 { return float64(c) }

// Instance is the per-particle draw request handed to a Renderer.
type Instance struct {
	// Position is the destination of the anchor point.
	Position Vec2
	// Scale is applied uniformly on both axes.
	Scale float64
	// Rotation in radians around the anchor.
	Rotation float64
	// Offset is the anchor in normalized drawable coordinates.
	Offset Vec2
	// Color tints the drawable.
	Color Color
}

// Renderer draws one instance of a drawable of type D. Errors are returned
// to the caller of System.Draw untouched.
type Renderer[D any] interface {
	RenderInstance(drawable D, inst Instance) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc[D any] func(drawable D, inst Instance) error

func (f RendererFunc[D]) RenderInstance(drawable D, inst Instance) error {
	return f(drawable, inst)
}

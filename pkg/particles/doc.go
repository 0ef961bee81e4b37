// Package particles implements a small 2D particle emitter.
//
// A System spawns particles from an emitter shape at a configurable rate,
// integrates their motion (constant, radial and tangential acceleration,
// damping, spin) and evaluates per-particle size and color curves over the
// normalized lifetime. Drawing is delegated to the host through Renderer,
// so the package itself has no engine dependency; pkg/render provides the
// ebiten adapters.
//
// Typical frame loop:
//
//	sys, err := particles.NewSystem(drawable, settings)
//	...
//	func (g *Game) Update() error { return sys.Update(clock) }
//	func (g *Game) Draw(screen *ebiten.Image) { _ = sys.Draw(target) }
package particles

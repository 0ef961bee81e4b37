package particles

import (
	"math"

	"github.com/gonewx/wellspring/pkg/utils"
)

// Particle is one simulated particle. All of its configuration is copied
// from the System settings at spawn time; only position, velocity, angle
// and time change afterwards.
type Particle struct {
	position Vec2
	velocity Vec2

	// constant for the whole life
	acceleration           Vec2
	radialAcceleration     float64
	tangentialAcceleration float64
	damping                float64
	spin                   float64
	lifetime               float64

	angle float64
	time  float64 // normalized age, dies at >= 1

	sizes            []float64
	colors           []Color
	useRelativeAngle bool
	offset           Vec2
}

// advance integrates one step of dt seconds. emitter is the current
// emitter center used for radial and tangential forces.
func (p *Particle) advance(dt float64, emitter Vec2) {
	// Normalized returns the zero vector on top of the emitter, so the
	// radial and tangential terms vanish instead of producing NaN.
	radial := p.position.Sub(emitter).Normalized()
	tangential := radial.Perp()

	p.time += dt / p.lifetime

	force := p.acceleration.
		Add(radial.Scale(p.radialAcceleration)).
		Add(tangential.Scale(p.tangentialAcceleration))
	p.velocity = p.velocity.Add(force.Scale(dt))
	p.velocity = p.velocity.Scale(1 / (1 + p.damping*dt))

	p.position = p.position.Add(p.velocity.Scale(dt))
	p.angle += p.spin * dt
}

// Expired reports whether the particle has reached the end of its life.
func (p *Particle) Expired() bool {
	return p.time >= 1
}

func (p *Particle) Position() Vec2    { return p.position }
func (p *Particle) Velocity() Vec2    { return p.velocity }
func (p *Particle) Lifetime() float64 { return p.lifetime }

// Time returns the normalized age; 0 at birth, 1 at death.
func (p *Particle) Time() float64 { return p.time }

// Size returns the current uniform scale from the size curve.
func (p *Particle) Size() float64 {
	return EvaluateCurve(p.sizes, utils.Clamp01(p.time))
}

// Color returns the current tint from the color curve.
func (p *Particle) Color() Color {
	return EvaluateColorCurve(p.colors, utils.Clamp01(p.time))
}

// Angle returns the visual rotation: the heading of the velocity when the
// particle uses relative angles, the accumulated spin angle otherwise.
func (p *Particle) Angle() float64 {
	if p.useRelativeAngle {
		return math.Atan2(p.velocity.Y, p.velocity.X)
	}
	return p.angle
}

// Instance describes how the particle should be drawn this frame.
func (p *Particle) Instance() Instance {
	return Instance{
		Position: p.position,
		Scale:    p.Size(),
		Rotation: p.Angle(),
		Offset:   p.offset,
		Color:    p.Color(),
	}
}

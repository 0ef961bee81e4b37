package particles

import (
	"math"
	"testing"
)

func newTestParticle() *Particle {
	return &Particle{
		lifetime: 1,
		sizes:    []float64{1},
		colors:   []Color{White},
		offset:   V(0.5, 0.5),
	}
}

func TestParticleAdvance_Motion(t *testing.T) {
	p := newTestParticle()
	p.velocity = V(10, 0)
	p.acceleration = V(0, 20)
	p.spin = 2

	p.advance(0.5, V(1000, 1000))

	// 先更新速度，再用新速度更新位置
	if want := V(10, 10); p.velocity != want {
		t.Errorf("velocity = %v, want %v", p.velocity, want)
	}
	if want := V(5, 5); p.position != want {
		t.Errorf("position = %v, want %v", p.position, want)
	}
	if p.angle != 1 {
		t.Errorf("angle = %v, want 1", p.angle)
	}
	if p.time != 0.5 {
		t.Errorf("time = %v, want 0.5", p.time)
	}
}

func TestParticleAdvance_Damping(t *testing.T) {
	p := newTestParticle()
	p.velocity = V(30, 0)
	p.damping = 2

	p.advance(1, Vec2{})

	if !almostEqual(p.velocity.X, 10) || p.velocity.Y != 0 {
		t.Errorf("velocity = %v, want (10, 0)", p.velocity)
	}
}

func TestParticleAdvance_RadialAndTangential(t *testing.T) {
	p := newTestParticle()
	p.position = V(10, 0)
	p.radialAcceleration = 4
	p.tangentialAcceleration = 2

	p.advance(1, Vec2{})

	// radial = (1, 0)，tangential = (0, 1)
	if want := V(4, 2); p.velocity != want {
		t.Errorf("velocity = %v, want %v", p.velocity, want)
	}
}

// TestParticleAdvance_OnEmitter 粒子与发射器重合时径向力为零，不产生 NaN
func TestParticleAdvance_OnEmitter(t *testing.T) {
	p := newTestParticle()
	p.position = V(3, 3)
	p.radialAcceleration = 100
	p.tangentialAcceleration = 50

	p.advance(0.1, V(3, 3))

	if !p.position.IsFinite() || !p.velocity.IsFinite() {
		t.Fatalf("non-finite state: position %v, velocity %v", p.position, p.velocity)
	}
	if p.velocity != (Vec2{}) {
		t.Errorf("velocity = %v, want zero", p.velocity)
	}
}

func TestParticleExpired(t *testing.T) {
	p := newTestParticle()
	p.lifetime = 2

	p.advance(1.5, Vec2{})
	if p.Expired() {
		t.Fatal("particle expired too early")
	}
	p.advance(0.5, Vec2{})
	if !p.Expired() {
		t.Errorf("particle should expire at time %v", p.Time())
	}
}

func TestParticleAngle(t *testing.T) {
	p := newTestParticle()
	p.velocity = V(0, 5)
	p.angle = 0.25

	if got := p.Angle(); got != 0.25 {
		t.Errorf("absolute angle = %v, want 0.25", got)
	}

	p.useRelativeAngle = true
	if got := p.Angle(); !almostEqual(got, math.Pi/2) {
		t.Errorf("relative angle = %v, want π/2", got)
	}
}

func TestParticleInstance(t *testing.T) {
	p := newTestParticle()
	p.position = V(4, 8)
	p.sizes = []float64{1, 3}
	p.colors = []Color{White, Transparent}
	p.time = 0.5
	p.angle = 1.5

	inst := p.Instance()
	if inst.Position != V(4, 8) {
		t.Errorf("Position = %v", inst.Position)
	}
	if inst.Scale != 2 {
		t.Errorf("Scale = %v, want 2", inst.Scale)
	}
	if inst.Rotation != 1.5 {
		t.Errorf("Rotation = %v, want 1.5", inst.Rotation)
	}
	if inst.Offset != V(0.5, 0.5) {
		t.Errorf("Offset = %v", inst.Offset)
	}
	if inst.Color.A != 0.5 {
		t.Errorf("Color alpha = %v, want 0.5", inst.Color.A)
	}
}

func TestParticleSize_ClampsPastDeath(t *testing.T) {
	p := newTestParticle()
	p.sizes = []float64{1, 3}
	p.time = 1.2
	if got := p.Size(); got != 3 {
		t.Errorf("Size() past death = %v, want 3", got)
	}
}

package particles

import (
	"fmt"
	"iter"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
)

// System is a particle emitter together with the particles it has emitted.
// D is whatever the host draws for each particle (an image, a mesh, text).
//
// A System is not safe for concurrent use; drive it from the frame loop.
type System[D any] struct {
	// Settings may be edited between frames. Changes only affect particles
	// spawned afterwards.
	Settings Settings

	drawable  D
	particles []*Particle
	rng       *rand.Rand
	logger    *slog.Logger

	running   bool
	emitTimer float64
	time      float64
	launched  uint64
}

// NewSystem creates a running System. The settings are validated and deep
// copied.
func NewSystem[D any](drawable D, settings Settings, opts ...Option) (*System[D], error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	o := systemOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	return &System[D]{
		Settings:  settings.Clone(),
		drawable:  drawable,
		rng:       o.rng,
		logger:    o.logger,
		running:   true,
		emitTimer: 1,
	}, nil
}

// SetSettings validates and replaces the settings.
func (s *System[D]) SetSettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		s.logger.Warn("[ParticleSystem] rejected settings", "err", err)
		return err
	}
	s.Settings = settings.Clone()
	return nil
}

// Drawable returns the drawable supplied at construction.
func (s *System[D]) Drawable() D { return s.drawable }

// Start resumes automatic emission. Calling Start on a running System does
// nothing; otherwise the emission timer and the emitter clock are reset.
func (s *System[D]) Start() {
	if s.running {
		return
	}
	s.running = true
	s.emitTimer = 1
	s.time = 0
	s.logger.Debug("[ParticleSystem] started")
}

// Stop halts automatic emission. Live particles keep moving and ageing.
func (s *System[D]) Stop() {
	if s.running {
		s.logger.Debug("[ParticleSystem] stopped", "live", len(s.particles))
	}
	s.running = false
}

// Running reports whether the System emits on its own.
func (s *System[D]) Running() bool { return s.running }

// Count returns the number of live particles.
func (s *System[D]) Count() int { return len(s.particles) }

// Launched returns how many particles were spawned since construction.
func (s *System[D]) Launched() uint64 { return s.launched }

// Elapsed returns the running time since the last (re)start in seconds.
func (s *System[D]) Elapsed() float64 { return s.time }

// Clear removes every live particle without touching the emitter state.
func (s *System[D]) Clear() {
	clear(s.particles)
	s.particles = s.particles[:0]
}

// Particles iterates the live particles in spawn order. The particles must
// not be retained past the next Advance.
func (s *System[D]) Particles() iter.Seq[*Particle] {
	return func(yield func(*Particle) bool) {
		for _, p := range s.particles {
			if !yield(p) {
				return
			}
		}
	}
}

// Emit spawns exactly n particles now, whether or not the System is running.
func (s *System[D]) Emit(n int) error {
	if n < 0 {
		return fmt.Errorf("emit count %d must not be negative", n)
	}
	if err := s.Settings.Validate(); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	s.spawn(n, s.Settings.Clone())
	s.logger.Debug("[ParticleSystem] burst", "count", n)
	return nil
}

// spawn appends n particles sampled from settings. The curve slices in
// settings must already be private copies; particles of one batch share
// them read-only.
func (s *System[D]) spawn(n int, settings Settings) {
	s.particles = slices.Grow(s.particles, n)
	for range n {
		angle := Between(settings.Angle-settings.Spread/2, settings.Angle+settings.Spread/2).Sample(s.rng)
		speed := settings.Speed.Sample(s.rng)
		sin, cos := math.Sincos(angle)

		s.particles = append(s.particles, &Particle{
			position:               settings.Position.Add(settings.Shape.SampleOffset(s.rng)),
			velocity:               Vec2{cos * speed, sin * speed},
			acceleration:           settings.Acceleration.Sample(s.rng),
			radialAcceleration:     settings.RadialAcceleration.Sample(s.rng),
			tangentialAcceleration: settings.TangentialAcceleration.Sample(s.rng),
			damping:                settings.Damping.Sample(s.rng),
			spin:                   settings.Spin.Sample(s.rng),
			lifetime:               settings.ParticleLifetime.Sample(s.rng),
			sizes:                  settings.Sizes,
			colors:                 settings.Colors,
			useRelativeAngle:       settings.UseRelativeAngle,
			offset:                 settings.Offset,
		})
	}
	s.launched += uint64(n)
}

// Advance steps the simulation by dt seconds, which must be finite and
// non-negative. Automatic emission runs first, then every particle moves
// and the expired ones are dropped.
func (s *System[D]) Advance(dt float64) error {
	if !(dt >= 0) || math.IsInf(dt, 1) {
		return fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}
	if err := s.Settings.Validate(); err != nil {
		return err
	}

	if s.running {
		s.emitTimer -= s.Settings.EmissionRate * dt
		if s.emitTimer <= 0 {
			// 每帧只复制一次曲线，本帧补发的粒子共享这份快照
			n := int(math.Floor(-s.emitTimer)) + 1
			s.emitTimer += float64(n)
			s.spawn(n, s.Settings.Clone())
		}
		s.time += dt
		if secs, finite := s.Settings.EmitterLifetime.Seconds(); finite && s.time >= secs {
			s.logger.Info("[ParticleSystem] emitter lifetime elapsed", "seconds", secs)
			s.Stop()
		}
	}

	emitter := s.Settings.Position
	alive := s.particles[:0]
	for _, p := range s.particles {
		p.advance(dt, emitter)
		if !p.Expired() {
			alive = append(alive, p)
		}
	}
	clear(s.particles[len(alive):])
	s.particles = alive
	return nil
}

// Update advances the System by the clock's frame delta.
func (s *System[D]) Update(clock Clock) error {
	return s.Advance(clock.Delta())
}

// Draw hands every live particle to r, oldest first. The first renderer
// error stops drawing and is returned unchanged.
func (s *System[D]) Draw(r Renderer[D]) error {
	for _, p := range s.particles {
		if err := r.RenderInstance(s.drawable, p.Instance()); err != nil {
			return err
		}
	}
	return nil
}

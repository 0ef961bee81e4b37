package particles

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrInvalidSettings is wrapped by every settings validation failure.
	ErrInvalidSettings = errors.New("invalid particle settings")
	// ErrInvalidDelta is returned when a frame is advanced by a negative or NaN delta.
	ErrInvalidDelta = errors.New("invalid delta time")
)

// EmitterLifetime says how long a running emitter keeps producing particles.
// The zero value is Infinite.
type EmitterLifetime struct {
	seconds float64
	finite  bool
}

// Infinite keeps the emitter running until Stop is called.
func Infinite() EmitterLifetime { return EmitterLifetime{} }

// Finite stops the emitter after the given number of running seconds.
func Finite(seconds float64) EmitterLifetime {
	return EmitterLifetime{seconds: seconds, finite: true}
}

// Seconds returns the finite duration and whether the lifetime is finite.
func (l EmitterLifetime) Seconds() (float64, bool) {
	return l.seconds, l.finite
}

func (l EmitterLifetime) String() string {
	if !l.finite {
		return "infinite"
	}
	return fmt.Sprintf("%gs", l.seconds)
}

// Settings configures a System. Every field is read when a particle is
// spawned and copied into it, so editing Settings only changes particles
// emitted afterwards.
type Settings struct {
	// Position 发射器中心（世界坐标）
	Position Vec2
	// EmitterLifetime 发射器持续时间
	EmitterLifetime EmitterLifetime
	// ParticleLifetime 粒子存活时间（秒）
	ParticleLifetime Range
	// EmissionRate 每秒发射的粒子数
	EmissionRate float64
	// Shape 发射区域
	Shape Shape
	// Speed 初速度（像素/秒）
	Speed Range
	// Angle 发射方向（弧度），Spread 为方向的总扩散角
	Angle  float64
	Spread float64
	// Sizes 生命周期内的缩放关键帧
	Sizes []float64
	// Colors 生命周期内的颜色关键帧
	Colors []Color
	// Spin 角速度（弧度/秒）
	Spin Range
	// UseRelativeAngle 粒子朝向始终等于运动方向
	UseRelativeAngle bool
	// Damping 速度阻尼
	Damping Range
	// Acceleration 恒定加速度（像素/秒²）
	Acceleration VecRange
	// RadialAcceleration 沿发射器中心→粒子方向的加速度
	RadialAcceleration Range
	// TangentialAcceleration 垂直于径向的加速度
	TangentialAcceleration Range
	// Offset 缩放与旋转的锚点（归一化坐标，0.5,0.5 为中心）
	Offset Vec2
}

// DefaultSettings returns the baseline configuration: a point emitter
// producing ten one-second white particles per second in every direction.
func DefaultSettings() Settings {
	return Settings{
		EmitterLifetime:  Infinite(),
		ParticleLifetime: Fixed(1),
		EmissionRate:     10,
		Shape:            PointShape(),
		Speed:            Between(10, 100),
		Spread:           2 * math.Pi,
		Sizes:            []float64{1},
		Colors:           []Color{White},
		Offset:           Vec2{0.5, 0.5},
	}
}

// Clone returns a deep copy; the curve slices are not shared.
func (s Settings) Clone() Settings {
	s.Sizes = slices.Clone(s.Sizes)
	s.Colors = slices.Clone(s.Colors)
	return s
}

// Validate reports the first configuration problem found, wrapped in
// ErrInvalidSettings.
func (s Settings) Validate() error {
	if err := s.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

func (s Settings) validate() error {
	if len(s.Sizes) == 0 {
		return errors.New("sizes must contain at least one key")
	}
	if len(s.Colors) == 0 {
		return errors.New("colors must contain at least one key")
	}
	for i, c := range s.Colors {
		if err := c.validate(); err != nil {
			return fmt.Errorf("colors[%d]: %v", i, err)
		}
	}
	for i, size := range s.Sizes {
		if !isFinite(size) {
			return fmt.Errorf("sizes[%d] = %v is not finite", i, size)
		}
	}
	// time += dt / lifetime：寿命必须为正，否则会产生 Inf/NaN 粒子
	lt := s.ParticleLifetime
	if !(lt.Min > 0) || !(lt.Max > 0) || !isFinite(lt.Min) || !isFinite(lt.Max) {
		return fmt.Errorf("particle lifetime [%v %v] must be positive and finite", lt.Min, lt.Max)
	}
	if !(s.EmissionRate >= 0) || !isFinite(s.EmissionRate) {
		return fmt.Errorf("emission rate %v must be a finite value >= 0", s.EmissionRate)
	}
	if secs, finite := s.EmitterLifetime.Seconds(); finite && (!(secs > 0) || !isFinite(secs)) {
		return fmt.Errorf("finite emitter lifetime %v must be positive", secs)
	}
	if err := s.Shape.validate(); err != nil {
		return err
	}
	for _, r := range [...]struct {
		name string
		Range
	}{
		{"speed", s.Speed},
		{"spin", s.Spin},
		{"damping", s.Damping},
		{"radial acceleration", s.RadialAcceleration},
		{"tangential acceleration", s.TangentialAcceleration},
	} {
		if !isFinite(r.Min) || !isFinite(r.Max) {
			return fmt.Errorf("%s range [%v %v] is not finite", r.name, r.Min, r.Max)
		}
	}
	if s.Damping.Min < 0 || s.Damping.Max < 0 {
		return fmt.Errorf("damping range [%v %v] must not be negative", s.Damping.Min, s.Damping.Max)
	}
	if !s.Acceleration.Min.IsFinite() || !s.Acceleration.Max.IsFinite() {
		return errors.New("acceleration range is not finite")
	}
	if !s.Position.IsFinite() || !s.Offset.IsFinite() || !isFinite(s.Angle) || !isFinite(s.Spread) {
		return errors.New("position, offset, angle and spread must be finite")
	}
	return nil
}

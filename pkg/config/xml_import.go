package config

import (
	"fmt"
	"math"

	"github.com/gonewx/wellspring/internal/particle"
	"github.com/gonewx/wellspring/pkg/particles"
	"github.com/gonewx/wellspring/pkg/utils"
)

const (
	// xmlTimeStep 原版物理固定步长（1 厘秒）
	xmlTimeStep = 0.01
	// xmlCurveKeys 动画曲线重采样的关键帧数量
	xmlCurveKeys = 8
	// xmlDefaultRadius 导入的粒子用圆点代替原版贴图
	xmlDefaultRadius = 4
)

// FromEmitterXML 把 PopCap 风格的 <Emitter> 转换为特效预设
//
// 单位换算:
//   - ParticleDuration / SystemDuration: 厘秒 → 秒
//   - LaunchAngle: 度数范围 → 中心角 + 扩散角（屏幕坐标系，无需翻转）
//   - ParticleSpinSpeed: 度/秒
//   - Acceleration 场: 每 0.01 秒的速度增量 → 像素/秒²
//   - Friction 场: 每秒系数 → 阻尼
//
// 原版贴图无法在此加载，粒子以圆点绘制；贴图 ID 写入 Description。
func FromEmitterXML(e *particle.EmitterConfig) (*EffectConfig, error) {
	s, burst, err := emitterSettings(e)
	if err != nil {
		return nil, fmt.Errorf("%w: emitter %s: %v", ErrInvalidEffect, e.Name, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: emitter %s: %w", ErrInvalidEffect, e.Name, err)
	}

	cfg := FromSettings(e.Name, s)
	cfg.Burst = burst
	cfg.Additive = particle.Flag(e.Additive)
	cfg.Drawable = DrawableConfig{Kind: DrawableCircle, Radius: xmlDefaultRadius}
	cfg.Description = "imported from particle XML emitter " + e.Name
	if e.Image != "" {
		cfg.Description += " (image " + e.Image + ")"
	}
	return cfg, nil
}

// FromParticleXML 转换文件中的所有发射器
func FromParticleXML(pc *particle.ParticleConfig) ([]*EffectConfig, error) {
	out := make([]*EffectConfig, 0, len(pc.Emitters))
	for i := range pc.Emitters {
		cfg, err := FromEmitterXML(&pc.Emitters[i])
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}

func emitterSettings(e *particle.EmitterConfig) (particles.Settings, int, error) {
	s := particles.DefaultSettings()
	var values struct {
		rate, minActive, maxLaunched, duration, systemDuration particle.Value
		speed, angle, spin, scale                             particle.Value
		red, green, blue, alpha                               particle.Value
		boxX, boxY, radius, offsetX, offsetY                  particle.Value
	}
	for _, f := range [...]struct {
		name string
		src  string
		dst  *particle.Value
	}{
		{"SpawnRate", e.SpawnRate, &values.rate},
		{"SpawnMinActive", e.SpawnMinActive, &values.minActive},
		{"SpawnMaxLaunched", e.SpawnMaxLaunched, &values.maxLaunched},
		{"ParticleDuration", e.ParticleDuration, &values.duration},
		{"SystemDuration", e.SystemDuration, &values.systemDuration},
		{"LaunchSpeed", e.LaunchSpeed, &values.speed},
		{"LaunchAngle", e.LaunchAngle, &values.angle},
		{"ParticleSpinSpeed", e.ParticleSpinSpeed, &values.spin},
		{"ParticleScale", e.ParticleScale, &values.scale},
		{"ParticleRed", e.ParticleRed, &values.red},
		{"ParticleGreen", e.ParticleGreen, &values.green},
		{"ParticleBlue", e.ParticleBlue, &values.blue},
		{"ParticleAlpha", e.ParticleAlpha, &values.alpha},
		{"EmitterBoxX", e.EmitterBoxX, &values.boxX},
		{"EmitterBoxY", e.EmitterBoxY, &values.boxY},
		{"EmitterRadius", e.EmitterRadius, &values.radius},
		{"EmitterOffsetX", e.EmitterOffsetX, &values.offsetX},
		{"EmitterOffsetY", e.EmitterOffsetY, &values.offsetY},
	} {
		v, err := particle.ParseValue(f.src)
		if err != nil {
			return s, 0, fmt.Errorf("%s: %v", f.name, err)
		}
		*f.dst = v
	}

	// 发射速率；SpawnRate 为 0 时一次性发射 SpawnMinActive 个粒子
	burst := 0
	s.EmissionRate = values.rate.Mid()
	if s.EmissionRate == 0 {
		burst = int(math.Round(values.minActive.Mid()))
	}

	// 系统持续时间；未配置时由 SpawnMaxLaunched / SpawnRate 推算
	if sd := values.systemDuration.Mid(); sd > 0 {
		s.EmitterLifetime = particles.Finite(sd / 100)
	} else if maxLaunched := values.maxLaunched.Mid(); maxLaunched > 0 && s.EmissionRate > 0 {
		s.EmitterLifetime = particles.Finite(maxLaunched / s.EmissionRate)
	}

	// 粒子寿命；未配置时使用系统持续时间，再退回默认 1 秒
	switch {
	case values.duration.Max > 0:
		s.ParticleLifetime = particles.Between(
			math.Max(values.duration.Min, 1)/100, values.duration.Max/100)
	case values.systemDuration.Mid() > 0:
		s.ParticleLifetime = particles.Fixed(values.systemDuration.Mid() / 100)
	}

	s.Speed = particles.Between(values.speed.Min, values.speed.Max)

	// 发射角度：范围 [a b] → 中心 + 扩散
	switch {
	case e.LaunchAngle != "":
		s.Angle = particle.Degrees(values.angle.Mid())
		s.Spread = particle.Degrees(math.Abs(values.angle.Max - values.angle.Min))
	case e.EmitterType == "Circle" || !values.radius.IsZero():
		s.Angle, s.Spread = 0, 2*math.Pi
	default:
		s.Angle, s.Spread = 0, 0
	}

	s.Spin = particles.Between(particle.Degrees(values.spin.Min), particle.Degrees(values.spin.Max))
	s.UseRelativeAngle = particle.Flag(e.AlignLaunchSpin)

	s.Sizes = curveKeys(e.ParticleScale, values.scale, 1, math.Inf(-1), math.Inf(1))
	s.Colors = colorKeys(
		curveKeys(e.ParticleRed, values.red, 1, 0, 1),
		curveKeys(e.ParticleGreen, values.green, 1, 0, 1),
		curveKeys(e.ParticleBlue, values.blue, 1, 0, 1),
		curveKeys(e.ParticleAlpha, values.alpha, 1, 0, 1),
	)

	// 发射区域
	offset := particles.V(values.offsetX.Mid(), values.offsetY.Mid())
	switch {
	case e.EmitterType == "Box" || e.EmitterType == "BoxPath":
		size := particles.V(values.boxX.Max-values.boxX.Min, values.boxY.Max-values.boxY.Min)
		offset = offset.Add(particles.V(values.boxX.Mid(), values.boxY.Mid()))
		switch {
		case size.X == 0 && size.Y == 0:
			s.Shape = particles.PointShape()
		case e.EmitterType == "BoxPath":
			s.Shape = particles.RectangleBorder(size, 0)
		default:
			s.Shape = particles.Rectangle(size, 0)
		}
	case values.radius.Max > 0:
		r := values.radius.Max
		s.Shape = particles.Ellipse(particles.V(r, r), 0)
	default:
		s.Shape = particles.PointShape()
	}
	s.Position = offset

	for _, f := range e.Fields {
		if err := applyField(&s, f); err != nil {
			return s, 0, fmt.Errorf("field %s: %v", f.FieldType, err)
		}
	}
	return s, burst, nil
}

// applyField 把力场折算为恒定加速度或阻尼；关键帧取起始值
func applyField(s *particles.Settings, f particle.Field) error {
	x, err := particle.ParseValue(f.X)
	if err != nil {
		return err
	}
	y, err := particle.ParseValue(f.Y)
	if err != nil {
		return err
	}
	switch f.FieldType {
	case particle.FieldAcceleration:
		s.Acceleration = particles.VecRange{
			Min: s.Acceleration.Min.Add(particles.V(x.Min, y.Min).Scale(1 / xmlTimeStep)),
			Max: s.Acceleration.Max.Add(particles.V(x.Max, y.Max).Scale(1 / xmlTimeStep)),
		}
	case particle.FieldFriction:
		// 阻尼作用于整个速度向量，取两个分量中较大的系数
		s.Damping = particles.Between(math.Max(x.Min, y.Min), math.Max(x.Max, y.Max))
	default:
		particles.Logger().Debug("ignoring unsupported particle field", "type", f.FieldType)
	}
	return nil
}

// curveKeys 把属性转换为曲线关键帧：静态值取范围中点，未配置时使用 def
func curveKeys(raw string, v particle.Value, def, lo, hi float64) []float64 {
	switch {
	case raw == "":
		return []float64{def}
	case !v.Animated():
		return []float64{utils.Clamp(v.Mid(), lo, hi)}
	default:
		return v.Clamped(lo, hi).Resample(xmlCurveKeys)
	}
}

// colorKeys 合并四个通道；关键帧数量不同的通道按归一化时间重新取值
func colorKeys(r, g, b, a []float64) []particles.Color {
	channels := [4][]float64{r, g, b, a}
	n := 1
	for _, ch := range channels {
		n = max(n, len(ch))
	}
	colors := make([]particles.Color, n)
	for i := range colors {
		var c [4]float64
		for j, ch := range channels {
			if len(ch) == n {
				c[j] = ch[i]
			} else {
				c[j] = particles.EvaluateCurve(ch, float64(i)/float64(n-1))
			}
		}
		colors[i] = particles.RGBA(c[0], c[1], c[2], c[3])
	}
	return colors
}

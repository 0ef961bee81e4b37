package config

import (
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/gonewx/wellspring/internal/particle"
	"github.com/gonewx/wellspring/pkg/particles"
)

var repoFS = os.DirFS("../..")

func loadEmitter(t *testing.T, file, name string) *particle.EmitterConfig {
	t.Helper()
	pc, err := particle.LoadParticleXML(repoFS, file)
	if err != nil {
		t.Fatalf("LoadParticleXML(%s): %v", file, err)
	}
	e, ok := pc.Emitter(name)
	if !ok {
		t.Fatalf("emitter %s not found in %s", name, file)
	}
	return e
}

// TestFromEmitterXML_Planting 测试一次性爆发、圆形发射区域和力场换算
func TestFromEmitterXML_Planting(t *testing.T) {
	cfg, err := FromEmitterXML(loadEmitter(t, "data/particles/Planting.xml", "Planting"))
	if err != nil {
		t.Fatalf("FromEmitterXML: %v", err)
	}
	if cfg.Burst != 12 || *cfg.EmissionRate != 0 {
		t.Errorf("burst/rate = %d/%v, want 12/0", cfg.Burst, *cfg.EmissionRate)
	}
	if cfg.Additive {
		t.Error("Planting is not additive")
	}
	if cfg.Drawable.Kind != DrawableCircle {
		t.Errorf("drawable = %+v", cfg.Drawable)
	}

	s, err := cfg.ToSettings()
	if err != nil {
		t.Fatalf("ToSettings: %v", err)
	}
	if secs, finite := s.EmitterLifetime.Seconds(); !finite || !almostEqual(secs, 0.6) {
		t.Errorf("emitter lifetime = %v, want 0.6s", s.EmitterLifetime)
	}
	if !almostEqual(s.ParticleLifetime.Min, 0.45) || !almostEqual(s.ParticleLifetime.Max, 0.7) {
		t.Errorf("particle lifetime = %+v", s.ParticleLifetime)
	}
	// [110 250] → 中心 180°，扩散 140°
	if !almostEqual(s.Angle, math.Pi) || !almostEqual(s.Spread, 140*math.Pi/180) {
		t.Errorf("angle/spread = %v/%v", s.Angle, s.Spread)
	}
	if s.Shape.Kind != particles.ShapeEllipse || s.Shape.Size != particles.V(10, 10) {
		t.Errorf("shape = %+v", s.Shape)
	}
	// Acceleration Y=6 每厘秒 → 600 px/s²
	if !almostEqual(s.Acceleration.Min.Y, 600) || s.Acceleration.Min.X != 0 {
		t.Errorf("acceleration = %+v", s.Acceleration)
	}
	if !almostEqual(s.Damping.Min, 0.5) {
		t.Errorf("damping = %+v", s.Damping)
	}
	if len(s.Sizes) != xmlCurveKeys || !almostEqual(s.Sizes[0], 0.5) || !almostEqual(s.Sizes[len(s.Sizes)-1], 1) {
		t.Errorf("sizes = %v", s.Sizes)
	}
	first, last := s.Colors[0], s.Colors[len(s.Colors)-1]
	if !almostEqual(first.R, 0.55) || !almostEqual(first.A, 0.9) || last.A != 0 {
		t.Errorf("colors = %v ... %v", first, last)
	}
}

func TestFromEmitterXML_AwardSparkle(t *testing.T) {
	cfg, err := FromEmitterXML(loadEmitter(t, "data/particles/Award.xml", "AwardSparkle"))
	if err != nil {
		t.Fatalf("FromEmitterXML: %v", err)
	}
	if !cfg.Additive || cfg.Burst != 0 {
		t.Errorf("additive/burst = %v/%d", cfg.Additive, cfg.Burst)
	}
	s, err := cfg.ToSettings()
	if err != nil {
		t.Fatalf("ToSettings: %v", err)
	}
	if s.Shape.Kind != particles.ShapeRectangle || s.Shape.Size != particles.V(80, 40) {
		t.Errorf("shape = %+v", s.Shape)
	}
	if s.Position != particles.V(0, 0) {
		t.Errorf("centred box should not move the emitter: %v", s.Position)
	}
	if !s.UseRelativeAngle {
		t.Error("AlignLaunchSpin should map to UseRelativeAngle")
	}
	if secs, _ := s.EmitterLifetime.Seconds(); !almostEqual(secs, 3) {
		t.Errorf("emitter lifetime = %v, want 3s", s.EmitterLifetime)
	}
	// 未配置 LaunchAngle 且不是圆形发射器：固定向右
	if s.Angle != 0 || s.Spread != 0 {
		t.Errorf("angle/spread = %v/%v, want 0/0", s.Angle, s.Spread)
	}
}

func TestFromEmitterXML_AwardRaysDescription(t *testing.T) {
	cfg, err := FromEmitterXML(loadEmitter(t, "data/particles/Award.xml", "AwardRays"))
	if err != nil {
		t.Fatalf("FromEmitterXML: %v", err)
	}
	if !strings.Contains(cfg.Description, "IMAGE_AWARDRAYS") {
		t.Errorf("description should keep the image id: %q", cfg.Description)
	}
	s, _ := cfg.ToSettings()
	if !almostEqual(s.ParticleLifetime.Min, 1.5) {
		t.Errorf("particle lifetime = %+v, want 1.5s", s.ParticleLifetime)
	}
	if _, finite := s.EmitterLifetime.Seconds(); finite {
		t.Error("AwardRays has no SystemDuration and should run forever")
	}
	// 动画透明度曲线：0 → 1 → 0
	if s.Colors[0].A != 0 || s.Colors[len(s.Colors)-1].A != 0 {
		t.Errorf("alpha curve = %v", s.Colors)
	}
}

func TestFromEmitterXML_Defaults(t *testing.T) {
	tests := []struct {
		name  string
		e     particle.EmitterConfig
		check func(*testing.T, particles.Settings, *EffectConfig)
	}{
		{
			name: "circle without angle spreads all around",
			e:    particle.EmitterConfig{Name: "c", SpawnRate: "5", EmitterType: "Circle"},
			check: func(t *testing.T, s particles.Settings, _ *EffectConfig) {
				if !almostEqual(s.Spread, 2*math.Pi) {
					t.Errorf("spread = %v, want 2π", s.Spread)
				}
				if s.Shape.Kind != particles.ShapePoint {
					t.Errorf("circle without radius should be a point: %+v", s.Shape)
				}
			},
		},
		{
			name: "max launched bounds the emitter",
			e:    particle.EmitterConfig{Name: "m", SpawnRate: "10", SpawnMaxLaunched: "5"},
			check: func(t *testing.T, s particles.Settings, _ *EffectConfig) {
				if secs, finite := s.EmitterLifetime.Seconds(); !finite || !almostEqual(secs, 0.5) {
					t.Errorf("emitter lifetime = %v, want 0.5s", s.EmitterLifetime)
				}
			},
		},
		{
			name: "missing duration falls back to system duration",
			e:    particle.EmitterConfig{Name: "d", SpawnRate: "1", SystemDuration: "200"},
			check: func(t *testing.T, s particles.Settings, _ *EffectConfig) {
				if s.ParticleLifetime != particles.Fixed(2) {
					t.Errorf("particle lifetime = %+v, want 2s", s.ParticleLifetime)
				}
			},
		},
		{
			name: "box path with offset",
			e: particle.EmitterConfig{
				Name: "b", SpawnRate: "1", EmitterType: "BoxPath",
				EmitterBoxX: "[0 20]", EmitterBoxY: "[0 10]", EmitterOffsetX: "5",
			},
			check: func(t *testing.T, s particles.Settings, _ *EffectConfig) {
				if s.Shape.Kind != particles.ShapeRectangleBorder || s.Shape.Size != particles.V(20, 10) {
					t.Errorf("shape = %+v", s.Shape)
				}
				if s.Position != particles.V(15, 5) {
					t.Errorf("position = %v, want (15, 5)", s.Position)
				}
			},
		},
		{
			name: "explicit zero channel is kept",
			e:    particle.EmitterConfig{Name: "z", SpawnRate: "1", ParticleRed: "0"},
			check: func(t *testing.T, s particles.Settings, _ *EffectConfig) {
				if s.Colors[0] != particles.RGBA(0, 1, 1, 1) {
					t.Errorf("colors = %v, want cyan", s.Colors)
				}
			},
		},
		{
			name: "unknown field is ignored",
			e: particle.EmitterConfig{Name: "f", SpawnRate: "1",
				Fields: []particle.Field{{FieldType: "Attractor", X: "1"}}},
			check: func(t *testing.T, s particles.Settings, _ *EffectConfig) {
				if s.Acceleration != (particles.VecRange{}) || s.Damping != (particles.Range{}) {
					t.Errorf("unexpected physics: %+v %+v", s.Acceleration, s.Damping)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := FromEmitterXML(&tt.e)
			if err != nil {
				t.Fatalf("FromEmitterXML: %v", err)
			}
			s, err := cfg.ToSettings()
			if err != nil {
				t.Fatalf("ToSettings: %v", err)
			}
			tt.check(t, s, cfg)
		})
	}
}

func TestFromEmitterXML_Errors(t *testing.T) {
	_, err := FromEmitterXML(&particle.EmitterConfig{Name: "bad", SpawnRate: "fast"})
	if !errors.Is(err, ErrInvalidEffect) || !strings.Contains(err.Error(), "SpawnRate") {
		t.Errorf("bad SpawnRate: %v", err)
	}
	_, err = FromEmitterXML(&particle.EmitterConfig{Name: "neg", ParticleRed: "1", SpawnRate: "-3"})
	if !errors.Is(err, particles.ErrInvalidSettings) {
		t.Errorf("negative rate should fail settings validation: %v", err)
	}
}

func TestFromParticleXML(t *testing.T) {
	pc, err := particle.LoadParticleXML(repoFS, "data/particles/Award.xml")
	if err != nil {
		t.Fatal(err)
	}
	cfgs, err := FromParticleXML(pc)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfgs) != 2 || cfgs[0].Name != "AwardRays" || cfgs[1].Name != "AwardSparkle" {
		t.Errorf("got %d configs", len(cfgs))
	}
}

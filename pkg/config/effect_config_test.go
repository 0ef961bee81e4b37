package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonewx/wellspring/pkg/particles"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLoadEffectConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *EffectConfig)
	}{
		{
			name: "valid config",
			yamlContent: `
name: test
drawable:
  kind: circle
  radius: 4
particleLifetime: "[0.5 1]"
emissionRate: 30
emitterLifetime: "2.5"
shape:
  kind: rectangle
  size: "20 10"
  rotation: 90
speed: "50"
angle: 90
spread: 45
spin: "[-180 180]"
sizes: [1, 0]
colors: ["#ff0000", "0 0 1 0"]
acceleration: "[0 10] [0 20]"
`,
			validate: func(t *testing.T, cfg *EffectConfig) {
				s, err := cfg.ToSettings()
				if err != nil {
					t.Fatalf("ToSettings: %v", err)
				}
				if s.ParticleLifetime != particles.Between(0.5, 1) {
					t.Errorf("particle lifetime = %+v", s.ParticleLifetime)
				}
				if s.EmissionRate != 30 {
					t.Errorf("emission rate = %v, want 30", s.EmissionRate)
				}
				if secs, finite := s.EmitterLifetime.Seconds(); !finite || secs != 2.5 {
					t.Errorf("emitter lifetime = %v", s.EmitterLifetime)
				}
				if s.Shape.Kind != particles.ShapeRectangle || s.Shape.Size != particles.V(20, 10) {
					t.Errorf("shape = %+v", s.Shape)
				}
				if !almostEqual(s.Shape.Rotation, math.Pi/2) {
					t.Errorf("shape rotation = %v, want π/2", s.Shape.Rotation)
				}
				if !almostEqual(s.Angle, math.Pi/2) || !almostEqual(s.Spread, math.Pi/4) {
					t.Errorf("angle/spread = %v/%v", s.Angle, s.Spread)
				}
				if !almostEqual(s.Spin.Min, -math.Pi) || !almostEqual(s.Spin.Max, math.Pi) {
					t.Errorf("spin = %+v", s.Spin)
				}
				if s.Colors[0] != particles.RGBA(1, 0, 0, 1) || s.Colors[1] != particles.RGBA(0, 0, 1, 0) {
					t.Errorf("colors = %v", s.Colors)
				}
				if s.Acceleration.Min != particles.V(0, 10) || s.Acceleration.Max != particles.V(0, 20) {
					t.Errorf("acceleration = %+v", s.Acceleration)
				}
			},
		},
		{
			name: "defaults fill missing fields",
			yamlContent: `
name: minimal
drawable: {kind: text, text: hi}
`,
			validate: func(t *testing.T, cfg *EffectConfig) {
				s, err := cfg.ToSettings()
				if err != nil {
					t.Fatalf("ToSettings: %v", err)
				}
				def := particles.DefaultSettings()
				if s.EmissionRate != def.EmissionRate || s.Spread != def.Spread {
					t.Errorf("defaults not applied: rate=%v spread=%v", s.EmissionRate, s.Spread)
				}
				if _, finite := s.EmitterLifetime.Seconds(); finite {
					t.Error("emitter lifetime should default to infinite")
				}
			},
		},
		{
			name: "explicit zero spread and rate",
			yamlContent: `
name: zero
drawable: {kind: circle, radius: 1}
emissionRate: 0
spread: 0
`,
			validate: func(t *testing.T, cfg *EffectConfig) {
				s, _ := cfg.ToSettings()
				if s.EmissionRate != 0 || s.Spread != 0 {
					t.Errorf("rate=%v spread=%v, want 0/0", s.EmissionRate, s.Spread)
				}
			},
		},
		{
			name:        "missing name",
			yamlContent: "drawable: {kind: circle, radius: 1}\n",
			wantErr:     true,
			errContains: "name is required",
		},
		{
			name:        "unknown field",
			yamlContent: "name: x\nspeeed: 10\ndrawable: {kind: circle, radius: 1}\n",
			wantErr:     true,
			errContains: "speeed",
		},
		{
			name:        "bad range",
			yamlContent: "name: x\ndrawable: {kind: circle, radius: 1}\nspeed: \"[1 2\"\n",
			wantErr:     true,
			errContains: "speed",
		},
		{
			name:        "keyframes rejected",
			yamlContent: "name: x\ndrawable: {kind: circle, radius: 1}\nspeed: \"0,1 1,0\"\n",
			wantErr:     true,
			errContains: "keyframes",
		},
		{
			name:        "zero lifetime rejected by settings",
			yamlContent: "name: x\ndrawable: {kind: circle, radius: 1}\nparticleLifetime: \"0\"\n",
			wantErr:     true,
			errContains: "lifetime",
		},
		{
			name:        "unknown shape",
			yamlContent: "name: x\ndrawable: {kind: circle, radius: 1}\nshape: {kind: star, size: \"1 1\"}\n",
			wantErr:     true,
			errContains: "star",
		},
		{
			name:        "unknown drawable",
			yamlContent: "name: x\ndrawable: {kind: sprite}\n",
			wantErr:     true,
			errContains: "sprite",
		},
		{
			name:        "negative burst",
			yamlContent: "name: x\ndrawable: {kind: circle, radius: 1}\nburst: -1\n",
			wantErr:     true,
			errContains: "burst",
		},
		{
			name:        "bad emitter lifetime",
			yamlContent: "name: x\ndrawable: {kind: circle, radius: 1}\nemitterLifetime: forever\n",
			wantErr:     true,
			errContains: "emitterLifetime",
		},
		{
			name:        "invalid yaml",
			yamlContent: "name: [unclosed\n",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 创建临时配置文件
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, "effect.yaml")
			if err := os.WriteFile(path, []byte(tt.yamlContent), 0644); err != nil {
				t.Fatalf("failed to create temp file: %v", err)
			}

			cfg, err := LoadEffectConfig(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadEffectConfig_FileNotFound(t *testing.T) {
	_, err := LoadEffectConfig("/nonexistent/effect.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist: %v", err)
	}
}

func TestParseEffectConfig_Errors(t *testing.T) {
	_, err := ParseEffectConfig(nil)
	if !errors.Is(err, ErrInvalidEffect) {
		t.Errorf("empty document: got %v, want ErrInvalidEffect", err)
	}

	_, err = ParseEffectConfig([]byte("name: x\ndrawable: {kind: circle, radius: 1}\nparticleLifetime: \"-1\"\n"))
	if !errors.Is(err, ErrInvalidEffect) || !errors.Is(err, particles.ErrInvalidSettings) {
		t.Errorf("settings failure should wrap both sentinels: %v", err)
	}
}

func TestParseEffectConfig_JSON(t *testing.T) {
	cfg, err := ParseEffectConfig([]byte(`{"name":"j","drawable":{"kind":"circle","radius":2},"emissionRate":5}`))
	if err != nil {
		t.Fatalf("JSON input: %v", err)
	}
	if cfg.Name != "j" || *cfg.EmissionRate != 5 {
		t.Errorf("got %+v", cfg)
	}
}

func TestFromSettings_RoundTrip(t *testing.T) {
	s := particles.DefaultSettings()
	s.Position = particles.V(10, -5)
	s.EmitterLifetime = particles.Finite(4)
	s.ParticleLifetime = particles.Between(0.5, 2)
	s.EmissionRate = 25
	s.Shape = particles.EllipseBorder(particles.V(30, 20), math.Pi/6)
	s.Speed = particles.Between(5, 15)
	s.Angle = -math.Pi / 2
	s.Spread = math.Pi / 3
	s.Sizes = []float64{1, 2, 0}
	s.Colors = []particles.Color{particles.White, particles.RGBA(0.25, 0.5, 0.75, 0)}
	s.Spin = particles.Between(-1, 1)
	s.UseRelativeAngle = true
	s.Damping = particles.Fixed(0.3)
	s.Acceleration = particles.VecRange{Min: particles.V(0, 10), Max: particles.V(5, 20)}
	s.RadialAcceleration = particles.Fixed(-3)
	s.TangentialAcceleration = particles.Between(1, 2)

	cfg := FromSettings("round", s)
	cfg.Drawable = DrawableConfig{Kind: DrawableCircle, Radius: 1}

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseEffectConfig(data)
	if err != nil {
		t.Fatalf("re-parse: %v\n%s", err, data)
	}
	got, err := parsed.ToSettings()
	if err != nil {
		t.Fatal(err)
	}

	if got.Position != s.Position || got.ParticleLifetime != s.ParticleLifetime || got.EmissionRate != s.EmissionRate {
		t.Errorf("position/lifetime/rate mismatch: %+v", got)
	}
	if secs, finite := got.EmitterLifetime.Seconds(); !finite || secs != 4 {
		t.Errorf("emitter lifetime = %v", got.EmitterLifetime)
	}
	if got.Shape.Kind != s.Shape.Kind || got.Shape.Size != s.Shape.Size || !almostEqual(got.Shape.Rotation, s.Shape.Rotation) {
		t.Errorf("shape = %+v, want %+v", got.Shape, s.Shape)
	}
	if !almostEqual(got.Angle, s.Angle) || !almostEqual(got.Spread, s.Spread) {
		t.Errorf("angle/spread = %v/%v", got.Angle, got.Spread)
	}
	if !almostEqual(got.Spin.Min, -1) || !almostEqual(got.Spin.Max, 1) {
		t.Errorf("spin = %+v", got.Spin)
	}
	if len(got.Colors) != 2 || got.Colors[1] != s.Colors[1] {
		t.Errorf("colors = %v", got.Colors)
	}
	if got.Acceleration != s.Acceleration || got.Damping != s.Damping || !got.UseRelativeAngle {
		t.Errorf("physics mismatch: %+v", got)
	}
	if got.RadialAcceleration != s.RadialAcceleration || got.TangentialAcceleration != s.TangentialAcceleration {
		t.Errorf("radial/tangential mismatch: %+v / %+v", got.RadialAcceleration, got.TangentialAcceleration)
	}
}

func TestDrawableConfig_TintColor(t *testing.T) {
	if got := (DrawableConfig{}).TintColor(); got != particles.White {
		t.Errorf("default tint = %v, want white", got)
	}
	if got := (DrawableConfig{Color: "#00ff0080"}).TintColor(); got.G != 1 || got.R != 0 || !almostEqual(got.A, 128.0/255) {
		t.Errorf("tint = %v", got)
	}
}

// TestBuiltinPresets 确保仓库中的预设都能通过校验
func TestBuiltinPresets(t *testing.T) {
	files, err := filepath.Glob("../../data/presets/*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no presets found")
	}
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			cfg, err := LoadEffectConfig(file)
			if err != nil {
				t.Fatalf("failed to load: %v", err)
			}
			if _, err := cfg.ToSettings(); err != nil {
				t.Errorf("ToSettings: %v", err)
			}
		})
	}
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gonewx/wellspring/internal/particle"
	"github.com/gonewx/wellspring/pkg/particles"
	"gopkg.in/yaml.v3"
)

// ErrInvalidEffect 所有特效预设校验失败都会包装此错误
var ErrInvalidEffect = errors.New("invalid effect config")

// Drawable kinds understood by the render package.
const (
	DrawableCircle = "circle"
	DrawableRect   = "rect"
	DrawableText   = "text"
	DrawableImage  = "image"
)

// EffectConfig 粒子特效预设
//
// 预设是设计师编辑的 YAML 文件，描述一个发射器及其粒子外观。
// 数值字段使用粒子配置的取值语法：
//   - 范围: "1.5" 或 "[0.25 1]"
//   - 向量: "x y"
//   - 向量范围: "x y" 或 "[x1 y1] [x2 y2]"
//   - 颜色: "#rrggbb"、"#rrggbbaa" 或 "r g b [a]"（0-1）
//
// 角度均为度数（屏幕坐标系，0 = 向右，90 = 向下）。
type EffectConfig struct {
	Name        string `yaml:"name" json:"name" jsonschema:"description=Unique preset name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Drawable DrawableConfig `yaml:"drawable" json:"drawable"`
	Additive bool           `yaml:"additive,omitempty" json:"additive,omitempty" jsonschema:"description=Draw with additive blending"`

	// Burst 特效创建时立即发射的粒子数
	Burst int `yaml:"burst,omitempty" json:"burst,omitempty" jsonschema:"minimum=0"`

	Position         string   `yaml:"position,omitempty" json:"position,omitempty" jsonschema:"description=Emitter offset as 'x y'"`
	EmitterLifetime  string   `yaml:"emitterLifetime,omitempty" json:"emitterLifetime,omitempty" jsonschema:"description=Seconds the emitter runs or 'infinite'"`
	ParticleLifetime string   `yaml:"particleLifetime,omitempty" json:"particleLifetime,omitempty" jsonschema:"description=Particle lifetime range in seconds"`
	EmissionRate     *float64 `yaml:"emissionRate,omitempty" json:"emissionRate,omitempty" jsonschema:"minimum=0"`

	Shape ShapeConfig `yaml:"shape,omitempty" json:"shape,omitempty"`

	Speed  string   `yaml:"speed,omitempty" json:"speed,omitempty" jsonschema:"description=Launch speed range in pixels per second"`
	Angle  float64  `yaml:"angle,omitempty" json:"angle,omitempty" jsonschema:"description=Launch direction in degrees"`
	Spread *float64 `yaml:"spread,omitempty" json:"spread,omitempty" jsonschema:"description=Total spread around angle in degrees"`

	Sizes  []float64 `yaml:"sizes,omitempty" json:"sizes,omitempty"`
	Colors []string  `yaml:"colors,omitempty" json:"colors,omitempty"`

	Spin             string `yaml:"spin,omitempty" json:"spin,omitempty" jsonschema:"description=Spin range in degrees per second"`
	UseRelativeAngle bool   `yaml:"useRelativeAngle,omitempty" json:"useRelativeAngle,omitempty"`

	Damping                string `yaml:"damping,omitempty" json:"damping,omitempty"`
	Acceleration           string `yaml:"acceleration,omitempty" json:"acceleration,omitempty"`
	RadialAcceleration     string `yaml:"radialAcceleration,omitempty" json:"radialAcceleration,omitempty"`
	TangentialAcceleration string `yaml:"tangentialAcceleration,omitempty" json:"tangentialAcceleration,omitempty"`

	// Offset 旋转/缩放锚点，默认 "0.5 0.5"
	Offset string `yaml:"offset,omitempty" json:"offset,omitempty"`
}

// DrawableConfig 粒子外观
type DrawableConfig struct {
	Kind   string  `yaml:"kind" json:"kind" jsonschema:"enum=circle,enum=rect,enum=text,enum=image"`
	Radius float64 `yaml:"radius,omitempty" json:"radius,omitempty"`
	Size   string  `yaml:"size,omitempty" json:"size,omitempty" jsonschema:"description=Rectangle size as 'w h'"`
	Color  string  `yaml:"color,omitempty" json:"color,omitempty"`
	Text   string  `yaml:"text,omitempty" json:"text,omitempty"`
	Image  string  `yaml:"image,omitempty" json:"image,omitempty" jsonschema:"description=Image path inside the data directory"`
}

// ShapeConfig 发射区域
type ShapeConfig struct {
	Kind     string  `yaml:"kind,omitempty" json:"kind,omitempty" jsonschema:"enum=point,enum=rectangle,enum=ellipse,enum=rectangle_border,enum=ellipse_border"`
	Size     string  `yaml:"size,omitempty" json:"size,omitempty"`
	Rotation float64 `yaml:"rotation,omitempty" json:"rotation,omitempty" jsonschema:"description=Rotation in degrees"`
}

// LoadEffectConfig 从文件加载特效预设
//
// 参数:
//   - path: YAML 文件路径
//
// 返回:
//   - *EffectConfig: 已校验的预设
//   - error: 读取、解析或校验失败时返回错误
func LoadEffectConfig(path string) (*EffectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect config %s: %w", path, err)
	}
	cfg, err := ParseEffectConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadEffectConfigFS 与 LoadEffectConfig 相同，但从 fsys 读取（如嵌入资源）
func LoadEffectConfigFS(fsys fs.FS, path string) (*EffectConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect config %s: %w", path, err)
	}
	cfg, err := ParseEffectConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseEffectConfig 解析并校验 YAML（JSON 也是合法输入）
//
// 未知字段视为错误，避免拼写错误被静默忽略。
func ParseEffectConfig(data []byte) (*EffectConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg EffectConfig
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidEffect)
		}
		return nil, fmt.Errorf("failed to parse effect config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal 序列化为 YAML
func (c *EffectConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal effect config %q: %w", c.Name, err)
	}
	return data, nil
}

// Validate 验证预设有效性
//
// 检查:
//   - name 不能为空
//   - 所有数值字段语法正确，且转换后的 particles.Settings 合法
//   - drawable 的类型及其必需字段
func (c *EffectConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEffect)
	}
	if c.Burst < 0 {
		return fmt.Errorf("%w: %s: burst %d must not be negative", ErrInvalidEffect, c.Name, c.Burst)
	}
	if err := c.Drawable.validate(); err != nil {
		return fmt.Errorf("%w: %s: drawable: %v", ErrInvalidEffect, c.Name, err)
	}
	if _, err := c.ToSettings(); err != nil {
		return err
	}
	return nil
}

func (d DrawableConfig) validate() error {
	switch d.Kind {
	case DrawableCircle:
		if !(d.Radius > 0) {
			return fmt.Errorf("circle radius %v must be positive", d.Radius)
		}
	case DrawableRect:
		size, err := ParseVec(d.Size)
		if err != nil {
			return fmt.Errorf("size: %v", err)
		}
		if !(size.X > 0 && size.Y > 0) {
			return fmt.Errorf("rect size %q must be positive", d.Size)
		}
	case DrawableText:
		if d.Text == "" {
			return errors.New("text drawable needs text")
		}
	case DrawableImage:
		if d.Image == "" {
			return errors.New("image drawable needs an image path")
		}
	default:
		return fmt.Errorf("unknown kind %q", d.Kind)
	}
	if d.Color != "" {
		if _, err := ParseColor(d.Color); err != nil {
			return fmt.Errorf("color: %v", err)
		}
	}
	return nil
}

// TintColor 返回 drawable 的颜色，默认白色
func (d DrawableConfig) TintColor() particles.Color {
	if c, err := ParseColor(d.Color); err == nil && d.Color != "" {
		return c
	}
	return particles.White
}

// ToSettings 转换为粒子系统设置
//
// 未填写的字段使用 particles.DefaultSettings 的值。
func (c *EffectConfig) ToSettings() (particles.Settings, error) {
	s, err := c.toSettings()
	if err != nil {
		return particles.Settings{}, fmt.Errorf("%w: %s: %v", ErrInvalidEffect, c.Name, err)
	}
	if err := s.Validate(); err != nil {
		return particles.Settings{}, fmt.Errorf("%w: %s: %w", ErrInvalidEffect, c.Name, err)
	}
	return s, nil
}

func (c *EffectConfig) toSettings() (particles.Settings, error) {
	s := particles.DefaultSettings()
	var err error

	if c.Position != "" {
		if s.Position, err = ParseVec(c.Position); err != nil {
			return s, fmt.Errorf("position: %v", err)
		}
	}
	if s.EmitterLifetime, err = parseLifetime(c.EmitterLifetime); err != nil {
		return s, fmt.Errorf("emitterLifetime: %v", err)
	}
	if c.ParticleLifetime != "" {
		if s.ParticleLifetime, err = ParseRange(c.ParticleLifetime); err != nil {
			return s, fmt.Errorf("particleLifetime: %v", err)
		}
	}
	if c.EmissionRate != nil {
		s.EmissionRate = *c.EmissionRate
	}
	if s.Shape, err = c.Shape.toShape(); err != nil {
		return s, fmt.Errorf("shape: %v", err)
	}
	if c.Speed != "" {
		if s.Speed, err = ParseRange(c.Speed); err != nil {
			return s, fmt.Errorf("speed: %v", err)
		}
	}
	s.Angle = particle.Degrees(c.Angle)
	if c.Spread != nil {
		s.Spread = particle.Degrees(*c.Spread)
	}
	if len(c.Sizes) > 0 {
		s.Sizes = append([]float64(nil), c.Sizes...)
	}
	if len(c.Colors) > 0 {
		s.Colors = make([]particles.Color, len(c.Colors))
		for i, str := range c.Colors {
			if s.Colors[i], err = ParseColor(str); err != nil {
				return s, fmt.Errorf("colors[%d]: %v", i, err)
			}
		}
	}
	if c.Spin != "" {
		spin, err := ParseRange(c.Spin)
		if err != nil {
			return s, fmt.Errorf("spin: %v", err)
		}
		s.Spin = particles.Between(particle.Degrees(spin.Min), particle.Degrees(spin.Max))
	}
	s.UseRelativeAngle = c.UseRelativeAngle

	for _, f := range [...]struct {
		name string
		src  string
		dst  *particles.Range
	}{
		{"damping", c.Damping, &s.Damping},
		{"radialAcceleration", c.RadialAcceleration, &s.RadialAcceleration},
		{"tangentialAcceleration", c.TangentialAcceleration, &s.TangentialAcceleration},
	} {
		if f.src == "" {
			continue
		}
		if *f.dst, err = ParseRange(f.src); err != nil {
			return s, fmt.Errorf("%s: %v", f.name, err)
		}
	}
	if c.Acceleration != "" {
		if s.Acceleration, err = ParseVecRange(c.Acceleration); err != nil {
			return s, fmt.Errorf("acceleration: %v", err)
		}
	}
	if c.Offset != "" {
		if s.Offset, err = ParseVec(c.Offset); err != nil {
			return s, fmt.Errorf("offset: %v", err)
		}
	}
	return s, nil
}

func (sc ShapeConfig) toShape() (particles.Shape, error) {
	if sc.Kind == "" {
		return particles.PointShape(), nil
	}
	kind, err := particles.ParseShapeKind(sc.Kind)
	if err != nil {
		return particles.Shape{}, err
	}
	shape := particles.Shape{Kind: kind, Rotation: particle.Degrees(sc.Rotation)}
	if kind != particles.ShapePoint {
		if shape.Size, err = ParseVec(sc.Size); err != nil {
			return particles.Shape{}, fmt.Errorf("size: %v", err)
		}
	}
	return shape, nil
}

func parseLifetime(s string) (particles.EmitterLifetime, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "infinite" {
		return particles.Infinite(), nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return particles.EmitterLifetime{}, fmt.Errorf("expected seconds or 'infinite', got %q", s)
	}
	return particles.Finite(secs), nil
}

// FromSettings 把粒子设置转换回预设（用于保存调参结果与导入 XML）
//
// drawable 保持为空，由调用方填写。
func FromSettings(name string, s particles.Settings) *EffectConfig {
	rate := s.EmissionRate
	spread := toDegrees(s.Spread)
	cfg := &EffectConfig{
		Name:                   name,
		Position:               FormatVec(s.Position),
		ParticleLifetime:       FormatRange(s.ParticleLifetime),
		EmissionRate:           &rate,
		Speed:                  FormatRange(s.Speed),
		Angle:                  toDegrees(s.Angle),
		Spread:                 &spread,
		Sizes:                  append([]float64(nil), s.Sizes...),
		UseRelativeAngle:       s.UseRelativeAngle,
		Damping:                FormatRange(s.Damping),
		Acceleration:           FormatVecRange(s.Acceleration),
		RadialAcceleration:     FormatRange(s.RadialAcceleration),
		TangentialAcceleration: FormatRange(s.TangentialAcceleration),
		Offset:                 FormatVec(s.Offset),
		Spin: FormatRange(particles.Between(
			toDegrees(s.Spin.Min), toDegrees(s.Spin.Max))),
	}
	if secs, finite := s.EmitterLifetime.Seconds(); finite {
		cfg.EmitterLifetime = formatFloat(secs)
	}
	for _, c := range s.Colors {
		cfg.Colors = append(cfg.Colors, FormatColor(c))
	}
	if s.Shape.Kind != particles.ShapePoint {
		cfg.Shape = ShapeConfig{
			Kind:     s.Shape.Kind.String(),
			Size:     FormatVec(s.Shape.Size),
			Rotation: toDegrees(s.Shape.Rotation),
		}
	}
	return cfg
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

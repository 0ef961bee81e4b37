package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gonewx/wellspring/internal/particle"
	"github.com/gonewx/wellspring/pkg/particles"
)

// ParseRange 解析 "1.5" 或 "[0.25 1]"
//
// 与粒子 XML 使用同一套取值语法，但预设中的范围不允许带关键帧。
func ParseRange(s string) (particles.Range, error) {
	v, err := particle.ParseValue(s)
	if err != nil {
		return particles.Range{}, err
	}
	if v.Animated() {
		return particles.Range{}, fmt.Errorf("range %q must not contain keyframes", s)
	}
	if strings.TrimSpace(s) == "" {
		return particles.Range{}, fmt.Errorf("empty range")
	}
	return particles.Between(v.Min, v.Max), nil
}

// FormatRange 是 ParseRange 的逆操作
func FormatRange(r particles.Range) string {
	if r.Min == r.Max {
		return formatFloat(r.Min)
	}
	return "[" + formatFloat(r.Min) + " " + formatFloat(r.Max) + "]"
}

// ParseVec 解析 "x y"
func ParseVec(s string) (particles.Vec2, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return particles.Vec2{}, fmt.Errorf("vector %q must be 'x y'", s)
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return particles.Vec2{}, fmt.Errorf("invalid number %q in vector", parts[0])
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return particles.Vec2{}, fmt.Errorf("invalid number %q in vector", parts[1])
	}
	return particles.V(x, y), nil
}

// FormatVec 是 ParseVec 的逆操作
func FormatVec(v particles.Vec2) string {
	return formatFloat(v.X) + " " + formatFloat(v.Y)
}

// ParseVecRange 解析 "x y"（固定）或 "[x1 y1] [x2 y2]"
func ParseVecRange(s string) (particles.VecRange, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		v, err := ParseVec(s)
		if err != nil {
			return particles.VecRange{}, err
		}
		return particles.FixedVec(v), nil
	}

	first, rest, ok := strings.Cut(s[1:], "]")
	rest = strings.TrimSpace(rest)
	if !ok || !strings.HasPrefix(rest, "[") || !strings.HasSuffix(rest, "]") {
		return particles.VecRange{}, fmt.Errorf("vector range %q must be '[x1 y1] [x2 y2]'", s)
	}
	lo, err := ParseVec(first)
	if err != nil {
		return particles.VecRange{}, err
	}
	hi, err := ParseVec(rest[1 : len(rest)-1])
	if err != nil {
		return particles.VecRange{}, err
	}
	return particles.VecRange{Min: lo, Max: hi}, nil
}

// FormatVecRange 是 ParseVecRange 的逆操作
func FormatVecRange(r particles.VecRange) string {
	if r.Min == r.Max {
		return FormatVec(r.Min)
	}
	return "[" + FormatVec(r.Min) + "] [" + FormatVec(r.Max) + "]"
}

// ParseColor 解析 "#rrggbb"、"#rrggbbaa" 或 "r g b [a]"
func ParseColor(s string) (particles.Color, error) {
	s = strings.TrimSpace(s)
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 && len(hex) != 8 {
			return particles.Color{}, fmt.Errorf("hex color %q must have 6 or 8 digits", s)
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return particles.Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		if len(hex) == 6 {
			n = n<<8 | 0xff
		}
		return particles.RGBA(
			float64(n>>24&0xff)/255,
			float64(n>>16&0xff)/255,
			float64(n>>8&0xff)/255,
			float64(n&0xff)/255,
		), nil
	}

	parts := strings.Fields(s)
	if len(parts) != 3 && len(parts) != 4 {
		return particles.Color{}, fmt.Errorf("color %q must be '#rrggbb[aa]' or 'r g b [a]'", s)
	}
	ch := [4]float64{1, 1, 1, 1}
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return particles.Color{}, fmt.Errorf("invalid channel %q in color %q", p, s)
		}
		if f < 0 || f > 1 {
			return particles.Color{}, fmt.Errorf("channel %v in color %q outside [0, 1]", f, s)
		}
		ch[i] = f
	}
	return particles.RGBA(ch[0], ch[1], ch[2], ch[3]), nil
}

// FormatColor 输出 "r g b a" 形式，保留完整精度
func FormatColor(c particles.Color) string {
	return strings.Join([]string{
		formatFloat(c.R), formatFloat(c.G), formatFloat(c.B), formatFloat(c.A),
	}, " ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

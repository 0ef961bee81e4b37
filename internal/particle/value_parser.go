package particle

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gonewx/wellspring/pkg/utils"
)

// Keyframe represents a single keyframe in an animation curve.
type Keyframe struct {
	Time  float64 // Normalized time (0-1)
	Value float64 // Value at this keyframe
}

// Value is a parsed emitter attribute.
//
// Every attribute has a spawn range (Min/Max). Animated attributes also
// carry keyframes over the normalized particle or system lifetime.
type Value struct {
	Min, Max      float64
	Keyframes     []Keyframe
	Interpolation string
}

// IsZero reports whether the attribute was absent or parsed to nothing.
func (v Value) IsZero() bool {
	return v.Min == 0 && v.Max == 0 && len(v.Keyframes) == 0
}

// Animated reports whether the value changes over time.
func (v Value) Animated() bool {
	return len(v.Keyframes) > 0
}

// Mid returns the centre of the spawn range.
func (v Value) Mid() float64 {
	return (v.Min + v.Max) / 2
}

// Interpolation keywords (插值模式)
const (
	InterpLinear        = "Linear"
	InterpEaseIn        = "EaseIn"
	InterpEaseOut       = "EaseOut"
	InterpFastInOutWeak = "FastInOutWeak"
)

var interpolationKeywords = []string{InterpLinear, InterpEaseIn, InterpEaseOut, InterpFastInOutWeak}

// ParseValue parses a value string from a particle configuration.
//
// Supported formats:
//   - Fixed value: "1500"
//   - Range: "[0.7 0.9]" or "[5]"
//   - Start/end ranges: "[0.4 0.6] [0.8 1.2]" → keyframes from the range centres
//   - Range with decay: "[-720 720] 0,40" → spawn range, then value 0 at 40%
//   - Keyframes: "0,2 0.5,4 1,0" (time,value pairs)
//   - PopCap curve: ".9,70 0" → 0.9 at the start, 0 at 70%
//   - Initial value with "value,percent" pairs: ".3 .3,40 0,50"
//   - An optional interpolation keyword anywhere: "Linear", "EaseIn", ...
//
// An empty string is not an error and yields the zero Value.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, nil
	}

	var v Value
	fields := strings.Fields(s)
	rest := fields[:0:0]
	for _, f := range fields {
		if isInterpolationKeyword(f) {
			v.Interpolation = f
			continue
		}
		rest = append(rest, f)
	}
	s = strings.Join(rest, " ")
	if s == "" {
		return Value{}, fmt.Errorf("value %q has no numbers", strings.Join(fields, " "))
	}

	if strings.HasPrefix(s, "[") {
		return parseBracketed(s, v)
	}
	if !strings.Contains(s, ",") && len(rest) == 1 {
		f, err := parseFloat(s)
		if err != nil {
			return Value{}, err
		}
		v.Min, v.Max = f, f
		return v, nil
	}

	kf, err := parseKeyframes(rest)
	if err != nil {
		return Value{}, err
	}
	v.Keyframes = kf
	v.Min, v.Max = kf[0].Value, kf[0].Value
	return v, nil
}

// parseBracketed handles every format that starts with "[".
func parseBracketed(s string, v Value) (Value, error) {
	end := strings.Index(s, "]")
	if end < 0 {
		return Value{}, fmt.Errorf("unterminated range in %q", s)
	}
	lo, hi, err := parseRange(s[1:end])
	if err != nil {
		return Value{}, err
	}
	v.Min, v.Max = lo, hi

	tail := strings.TrimSpace(s[end+1:])
	switch {
	case tail == "":
		return v, nil
	case strings.HasPrefix(tail, "["):
		// 起始范围 → 结束范围，取两个范围的中点作为关键帧
		end2 := strings.Index(tail, "]")
		if end2 < 0 || strings.TrimSpace(tail[end2+1:]) != "" {
			return Value{}, fmt.Errorf("malformed double range %q", s)
		}
		lo2, hi2, err := parseRange(tail[1:end2])
		if err != nil {
			return Value{}, err
		}
		v.Keyframes = []Keyframe{{0, (lo + hi) / 2}, {1, (lo2 + hi2) / 2}}
		if v.Interpolation == "" {
			v.Interpolation = InterpLinear
		}
		return v, nil
	default:
		// 范围 + "value,percent" 衰减关键帧
		v.Keyframes = []Keyframe{{0, (lo + hi) / 2}}
		for _, part := range strings.Fields(tail) {
			a, b, ok := strings.Cut(part, ",")
			if !ok {
				return Value{}, fmt.Errorf("expected value,percent pair in %q", s)
			}
			val, err := parseFloat(a)
			if err != nil {
				return Value{}, err
			}
			pct, err := parseFloat(b)
			if err != nil {
				return Value{}, err
			}
			v.Keyframes = append(v.Keyframes, Keyframe{Time: percentToTime(pct), Value: val})
		}
		return v, nil
	}
}

// parseKeyframes handles the comma formats.
func parseKeyframes(parts []string) ([]Keyframe, error) {
	var (
		keyframes  []Keyframe
		hasInitial bool
	)
	for i := 0; i < len(parts); i++ {
		part := parts[i]
		a, b, isPair := strings.Cut(part, ",")
		if !isPair {
			val, err := parseFloat(part)
			if err != nil {
				return nil, err
			}
			if len(keyframes) > 0 {
				return nil, fmt.Errorf("unexpected bare value %q after keyframes", part)
			}
			keyframes = append(keyframes, Keyframe{Time: 0, Value: val})
			hasInitial = true
			continue
		}

		first, err := parseFloat(a)
		if err != nil {
			return nil, err
		}
		second, err := parseFloat(b)
		if err != nil {
			return nil, err
		}

		switch {
		case second > 1 && i+1 < len(parts) && !strings.Contains(parts[i+1], ","):
			// PopCap: "initial,percent final"
			final, err := parseFloat(parts[i+1])
			if err != nil {
				return nil, err
			}
			keyframes = append(keyframes,
				Keyframe{Time: 0, Value: first},
				Keyframe{Time: percentToTime(second), Value: final})
			i++
		case hasInitial:
			// 有初始值时，后续成对数据为 "value,percent"
			keyframes = append(keyframes, Keyframe{Time: percentToTime(second), Value: first})
		default:
			keyframes = append(keyframes, Keyframe{Time: first, Value: second})
		}
	}
	if len(keyframes) == 0 {
		return nil, fmt.Errorf("no keyframes in %q", strings.Join(parts, " "))
	}
	return keyframes, nil
}

func parseRange(s string) (lo, hi float64, err error) {
	parts := strings.Fields(s)
	switch len(parts) {
	case 1:
		lo, err = parseFloat(parts[0])
		return lo, lo, err
	case 2:
		if lo, err = parseFloat(parts[0]); err != nil {
			return 0, 0, err
		}
		hi, err = parseFloat(parts[1])
		return lo, hi, err
	default:
		return 0, 0, fmt.Errorf("range %q must have one or two numbers", s)
	}
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return f, nil
}

// percentToTime converts a PopCap time which is a percentage when > 1.
func percentToTime(p float64) float64 {
	if p > 1 {
		return p / 100
	}
	return p
}

func isInterpolationKeyword(s string) bool {
	for _, k := range interpolationKeywords {
		if s == k {
			return true
		}
	}
	return false
}

// EvaluateKeyframes calculates the interpolated value at time t (0-1)
// using the provided keyframes and interpolation mode.
// Keyframes must be sorted by Time. Before the first keyframe the first
// value holds; after the last keyframe the last value holds.
func EvaluateKeyframes(keyframes []Keyframe, t float64, interpolation string) float64 {
	switch len(keyframes) {
	case 0:
		return 0
	case 1:
		return keyframes[0].Value
	}

	t = utils.Clamp01(t)
	if t <= keyframes[0].Time {
		return keyframes[0].Value
	}

	for i := 0; i < len(keyframes)-1; i++ {
		k0, k1 := keyframes[i], keyframes[i+1]
		if t > k1.Time {
			continue
		}
		duration := k1.Time - k0.Time
		if duration <= 0 {
			return k1.Value
		}
		return utils.Lerp(k0.Value, k1.Value, ease((t-k0.Time)/duration, interpolation))
	}
	return keyframes[len(keyframes)-1].Value
}

func ease(ratio float64, interpolation string) float64 {
	switch interpolation {
	case InterpEaseIn:
		return ratio * ratio
	case InterpEaseOut:
		return 1 - (1-ratio)*(1-ratio)
	case InterpFastInOutWeak:
		return ratio * ratio * (3 - 2*ratio)
	default:
		return ratio
	}
}

// Resample evaluates the value at n evenly spaced times over [0, 1].
// A static value yields a single key at the range centre.
func (v Value) Resample(n int) []float64 {
	if !v.Animated() || n < 2 {
		if v.Animated() {
			return []float64{v.Keyframes[0].Value}
		}
		return []float64{v.Mid()}
	}
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = EvaluateKeyframes(v.Keyframes, t, v.Interpolation)
	}
	return out
}

// Clamped returns a copy with every number limited to [lo, hi].
func (v Value) Clamped(lo, hi float64) Value {
	out := v
	out.Min = utils.Clamp(v.Min, lo, hi)
	out.Max = utils.Clamp(v.Max, lo, hi)
	if v.Keyframes != nil {
		out.Keyframes = make([]Keyframe, len(v.Keyframes))
		for i, k := range v.Keyframes {
			out.Keyframes[i] = Keyframe{Time: k.Time, Value: utils.Clamp(k.Value, lo, hi)}
		}
	}
	return out
}

// Degrees converts a value in degrees to radians.
func Degrees(deg float64) float64 {
	return deg * math.Pi / 180
}

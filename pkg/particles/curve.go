package particles

import (
	"math"

	"github.com/gonewx/wellspring/pkg/utils"
)

// Keyframe curves (关键帧曲线)
//
// A curve is an ordered list of values spread over (n-1) equal-width
// segments covering the normalized lifetime [0, 1]. The first key is the
// value at birth and the last key the value at death.

// curveSegment locates t on a curve of n keys (n >= 2).
// t is clamped to [0, 1] and the index never exceeds n-1.
func curveSegment(n int, t float64) (lo, hi int, fraction float64) {
	last := n - 1
	if math.IsNaN(t) {
		return 0, 0, 0
	}
	index := utils.Clamp01(t) * float64(last)
	if index >= float64(last) {
		return last, last, 0
	}
	lo = int(math.Floor(index))
	hi = int(math.Ceil(index))
	return lo, hi, math.Mod(index, 1)
}

// EvaluateCurve returns the value of a scalar curve at normalized time t.
// A single key is returned unchanged for any t. An empty curve yields 0;
// settings validation keeps empty curves out of live particles.
func EvaluateCurve(keys []float64, t float64) float64 {
	switch len(keys) {
	case 0:
		return 0
	case 1:
		return keys[0]
	}
	lo, hi, f := curveSegment(len(keys), t)
	return utils.Lerp(keys[lo], keys[hi], f)
}

// EvaluateColorCurve returns the color of a color curve at normalized time t,
// interpolating r, g, b and a independently.
func EvaluateColorCurve(keys []Color, t float64) Color {
	switch len(keys) {
	case 0:
		return Transparent
	case 1:
		return keys[0]
	}
	lo, hi, f := curveSegment(len(keys), t)
	return keys[lo].Lerp(keys[hi], f)
}

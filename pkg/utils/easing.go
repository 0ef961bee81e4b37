package utils

import "math"

// Easing / interpolation helpers (缓动与插值)
//
// 所有缓动函数接受进度 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 参考：https://easings.net/

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b；t 超出 [0, 1] 时按直线外推
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp 将 v 限制在 [lo, hi] 范围内
// NaN 原样返回，由调用方负责校验
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 等价于 Clamp(v, 0, 1)
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// EaseOutCubic 三次方缓出
// 特点：开始快，结束慢（用于提示文字淡出）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

package particles

import "math"

// Vec2 is a 2D vector in emitter-local pixels (Y axis points down, like the screen).
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Len returns the Euclidean length.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalized returns the unit vector, or the zero vector when v has no length.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Perp rotates v by 90°: (x, y) -> (-y, x).
func (v Vec2) Perp() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Rotate rotates v by angle radians around the origin.
func (v Vec2) Rotate(angle float64) Vec2 {
	if angle == 0 {
		return v
	}
	sin, cos := math.Sincos(angle)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Lerp interpolates between v and o; amount 0 yields v, 1 yields o.
func (v Vec2) Lerp(o Vec2, amount float64) Vec2 {
	return v.Add(o.Sub(v).Scale(amount))
}

// IsFinite reports whether both components are finite numbers.
func (v Vec2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

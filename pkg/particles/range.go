package particles

import (
	"math/rand/v2"

	"github.com/gonewx/wellspring/pkg/utils"
)

// Range is a closed interval of scalars sampled once per spawned particle.
// Min may be greater than Max; the sample is always the linear blend
// Min + (Max-Min)*u with u drawn uniformly from [0, 1).
type Range struct {
	Min float64
	Max float64
}

// Fixed returns the degenerate range [v, v].
func Fixed(v float64) Range {
	return Range{Min: v, Max: v}
}

// Between returns the range [min, max].
func Between(min, max float64) Range {
	return Range{Min: min, Max: max}
}

// Sample draws a value from the range using rng.
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		// keep the rng stream identical for fixed and non-fixed ranges
		rng.Float64()
		return r.Min
	}
	return utils.Lerp(r.Min, r.Max, rng.Float64())
}

// Mid returns the centre of the range.
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// VecRange is a range of 2D vectors; both components share one random fraction.
type VecRange struct {
	Min Vec2
	Max Vec2
}

// FixedVec returns the degenerate vector range [v, v].
func FixedVec(v Vec2) VecRange {
	return VecRange{Min: v, Max: v}
}

// Sample draws a vector on the segment between Min and Max.
func (r VecRange) Sample(rng *rand.Rand) Vec2 {
	u := rng.Float64()
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min.Lerp(r.Max, u)
}

package particles

import (
	"log/slog"
	"math/rand/v2"
)

type systemOptions struct {
	rng    *rand.Rand
	logger *slog.Logger
}

// Option configures a System at construction time.
type Option func(*systemOptions)

// WithSeed makes the System's random source deterministic.
func WithSeed(seed uint64) Option {
	return func(o *systemOptions) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand uses the given random source. It must not be shared with
// another goroutine.
func WithRand(rng *rand.Rand) Option {
	return func(o *systemOptions) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// WithLogger overrides the package logger for one System.
func WithLogger(l *slog.Logger) Option {
	return func(o *systemOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

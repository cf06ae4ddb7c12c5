package engine

import (
	"math/rand/v2"
)

// Sampler draws standard normal variates (mean 0, stddev 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Sampler interface {
	NormFloat64() float64
}

// Source hands out one Sampler per trial. Stream must be safe for concurrent
// calls with distinct trial indices, and the returned Sampler is used by a
// single goroutine only.
type Source interface {
	Stream(trial int) Sampler
}

// SeededSource derives an independent PCG stream per trial from one seed,
// so a run is reproducible no matter how trials are spread over workers.
type SeededSource struct {
	Seed uint64
}

// Stream returns the generator for trial.
func (s SeededSource) Stream(trial int) Sampler {
	return rand.New(rand.NewPCG(s.Seed, uint64(trial)))
}

// NewSeed draws a fresh seed from the runtime's generator.
func NewSeed() uint64 {
	return rand.Uint64()
}

// SamplerFunc adapts a plain function to Sampler.
type SamplerFunc func() float64

// NormFloat64 calls f.
func (f SamplerFunc) NormFloat64() float64 { return f() }

// FixedSource feeds every trial from the same function. Callers that share
// state inside the function must run with a single worker.
type FixedSource struct {
	Sampler Sampler
}

// Stream ignores trial and returns the shared sampler.
func (s FixedSource) Stream(int) Sampler {
	return s.Sampler
}

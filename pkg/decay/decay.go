// Package decay provides distance decay kernels for gravity-based
// accessibility models. A kernel converts a nonnegative distance into a
// weight in [0, 1]: full weight at distance zero, falling toward zero as
// distance grows. The choice of kernel determines the catchment shape of
// the model (hard cutoff for 2SFCA, smooth dropoff for E2SFCA variants).
//
// Every kernel preserves NaN distances (the "unreachable" sentinel) and
// maps +Inf to a weight of zero.
package decay

import "math"

// Kernel converts a single distance into a decay weight in [0, 1].
type Kernel interface {
	// Weight returns the decay weight for the given distance.
	// NaN input yields NaN; +Inf yields 0.
	Weight(distance float64) float64
}

// Uniform is a hard-cutoff kernel: weight 1 at or below Scale, 0 above it.
// This is the catchment of the standard 2SFCA method.
type Uniform struct {
	Scale float64
}

// Weight implements Kernel. The cutoff is closed above: distance == Scale
// still carries full weight.
func (k Uniform) Weight(distance float64) float64 {
	if math.IsNaN(distance) {
		return math.NaN()
	}
	if distance <= k.Scale {
		return 1
	}
	return 0
}

// RaisedCosine decays smoothly from 1 to 0 over [0, Scale] following half a
// cosine period. Distances are clamped to [0, Scale] before transforming.
type RaisedCosine struct {
	Scale float64
}

// Weight implements Kernel.
func (k RaisedCosine) Weight(distance float64) float64 {
	if math.IsNaN(distance) {
		return math.NaN()
	}
	if distance <= 0 {
		return 1
	}
	if distance >= k.Scale {
		return 0
	}
	return (1 + math.Cos(math.Pi*distance/k.Scale)) / 2
}

// Gaussian decays following a normal distribution with standard deviation
// Sigma. It never reaches exactly zero at any finite distance.
type Gaussian struct {
	Sigma float64
}

// Weight implements Kernel. NaN propagates through math.Exp unchanged and
// +Inf yields exp(-Inf) = 0, so no explicit sentinel handling is needed.
func (k Gaussian) Weight(distance float64) float64 {
	return math.Exp(-(distance * distance) / (2 * k.Sigma * k.Sigma))
}

// Parabolic is the Epanechnikov kernel: weight (Scale^2 - d^2) / Scale^2,
// floored at zero. Compact support on [0, Scale].
type Parabolic struct {
	Scale float64
}

// Weight implements Kernel.
func (k Parabolic) Weight(distance float64) float64 {
	if math.IsNaN(distance) {
		return math.NaN()
	}
	if distance >= k.Scale {
		return 0
	}
	return (k.Scale*k.Scale - distance*distance) / (k.Scale * k.Scale)
}

// Func adapts a plain weighting function into a Kernel. The function must
// already have any shape parameters bound; the registry's parameter
// validation does not apply to it.
type Func func(distance float64) float64

// Weight implements Kernel.
func (f Func) Weight(distance float64) float64 { return f(distance) }

// Weights applies k elementwise over a slice of distances.
func Weights(k Kernel, distances []float64) []float64 {
	out := make([]float64, len(distances))
	for i, d := range distances {
		out[i] = k.Weight(d)
	}
	return out
}

// Package math32 provides float32 vector kernels for the neighbor and
// distance packages. Similarity scores accumulate in float64 so that
// rankings are reproducible across platforms.
package math32

import "math"

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

// Dot64 calculates the dot product of two float32 vectors with float64
// accumulation. Used for similarity scoring where deterministic,
// platform-independent results matter more than raw throughput.
func Dot64(a, b []float32) float64 {
	var ret float64
	for i := range a {
		ret += float64(a[i]) * float64(b[i])
	}

	return ret
}

// SquaredL2 calculates the squared L2 (Euclidean) distance.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var distance float32
	for i := range a {
		distance += (a[i] - b[i]) * (a[i] - b[i])
	}

	return distance
}

// Norm returns the L2 norm of v, accumulated in float64.
func Norm(v []float32) float64 {
	var norm2 float64
	for _, x := range v {
		norm2 += float64(x) * float64(x)
	}

	return math.Sqrt(norm2)
}

// ScaleInPlace multiplies all elements of a by scalar.
//
// This is primarily used by distance normalization.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

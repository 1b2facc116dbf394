// Package distance provides the public API for vector similarity
// calculations used by the neighbor index.
package distance

import (
	"fmt"
	"slices"

	"github.com/hupe1980/embdrift/internal/math32"
)

// Dot calculates the dot product of two vectors with float64 accumulation.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float64 {
	return math32.Dot64(a, b)
}

// Cosine calculates the cosine similarity of two vectors.
// Returns 0 when either vector has zero L2 norm.
func Cosine(a, b []float32) float64 {
	na := math32.Norm(a)
	nb := math32.Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return math32.Dot64(a, b) / (na * nb)
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm := math32.Norm(v)
	if norm == 0 {
		return false
	}
	math32.ScaleInPlace(v, float32(1/norm))
	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}

// Metric represents the similarity metric used for vector comparison.
//
// The set is closed on purpose: metrics are resolved once at index/comparator
// construction, never dispatched by name at query time.
type Metric int

const (
	// MetricCosine ranks by cosine similarity. Stored vectors are
	// L2-normalized once at index build time so scoring reduces to a dot
	// product.
	MetricCosine Metric = iota

	// MetricDot ranks by raw dot product, without normalization.
	MetricDot
)

func (m Metric) String() string {
	switch m {
	case MetricCosine:
		return "Cosine"
	case MetricDot:
		return "Dot"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	return m == MetricCosine || m == MetricDot
}

// Func is a function type for similarity calculation. Higher is more similar.
type Func func(a, b []float32) float64

// Provider returns the similarity function for the given metric.
//
// For MetricCosine the returned function is Dot: the caller is expected to
// have normalized both sides (the neighbor index does this at build time).
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricCosine, MetricDot:
		return Dot, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}

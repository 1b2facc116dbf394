package embdrift

import (
	"math"
	"sort"

	"github.com/hupe1980/embdrift/vocab"
)

// KeyScore holds the per-key comparison scores.
type KeyScore struct {
	// Overlap is the fraction of shared nearest neighbors in [0, 1]:
	// 1 means both spaces agree perfectly on this key's neighborhood.
	Overlap float64

	// OrderedOverlap additionally rewards rank agreement: shared neighbors
	// appearing at similar ranks score higher. In [0, 1].
	OrderedOverlap float64

	// LocalDrift is 1 - Overlap; the same information with distance
	// semantics for consumers that want "how much did this key move".
	LocalDrift float64
}

// Global holds the aggregate scores of one comparison.
//
// When zero keys were compared (disjoint vocabularies, or a filter that
// rejected everything) the float aggregates are NaN sentinels, never a
// numeric 0 masquerading as a real score. Check Defined first.
type Global struct {
	MeanOverlap           float64
	MedianOverlap         float64
	WeightedMedianOverlap float64
	MeanOrderedOverlap    float64

	// Compared is the number of keys that received per-key scores.
	Compared int

	// CoverageRatio is |common| / |union| of the two vocabularies, always
	// computed over the full alignment regardless of filtering or mode.
	CoverageRatio float64

	// OnlyInA / OnlyInB count keys exclusive to one space (vocabulary
	// drift). The full listings are in Vocabulary when ModeFull is set.
	OnlyInA int
	OnlyInB int

	// Vocabulary is the alignment the comparison ran over. In
	// ModeCommonOnly the exclusive listings are omitted (nil) to keep
	// results small; the counts above are always present.
	Vocabulary vocab.Alignment
}

// Defined reports whether the aggregate similarity scores carry a value.
func (g Global) Defined() bool { return g.Compared > 0 }

// Result is the output artifact of one comparison. It is immutable and owned
// by the caller.
type Result struct {
	PerKey map[string]KeyScore
	Global Global
}

// RankedKey pairs a key with its scores, for sorted views of a result.
type RankedKey struct {
	Key   string
	Score KeyScore
}

// LeastSimilar returns up to n keys ordered by ascending overlap (the keys
// that drifted most), ties broken by ascending key. Useful for drill-down
// inspection of the worst movers.
func (r *Result) LeastSimilar(n int) []RankedKey {
	return r.ranked(n, func(a, b RankedKey) bool {
		if a.Score.Overlap != b.Score.Overlap {
			return a.Score.Overlap < b.Score.Overlap
		}
		return a.Key < b.Key
	})
}

// MostSimilar returns up to n keys ordered by descending overlap, ties broken
// by ascending key.
func (r *Result) MostSimilar(n int) []RankedKey {
	return r.ranked(n, func(a, b RankedKey) bool {
		if a.Score.Overlap != b.Score.Overlap {
			return a.Score.Overlap > b.Score.Overlap
		}
		return a.Key < b.Key
	})
}

func (r *Result) ranked(n int, less func(a, b RankedKey) bool) []RankedKey {
	all := make([]RankedKey, 0, len(r.PerKey))
	for k, s := range r.PerKey {
		all = append(all, RankedKey{Key: k, Score: s})
	}
	sort.Slice(all, func(i, j int) bool { return less(all[i], all[j]) })

	if n < 0 {
		n = 0
	}
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

// mean returns the arithmetic mean, or NaN for empty input.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median returns the middle value (mean of the middle pair for even counts),
// or NaN for empty input.
func median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// weightedMedian returns the value at which the cumulative weight reaches
// half of the total. Falls back to the plain median when the total weight is
// zero; NaN for empty input.
func weightedMedian(values, weights []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	type pair struct{ v, w float64 }
	pairs := make([]pair, len(values))
	var total float64
	for i, v := range values {
		pairs[i] = pair{v: v, w: weights[i]}
		total += weights[i]
	}
	if total == 0 {
		return median(values)
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].v < pairs[j].v })

	half := total / 2
	var cum float64
	for _, p := range pairs {
		cum += p.w
		if cum >= half {
			return p.v
		}
	}
	return pairs[len(pairs)-1].v
}

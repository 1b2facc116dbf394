// Package embdrift compares two embedding spaces to quantify representational
// drift: how much the local neighborhood of each key changed between the two
// spaces, per key and in aggregate.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	a, _ := space.New(vectorsA)
//	b, _ := space.New(vectorsB)
//
//	cmp, _ := embdrift.New(a, b, embdrift.WithNeighborhoodSize(10))
//	result, _ := cmp.Compare(ctx)
//
//	fmt.Println(result.Global.MeanOverlap, result.Global.CoverageRatio)
//	for key, score := range result.PerKey {
//	    fmt.Println(key, score.Overlap, score.LocalDrift)
//	}
//
// # How Scores Are Computed
//
// For each key shared by both vocabularies, the k nearest keys are retrieved
// in each space independently (exact brute-force cosine ranking, deterministic
// tie-breaking). The per-key overlap is the fraction of shared neighbors; the
// drift is its complement. Overlap measures rank agreement, not geometric
// agreement: two spaces with mirrored geometry but identical neighbor
// rankings have zero drift.
//
// Spaces with different dimensionalities are legal input: no cross-space
// vector arithmetic is ever performed.
//
// # Degenerate Comparisons
//
// Comparing spaces with disjoint vocabularies is a valid, degenerate outcome,
// not an error. Aggregate scores are NaN sentinels in that case; check
// Result.Global.Defined before consuming them.
//
// # Vocabulary Handling
//
// Keys present in only one space are vocabulary drift, a distinct signal from
// representational drift. They are never scored per key but are always
// counted in the coverage ratio, and in ModeFull their full listings are
// attached to the result.
package embdrift

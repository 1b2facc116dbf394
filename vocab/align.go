// Package vocab computes vocabulary alignments between two vector spaces:
// which keys they share, which are exclusive to one side, and how much of the
// combined vocabulary the shared part covers.
package vocab

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/embdrift/space"
)

// Alignment partitions the union of two vocabularies. All slices are in
// ascending key order.
type Alignment struct {
	Common  []string // keys present in both spaces
	OnlyInA []string // keys exclusive to the first space
	OnlyInB []string // keys exclusive to the second space
}

// UnionSize returns the size of the combined vocabulary.
func (al Alignment) UnionSize() int {
	return len(al.Common) + len(al.OnlyInA) + len(al.OnlyInB)
}

// CoverageRatio returns |common| / |union| in [0, 1].
//
// A low ratio means the two spaces mostly describe different keys; scores
// computed over such an alignment are statistically weak and reporting layers
// should flag them. The ratio is 1 exactly when both exclusive sets are empty.
func (al Alignment) CoverageRatio() float64 {
	union := al.UnionSize()
	if union == 0 {
		return 0
	}
	return float64(len(al.Common)) / float64(union)
}

// Align computes the alignment of two spaces' vocabularies. It is a pure
// function: no side effects and no failure modes (empty spaces are already
// rejected at construction).
func Align(a, b *space.VectorSpace) Alignment {
	// Intern the union into dense ids so the set algebra runs on roaring
	// bitmaps instead of string maps.
	union := make([]string, 0, a.Len()+b.Len())
	union = append(union, a.Keys()...)
	union = append(union, b.Keys()...)
	sort.Strings(union)

	ids := make(map[string]uint32, len(union))
	interned := union[:0]
	for _, k := range union {
		if _, ok := ids[k]; ok {
			continue
		}
		ids[k] = uint32(len(interned))
		interned = append(interned, k)
	}

	inA := roaring.New()
	for _, k := range a.Keys() {
		inA.Add(ids[k])
	}
	inB := roaring.New()
	for _, k := range b.Keys() {
		inB.Add(ids[k])
	}

	common := roaring.And(inA, inB)
	onlyA := roaring.AndNot(inA, inB)
	onlyB := roaring.AndNot(inB, inA)

	return Alignment{
		Common:  materialize(common, interned),
		OnlyInA: materialize(onlyA, interned),
		OnlyInB: materialize(onlyB, interned),
	}
}

// materialize resolves a bitmap of interned ids back to sorted keys.
// Roaring iterates ids in ascending order, which matches key order here
// because ids were assigned over the sorted union.
func materialize(bm *roaring.Bitmap, interned []string) []string {
	out := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, interned[it.Next()])
	}
	return out
}

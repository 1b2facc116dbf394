package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/embdrift/space"
)

func mustSpace(t *testing.T, keys ...string) *space.VectorSpace {
	t.Helper()
	vectors := make(map[string][]float32, len(keys))
	for _, k := range keys {
		vectors[k] = []float32{1, 0}
	}
	s, err := space.New(vectors)
	require.NoError(t, err)
	return s
}

func TestAlign(t *testing.T) {
	t.Run("PartialOverlap", func(t *testing.T) {
		a := mustSpace(t, "cat", "dog", "fish")
		b := mustSpace(t, "dog", "fish", "bird")

		al := Align(a, b)
		assert.Equal(t, []string{"dog", "fish"}, al.Common)
		assert.Equal(t, []string{"cat"}, al.OnlyInA)
		assert.Equal(t, []string{"bird"}, al.OnlyInB)
		assert.Equal(t, 4, al.UnionSize())
		assert.InDelta(t, 0.5, al.CoverageRatio(), 1e-9)
	})

	t.Run("Identical", func(t *testing.T) {
		a := mustSpace(t, "x", "y")
		b := mustSpace(t, "x", "y")

		al := Align(a, b)
		assert.Equal(t, []string{"x", "y"}, al.Common)
		assert.Empty(t, al.OnlyInA)
		assert.Empty(t, al.OnlyInB)
		assert.Equal(t, 1.0, al.CoverageRatio())
	})

	t.Run("Disjoint", func(t *testing.T) {
		a := mustSpace(t, "a", "b")
		b := mustSpace(t, "c", "d")

		al := Align(a, b)
		assert.Empty(t, al.Common)
		assert.Equal(t, []string{"a", "b"}, al.OnlyInA)
		assert.Equal(t, []string{"c", "d"}, al.OnlyInB)
		assert.Equal(t, 0.0, al.CoverageRatio())
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := mustSpace(t, "cat", "dog", "fish")
		b := mustSpace(t, "dog", "bird")

		ab := Align(a, b)
		ba := Align(b, a)
		assert.Equal(t, ab.Common, ba.Common)
		assert.Equal(t, ab.OnlyInA, ba.OnlyInB)
		assert.Equal(t, ab.OnlyInB, ba.OnlyInA)
		assert.Equal(t, ab.CoverageRatio(), ba.CoverageRatio())
	})

	t.Run("CoverageBounds", func(t *testing.T) {
		a := mustSpace(t, "a", "b", "c")
		b := mustSpace(t, "b")

		ratio := Align(a, b).CoverageRatio()
		assert.GreaterOrEqual(t, ratio, 0.0)
		assert.LessOrEqual(t, ratio, 1.0)
	})
}

package embdrift

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/embdrift/cache"
	"github.com/hupe1980/embdrift/distance"
	"github.com/hupe1980/embdrift/freqfilter"
	"github.com/hupe1980/embdrift/space"
)

func mustSpace(t *testing.T, vectors map[string][]float32, optFns ...func(o *space.Options)) *space.VectorSpace {
	t.Helper()
	s, err := space.New(vectors, optFns...)
	require.NoError(t, err)
	return s
}

// clusterVectors places ant/bee close together and far from whale, so the
// neighbor structure is unambiguous for k = 1.
func clusterVectors() map[string][]float32 {
	return map[string][]float32{
		"ant":   {1, 0, 0},
		"bee":   {0.95, 0.31, 0},
		"whale": {0, 0, 1},
	}
}

func TestNewValidation(t *testing.T) {
	s := mustSpace(t, clusterVectors())

	tests := []struct {
		name    string
		a, b    *space.VectorSpace
		optFns  []Option
		wantErr error
	}{
		{name: "nil a", a: nil, b: s, wantErr: ErrNilSpace},
		{name: "nil b", a: s, b: nil, wantErr: ErrNilSpace},
		{name: "zero k", a: s, b: s, optFns: []Option{WithNeighborhoodSize(0)}, wantErr: ErrInvalidK},
		{name: "negative k", a: s, b: s, optFns: []Option{WithNeighborhoodSize(-3)}, wantErr: ErrInvalidK},
		{name: "bad metric", a: s, b: s, optFns: []Option{WithMetric(distance.Metric(99))}, wantErr: ErrInvalidMetric},
		{name: "bad mode", a: s, b: s, optFns: []Option{WithMode(Mode(99))}, wantErr: ErrInvalidMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.a, tt.b, tt.optFns...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompareIdenticalSpaces(t *testing.T) {
	vectors := map[string][]float32{
		"ant":   {1, 0, 0},
		"bee":   {0.9, 0.4, 0},
		"cat":   {0, 1, 0},
		"whale": {0, 0, 1},
	}
	a := mustSpace(t, vectors)
	b := mustSpace(t, vectors)

	cmp, err := New(a, b, WithNeighborhoodSize(2))
	require.NoError(t, err)

	res, err := cmp.Compare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.Global.MeanOverlap)
	assert.Equal(t, 1.0, res.Global.MedianOverlap)
	assert.Equal(t, 1.0, res.Global.MeanOrderedOverlap)
	assert.Equal(t, 4, res.Global.Compared)
	assert.Equal(t, 1.0, res.Global.CoverageRatio)
	assert.True(t, res.Global.Defined())

	for key, score := range res.PerKey {
		assert.Equal(t, 1.0, score.Overlap, key)
		assert.Equal(t, 1.0, score.OrderedOverlap, key)
		assert.Equal(t, 0.0, score.LocalDrift, key)
	}
}

func TestCompareDisjointVocabularies(t *testing.T) {
	a := mustSpace(t, map[string][]float32{"x": {1, 0}, "y": {0, 1}})
	b := mustSpace(t, map[string][]float32{"p": {1, 0}, "q": {0, 1}})

	cmp, err := New(a, b)
	require.NoError(t, err)

	res, err := cmp.Compare(context.Background())
	require.NoError(t, err, "empty intersection is a degenerate result, not an error")

	assert.Empty(t, res.PerKey)
	assert.Equal(t, 0, res.Global.Compared)
	assert.False(t, res.Global.Defined())
	assert.True(t, math.IsNaN(res.Global.MeanOverlap))
	assert.True(t, math.IsNaN(res.Global.MedianOverlap))
	assert.True(t, math.IsNaN(res.Global.WeightedMedianOverlap))
	assert.True(t, math.IsNaN(res.Global.MeanOrderedOverlap))
	assert.Equal(t, 0.0, res.Global.CoverageRatio)
	assert.Equal(t, 2, res.Global.OnlyInA)
	assert.Equal(t, 2, res.Global.OnlyInB)
}

// Overlap measures rank agreement, not geometric agreement: when dog is
// cat's only possible neighbor it ranks first in both spaces even though the
// two similarities have opposite signs.
func TestCompareOppositeGeometry(t *testing.T) {
	a := mustSpace(t, map[string][]float32{"cat": {1, 0}, "dog": {0.9, 0.1}})
	b := mustSpace(t, map[string][]float32{"cat": {1, 0}, "dog": {-0.9, 0.1}})

	cmp, err := New(a, b, WithNeighborhoodSize(1))
	require.NoError(t, err)

	res, err := cmp.Compare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.PerKey["cat"].Overlap)
	assert.Equal(t, 1.0, res.Global.MeanOverlap)
}

// Cosine similarity is invariant under a global sign flip, so negating every
// vector must preserve the entire neighbor structure.
func TestCompareRotatedGeometry(t *testing.T) {
	vectors := clusterVectors()
	flipped := make(map[string][]float32, len(vectors))
	for key, v := range vectors {
		neg := make([]float32, len(v))
		for i, x := range v {
			neg[i] = -x
		}
		flipped[key] = neg
	}

	a := mustSpace(t, vectors)
	b := mustSpace(t, flipped)

	cmp, err := New(a, b, WithNeighborhoodSize(1))
	require.NoError(t, err)

	res, err := cmp.Compare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.Global.MeanOverlap)
	assert.Equal(t, 1.0, res.PerKey["ant"].Overlap)
}

func TestCompareSymmetry(t *testing.T) {
	a := mustSpace(t, map[string][]float32{
		"ant":   {1, 0, 0},
		"bee":   {0.9, 0.4, 0},
		"cat":   {0, 1, 0},
		"whale": {0, 0, 1},
		"extra": {0.5, 0.5, 0},
	})
	b := mustSpace(t, map[string][]float32{
		"ant":   {0, 1, 0},
		"bee":   {0.2, 0.9, 0.1},
		"cat":   {1, 0, 0},
		"whale": {0.7, 0, 0.7},
		"other": {0, 0.5, 0.5},
	})

	ab, err := New(a, b, WithNeighborhoodSize(2))
	require.NoError(t, err)
	ba, err := New(b, a, WithNeighborhoodSize(2))
	require.NoError(t, err)

	resAB, err := ab.Compare(context.Background())
	require.NoError(t, err)
	resBA, err := ba.Compare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, resAB.Global.MeanOverlap, resBA.Global.MeanOverlap)
	assert.Equal(t, resAB.Global.MeanOrderedOverlap, resBA.Global.MeanOrderedOverlap)
	assert.Equal(t, resAB.PerKey, resBA.PerKey)

	// Directional fields swap sides.
	assert.Equal(t, resAB.Global.OnlyInA, resBA.Global.OnlyInB)
	assert.Equal(t, resAB.Global.OnlyInB, resBA.Global.OnlyInA)
}

func TestCompareClampsNeighborhoodSize(t *testing.T) {
	vectors := clusterVectors()
	a := mustSpace(t, vectors)
	b := mustSpace(t, vectors)

	// k far exceeds the vocabulary; effective neighborhoods shrink to 2.
	cmp, err := New(a, b, WithNeighborhoodSize(50))
	require.NoError(t, err)

	res, err := cmp.Compare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.Global.MeanOverlap)
	assert.Equal(t, 3, res.Global.Compared)
}

func TestCompareDifferingDimensions(t *testing.T) {
	a := mustSpace(t, map[string][]float32{
		"ant":   {1, 0},
		"bee":   {0.9, 0.4},
		"whale": {0, 1},
	})
	b := mustSpace(t, clusterVectors()) // 3-dimensional

	cmp, err := New(a, b, WithNeighborhoodSize(1))
	require.NoError(t, err)

	res, err := cmp.Compare(context.Background())
	require.NoError(t, err)

	// ant and bee are mutual nearest neighbors in both spaces.
	assert.Equal(t, 1.0, res.PerKey["ant"].Overlap)
	assert.Equal(t, 1.0, res.PerKey["bee"].Overlap)
	assert.Equal(t, 3, res.Global.Compared)
}

func TestCompareWithFrequencyFilter(t *testing.T) {
	vectors := map[string][]float32{
		"ant":   {1, 0, 0},
		"bee":   {0.9, 0.4, 0},
		"cat":   {0, 1, 0},
		"whale": {0, 0, 1},
	}

	a := mustSpace(t, vectors, space.WithFrequencies(map[string]float64{
		"ant": 100, "bee": 50, "cat": 10, "whale": 1,
	}))
	b := mustSpace(t, vectors, space.WithFrequencies(map[string]float64{
		"ant": 90, "bee": 60, "cat": 5, "whale": 2,
	}))

	t.Run("top most frequent in both spaces", func(t *testing.T) {
		cmp, err := New(a, b,
			WithNeighborhoodSize(1),
			WithFrequencyFilter(freqfilter.TopMostFrequent(2)),
		)
		require.NoError(t, err)

		res, err := cmp.Compare(context.Background())
		require.NoError(t, err)

		require.Equal(t, 2, res.Global.Compared)
		assert.Contains(t, res.PerKey, "ant")
		assert.Contains(t, res.PerKey, "bee")

		// Exclusion counts reflect vocabulary drift, not filtering.
		assert.Equal(t, 0, res.Global.OnlyInA)
	})

	t.Run("missing frequency data", func(t *testing.T) {
		bare := mustSpace(t, vectors)
		cmp, err := New(bare, b, WithFrequencyFilter(freqfilter.MinFrequency(5)))
		require.NoError(t, err)

		_, err = cmp.Compare(context.Background())
		assert.ErrorIs(t, err, ErrMissingFrequencyData)
	})
}

func TestCompareModes(t *testing.T) {
	a := mustSpace(t, map[string][]float32{
		"ant": {1, 0}, "bee": {0.9, 0.4}, "solo": {0, 1},
	})
	b := mustSpace(t, map[string][]float32{
		"ant": {1, 0}, "bee": {0.9, 0.4}, "lone": {0, 1},
	})

	t.Run("common only omits exclusive listings", func(t *testing.T) {
		cmp, err := New(a, b)
		require.NoError(t, err)

		res, err := cmp.Compare(context.Background())
		require.NoError(t, err)

		assert.Nil(t, res.Global.Vocabulary.OnlyInA)
		assert.Nil(t, res.Global.Vocabulary.OnlyInB)
		assert.Equal(t, 1, res.Global.OnlyInA)
		assert.Equal(t, 1, res.Global.OnlyInB)
	})

	t.Run("full mode keeps listings", func(t *testing.T) {
		cmp, err := New(a, b, WithMode(ModeFull))
		require.NoError(t, err)

		res, err := cmp.Compare(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []string{"solo"}, res.Global.Vocabulary.OnlyInA)
		assert.Equal(t, []string{"lone"}, res.Global.Vocabulary.OnlyInB)
	})
}

func TestCompareCancellation(t *testing.T) {
	s := mustSpace(t, clusterVectors())

	cmp, err := New(s, s)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = cmp.Compare(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareWithIndexCache(t *testing.T) {
	vectors := clusterVectors()
	a := mustSpace(t, vectors)
	b := mustSpace(t, map[string][]float32{
		"ant": {0, 1, 0}, "bee": {0.1, 0.9, 0}, "whale": {1, 0, 0},
	})

	ic := cache.New(4)
	collector := &BasicMetricsCollector{}

	cmp, err := New(a, b,
		WithIndexCache(ic),
		WithMetricsCollector(collector),
	)
	require.NoError(t, err)

	_, err = cmp.Compare(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, ic.Len())

	// Second run reuses both indexes.
	_, err = cmp.Compare(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, ic.Len())

	stats := collector.GetStats()
	assert.Equal(t, int64(2), stats.CacheHits)
	assert.Equal(t, int64(2), stats.CacheMisses)
	assert.Equal(t, int64(2), stats.IndexBuildCount)
	assert.Equal(t, int64(2), stats.CompareCount)
}

func TestCompareProgress(t *testing.T) {
	vectors := clusterVectors()
	s := mustSpace(t, vectors)

	var finalDone, finalTotal int
	cmp, err := New(s, s,
		WithWorkers(1),
		WithProgress(func(done, total int) {
			finalDone, finalTotal = done, total
		}),
	)
	require.NoError(t, err)

	_, err = cmp.Compare(context.Background())
	require.NoError(t, err)

	// The completion call is never throttled away.
	assert.Equal(t, 3, finalDone)
	assert.Equal(t, 3, finalTotal)
}

func TestCompareSingleKeySpace(t *testing.T) {
	a := mustSpace(t, map[string][]float32{"only": {1, 0}})
	b := mustSpace(t, map[string][]float32{"only": {0, 1}})

	cmp, err := New(a, b)
	require.NoError(t, err)

	res, err := cmp.Compare(context.Background())
	require.NoError(t, err)

	// A lone key has no neighborhood to compare.
	assert.Equal(t, 0, res.Global.Compared)
	assert.False(t, res.Global.Defined())
}

package embdrift

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/embdrift/neighbor"
	"github.com/hupe1980/embdrift/space"
	"github.com/hupe1980/embdrift/vocab"
)

// batchSize is the number of keys a worker scores between cooperative
// cancellation checks and progress updates.
const batchSize = 256

// Comparator compares two vector spaces and produces a Result.
// It is read-only after construction and safe for concurrent use.
type Comparator struct {
	a, b *space.VectorSpace
	opts options
}

// New creates a Comparator over spaces a and b.
//
// The two spaces may have different dimensionalities: scoring is
// similarity-space-relative, no cross-space vector arithmetic is performed.
func New(a, b *space.VectorSpace, optFns ...Option) (*Comparator, error) {
	if a == nil || b == nil {
		return nil, ErrNilSpace
	}

	opts := applyOptions(optFns)
	if opts.k <= 0 {
		return nil, ErrInvalidK
	}
	if !opts.metric.Valid() {
		return nil, ErrInvalidMetric
	}
	if !opts.mode.Valid() {
		return nil, ErrInvalidMode
	}

	return &Comparator{a: a, b: b, opts: opts}, nil
}

// Compare runs the comparison. A zero common vocabulary is a valid degenerate
// outcome (NaN aggregate sentinels), not an error. Any per-key failure aborts
// the whole comparison; partial results are never returned.
func (c *Comparator) Compare(ctx context.Context) (*Result, error) {
	start := time.Now()
	res, err := c.compare(ctx)

	compared := 0
	if res != nil {
		compared = res.Global.Compared
	}
	c.opts.metricsCollector.RecordCompare(compared, c.opts.k, time.Since(start), err)
	c.opts.logger.LogCompare(ctx, compared, c.opts.k, err)

	return res, err
}

func (c *Comparator) compare(ctx context.Context) (*Result, error) {
	align := vocab.Align(c.a, c.b)
	c.opts.logger.LogAlign(ctx, len(align.Common), len(align.OnlyInA), len(align.OnlyInB), align.CoverageRatio())

	compared, err := c.selectKeys(align.Common)
	if err != nil {
		return nil, err
	}

	ixA, err := c.index(ctx, "a", c.a)
	if err != nil {
		return nil, err
	}
	ixB, err := c.index(ctx, "b", c.b)
	if err != nil {
		return nil, err
	}

	perKey, err := c.scoreAll(ctx, ixA, ixB, compared)
	if err != nil {
		return nil, err
	}

	return c.assemble(align, perKey), nil
}

// selectKeys applies the configured frequency filter to the common
// vocabulary. A key is compared only if it passes the policy in both spaces.
func (c *Comparator) selectKeys(common []string) ([]string, error) {
	if c.opts.filter == nil {
		return common, nil
	}

	predA, err := c.opts.filter.Compile(c.a)
	if err != nil {
		return nil, err
	}
	predB, err := c.opts.filter.Compile(c.b)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(common))
	for _, k := range common {
		if predA.Allow(k) && predB.Allow(k) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (c *Comparator) index(ctx context.Context, side string, s *space.VectorSpace) (*neighbor.Index, error) {
	start := time.Now()

	var (
		ix  *neighbor.Index
		hit bool
		err error
	)
	metricOpt := func(o *neighbor.Options) { o.Metric = c.opts.metric }

	if c.opts.indexCache != nil {
		ix, hit, err = c.opts.indexCache.GetOrBuild(s, metricOpt)
		c.opts.metricsCollector.RecordCacheLookup(hit)
	} else {
		ix, err = neighbor.New(s, metricOpt)
	}

	if !hit {
		c.opts.metricsCollector.RecordIndexBuild(s.Len(), s.Dimension(), time.Since(start), err)
	}
	c.opts.logger.LogIndexBuild(ctx, side, s.Len(), s.Dimension(), hit, err)
	return ix, err
}

// scored is one worker's output for a single key. ok is false when the key
// has no scoreable neighborhood (a single-key space on either side).
type scored struct {
	key   string
	score KeyScore
	ok    bool
}

// scoreAll partitions keys into batches across a worker pool. Workers own
// disjoint partitions and return results by value; a failure in any worker
// cancels the rest and fails the comparison as a whole.
func (c *Comparator) scoreAll(ctx context.Context, ixA, ixB *neighbor.Index, keys []string) ([]scored, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	numBatches := (len(keys) + batchSize - 1) / batchSize
	batches := make([][]scored, numBatches)

	var done atomic.Int64
	progress := c.progressFunc(len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.workers)

	for bi := 0; bi < numBatches; bi++ {
		bi := bi
		lo := bi * batchSize
		hi := min(lo+batchSize, len(keys))

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out := make([]scored, 0, hi-lo)
			for _, key := range keys[lo:hi] {
				setA, err := ixA.Nearest(gctx, key, c.opts.k)
				if err != nil {
					return err
				}
				setB, err := ixB.Nearest(gctx, key, c.opts.k)
				if err != nil {
					return err
				}

				score, ok := scoreKey(setA, setB)
				out = append(out, scored{key: key, score: score, ok: ok})
			}

			batches[bi] = out
			progress(int(done.Add(int64(hi - lo))))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]scored, 0, len(keys))
	for _, b := range batches {
		all = append(all, b...)
	}
	return all, nil
}

// progressFunc wraps the configured callback with rate limiting. The final
// done == total call always goes through.
func (c *Comparator) progressFunc(total int) func(done int) {
	if c.opts.progress == nil {
		return func(int) {}
	}

	limiter := rate.NewLimiter(rate.Every(100*time.Millisecond), 1)
	var mu sync.Mutex
	return func(done int) {
		if done < total && !limiter.Allow() {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		c.opts.progress(done, total)
	}
}

func (c *Comparator) assemble(align vocab.Alignment, results []scored) *Result {
	perKey := make(map[string]KeyScore, len(results))
	overlaps := make([]float64, 0, len(results))
	ordered := make([]float64, 0, len(results))
	weights := make([]float64, 0, len(results))

	for _, r := range results {
		if !r.ok {
			continue
		}
		perKey[r.key] = r.score
		overlaps = append(overlaps, r.score.Overlap)
		ordered = append(ordered, r.score.OrderedOverlap)
		weights = append(weights, (c.a.Frequency(r.key)+c.b.Frequency(r.key))/2)
	}

	stats := align
	if c.opts.mode == ModeCommonOnly {
		stats.OnlyInA = nil
		stats.OnlyInB = nil
	}

	return &Result{
		PerKey: perKey,
		Global: Global{
			MeanOverlap:           mean(overlaps),
			MedianOverlap:         median(overlaps),
			WeightedMedianOverlap: weightedMedian(overlaps, weights),
			MeanOrderedOverlap:    mean(ordered),
			Compared:              len(perKey),
			CoverageRatio:         align.CoverageRatio(),
			OnlyInA:               len(align.OnlyInA),
			OnlyInB:               len(align.OnlyInB),
			Vocabulary:            stats,
		},
	}
}

// scoreKey compares a key's two neighborhoods. Both are truncated to the
// shorter length so that undersized vocabularies clamp instead of deflating
// the score; identical spaces always score 1.
//
// Overlap is the set-intersection ratio; OrderedOverlap is the mean prefix
// overlap (average of |prefixA(i) ∩ prefixB(i)| / i over i = 1..k), which
// rewards neighbors shared at similar ranks.
func scoreKey(setA, setB neighbor.Set) (KeyScore, bool) {
	k := min(len(setA.Neighbors), len(setB.Neighbors))
	if k == 0 {
		return KeyScore{}, false
	}

	seenA := make(map[string]struct{}, k)
	seenB := make(map[string]struct{}, k)

	// Each shared neighbor is counted once, when the later of its two
	// occurrences enters a prefix.
	shared := 0
	var prefixSum float64

	for i := 0; i < k; i++ {
		ak := setA.Neighbors[i].Key
		bk := setB.Neighbors[i].Key

		seenA[ak] = struct{}{}
		if _, ok := seenB[ak]; ok {
			shared++
		}
		seenB[bk] = struct{}{}
		if _, ok := seenA[bk]; ok {
			shared++
		}

		prefixSum += float64(shared) / float64(i+1)
	}

	overlap := float64(shared) / float64(k)
	return KeyScore{
		Overlap:        overlap,
		OrderedOverlap: prefixSum / float64(k),
		LocalDrift:     1 - overlap,
	}, true
}

// Package neighbor provides an exact nearest-neighbor index over a vector
// space. Rankings are defined by the brute-force similarity scan; there is no
// approximation, so two indexes built from equal spaces answer every query
// identically.
package neighbor

import (
	"context"
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hupe1980/embdrift/distance"
	"github.com/hupe1980/embdrift/queue"
	"github.com/hupe1980/embdrift/space"
)

// cancelCheckInterval is the number of candidates scanned between
// cooperative context checks.
const cancelCheckInterval = 4096

// Entry is one ranked neighbor.
type Entry struct {
	Key        string
	Similarity float64
}

// Set is the ordered neighborhood of a query: descending similarity, ties
// (within queue.DefaultEpsilon) broken by ascending key.
type Set struct {
	// Key is the queried key; empty for raw vector queries.
	Key       string
	Neighbors []Entry
}

// Keys returns the neighbor keys in rank order.
func (s Set) Keys() []string {
	out := make([]string, len(s.Neighbors))
	for i, n := range s.Neighbors {
		out[i] = n.Key
	}
	return out
}

// Options contains configuration options for the index.
type Options struct {
	// Metric selects the similarity used for ranking. Cosine is implemented
	// via vectors L2-normalized once at build time, so scoring reduces to a
	// dot product.
	Metric distance.Metric

	// CacheSize bounds the memoization of key-query results (a Set is
	// computed lazily and cached). Zero or negative disables memoization.
	CacheSize int
}

// DefaultOptions contains the default configuration options for the index.
var DefaultOptions = Options{
	Metric:    distance.MetricCosine,
	CacheSize: 4096,
}

// Index answers k-nearest-key queries against one vector space.
// It is read-only after construction and safe for concurrent use.
type Index struct {
	dim    int
	keys   []string // ascending, fixed at build
	byKey  map[string]int
	data   []float32 // row-major; normalized for cosine
	scorer distance.Func
	metric distance.Metric

	fingerprint space.Fingerprint
	cache       *lru.Cache[string, Set]
}

// New builds an index from s at cost O(len(vocabulary) * dimension).
// Vectors are copied, and for cosine L2-normalized once, at build time.
// Zero vectors cannot be normalized and are kept as-is; they score 0 against
// every query and therefore rank last (ties by key).
func New(s *space.VectorSpace, optFns ...func(o *Options)) (*Index, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if !opts.Metric.Valid() {
		return nil, fmt.Errorf("neighbor: invalid metric: %v", opts.Metric)
	}
	scorer, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, err
	}

	n := s.Len()
	dim := s.Dimension()

	ix := &Index{
		dim:         dim,
		keys:        s.Keys(),
		byKey:       make(map[string]int, n),
		data:        make([]float32, n*dim),
		scorer:      scorer,
		metric:      opts.Metric,
		fingerprint: s.Fingerprint(),
	}

	for i, k := range ix.keys {
		ix.byKey[k] = i
		row := ix.data[i*dim : (i+1)*dim]
		copy(row, s.VectorAt(i))
		if opts.Metric == distance.MetricCosine {
			// Zero rows stay zero; see doc comment.
			distance.NormalizeL2InPlace(row)
		}
	}

	if opts.CacheSize > 0 {
		// lru.New only fails for non-positive sizes.
		ix.cache, _ = lru.New[string, Set](opts.CacheSize)
	}

	return ix, nil
}

// Len returns the number of indexed keys.
func (ix *Index) Len() int { return len(ix.keys) }

// Dimension returns the indexed vector dimensionality.
func (ix *Index) Dimension() int { return ix.dim }

// Metric returns the similarity metric resolved at construction.
func (ix *Index) Metric() distance.Metric { return ix.metric }

// Contains reports whether key is indexed.
func (ix *Index) Contains(key string) bool {
	_, ok := ix.byKey[key]
	return ok
}

// Fingerprint returns the fingerprint of the space the index was built from.
func (ix *Index) Fingerprint() space.Fingerprint { return ix.fingerprint }

// Nearest returns the k nearest keys to the vector stored for key, excluding
// the key itself. The result length clamps to len(vocabulary)-1; it never
// fails on a large k. Fails with space.ErrKeyNotFound for unindexed keys and
// ErrInvalidK for k <= 0.
//
// Results are memoized per (key, k). The returned Set is shared with the
// cache; callers must treat it as read-only.
func (ix *Index) Nearest(ctx context.Context, key string, k int) (Set, error) {
	if k <= 0 {
		return Set{}, ErrInvalidK
	}
	ord, ok := ix.byKey[key]
	if !ok {
		return Set{}, &space.ErrKeyNotFound{Key: key}
	}

	var cacheKey string
	if ix.cache != nil {
		cacheKey = key + "\x00" + strconv.Itoa(k)
		if cached, ok := ix.cache.Get(cacheKey); ok {
			return cached, nil
		}
	}

	entries, err := ix.scan(ctx, ix.row(ord), ord, k)
	if err != nil {
		return Set{}, err
	}

	set := Set{Key: key, Neighbors: entries}
	if ix.cache != nil {
		ix.cache.Add(cacheKey, set)
	}
	return set, nil
}

// NearestVector returns the k nearest keys to an arbitrary query vector.
// Nothing is excluded, so the result length clamps to len(vocabulary).
// Fails with ErrDimensionMismatch when the query length differs from the
// indexed dimensionality, and ErrInvalidK for k <= 0; an unknown vector is
// never a failure.
func (ix *Index) NearestVector(ctx context.Context, q []float32, k int) (Set, error) {
	if k <= 0 {
		return Set{}, ErrInvalidK
	}
	if len(q) != ix.dim {
		return Set{}, &ErrDimensionMismatch{Expected: ix.dim, Actual: len(q)}
	}

	query := q
	if ix.metric == distance.MetricCosine {
		if norm, ok := distance.NormalizeL2Copy(q); ok {
			query = norm
		}
		// A zero query cannot be normalized; it scores 0 everywhere and the
		// ranking degenerates to key order, which is still well-defined.
	}

	entries, err := ix.scan(ctx, query, -1, k)
	if err != nil {
		return Set{}, err
	}
	return Set{Neighbors: entries}, nil
}

func (ix *Index) row(i int) []float32 {
	return ix.data[i*ix.dim : (i+1)*ix.dim : (i+1)*ix.dim]
}

// scan is the exact brute-force ranking over all indexed rows.
// exclude is the ordinal to skip (-1 for none).
func (ix *Index) scan(ctx context.Context, query []float32, exclude, k int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	available := len(ix.keys)
	if exclude >= 0 {
		available--
	}
	if k > available {
		k = available
	}
	if k <= 0 {
		return nil, nil
	}

	top := queue.NewTopK(k, queue.DefaultEpsilon)
	for i := range ix.keys {
		if i == exclude {
			continue
		}
		if i%cancelCheckInterval == cancelCheckInterval-1 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		top.Consider(queue.Item{Key: ix.keys[i], Score: ix.scorer(query, ix.row(i))})
	}

	ranked := top.Sorted()
	entries := make([]Entry, len(ranked))
	for i, it := range ranked {
		entries[i] = Entry{Key: it.Key, Similarity: it.Score}
	}
	return entries, nil
}

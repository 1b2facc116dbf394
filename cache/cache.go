// Package cache provides a process-scoped cache of built neighbor indexes.
//
// Building an index is the expensive step of a comparison (O(n*dim) plus
// normalization), and interactive callers tend to re-compare the same spaces
// with different parameters. The cache is an explicit object owned by the
// caller, never a package-level singleton; its invalidation key is the space
// fingerprint (vocabulary + vector hash) combined with the ranking metric.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hupe1980/embdrift/distance"
	"github.com/hupe1980/embdrift/neighbor"
	"github.com/hupe1980/embdrift/space"
)

// DefaultCapacity bounds the number of retained indexes when no capacity is
// given. Indexes are large (a full copy of the space's vectors), so the
// default is deliberately small.
const DefaultCapacity = 4

type cacheKey struct {
	fp     space.Fingerprint
	metric distance.Metric
}

// IndexCache is an LRU of built neighbor indexes. Safe for concurrent use.
type IndexCache struct {
	lru *lru.Cache[cacheKey, *neighbor.Index]
}

// New creates an IndexCache retaining at most capacity indexes.
// A non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *IndexCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	// lru.New only fails for non-positive sizes.
	c, _ := lru.New[cacheKey, *neighbor.Index](capacity)
	return &IndexCache{lru: c}
}

// Get returns the cached index for a space fingerprint and metric.
func (c *IndexCache) Get(fp space.Fingerprint, metric distance.Metric) (*neighbor.Index, bool) {
	return c.lru.Get(cacheKey{fp: fp, metric: metric})
}

// Add caches a built index under its space fingerprint and metric.
func (c *IndexCache) Add(ix *neighbor.Index) {
	c.lru.Add(cacheKey{fp: ix.Fingerprint(), metric: ix.Metric()}, ix)
}

// GetOrBuild returns the cached index for s, building and caching it on a
// miss. The second return reports whether the index came from the cache.
func (c *IndexCache) GetOrBuild(s *space.VectorSpace, optFns ...func(o *neighbor.Options)) (*neighbor.Index, bool, error) {
	opts := neighbor.DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if ix, ok := c.Get(s.Fingerprint(), opts.Metric); ok {
		return ix, true, nil
	}

	ix, err := neighbor.New(s, optFns...)
	if err != nil {
		return nil, false, err
	}
	c.Add(ix)
	return ix, false, nil
}

// Len returns the number of cached indexes.
func (c *IndexCache) Len() int { return c.lru.Len() }

// Purge drops all cached indexes.
func (c *IndexCache) Purge() { c.lru.Purge() }

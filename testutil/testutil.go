package testutil

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/embdrift/distance"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// FillGaussian fills dst with standard normal values.
func (r *RNG) FillGaussian(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = float32(r.rand.NormFloat64())
	}
}

// Vocabulary returns n deterministic keys ("w0000", "w0001", ...).
func Vocabulary(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("w%04d", i)
	}
	return keys
}

// UniformSpace generates one vector per key with values in range [0, 1).
func (r *RNG) UniformSpace(keys []string, dimensions int) map[string][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	vectors := make(map[string][]float32, len(keys))
	for _, key := range keys {
		vec := make([]float32, dimensions)
		for i := range vec {
			vec[i] = r.rand.Float32()
		}
		vectors[key] = vec
	}
	return vectors
}

// GaussianSpace generates one standard-normal vector per key. Gaussian
// components spread directions uniformly on the sphere, which makes cosine
// neighborhoods well conditioned.
func (r *RNG) GaussianSpace(keys []string, dimensions int) map[string][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	vectors := make(map[string][]float32, len(keys))
	for _, key := range keys {
		vec := make([]float32, dimensions)
		for i := range vec {
			vec[i] = float32(r.rand.NormFloat64())
		}
		vectors[key] = vec
	}
	return vectors
}

// Perturb returns a copy of vectors with additive gaussian noise of the
// given standard deviation. Small sigmas model benign retraining drift;
// large sigmas destroy the neighborhood structure.
func (r *RNG) Perturb(vectors map[string][]float32, sigma float64) map[string][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string][]float32, len(vectors))
	for key, vec := range vectors {
		noisy := make([]float32, len(vec))
		for i, v := range vec {
			noisy[i] = v + float32(r.rand.NormFloat64()*sigma)
		}
		out[key] = noisy
	}
	return out
}

// ZipfFrequencies assigns each key a frequency following a Zipf-like decay
// in the key's alphabetical rank. Deterministic for a given key set.
func ZipfFrequencies(keys []string) map[string]float64 {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	freqs := make(map[string]float64, len(sorted))
	for i, key := range sorted {
		freqs[key] = 1.0 / float64(i+1)
	}
	return freqs
}

// ExactNeighbors computes the exact k nearest keys to the given key by
// cosine similarity, excluding the key itself. Ties break by ascending key.
// Brute force; ground truth for index verification.
func ExactNeighbors(key string, vectors map[string][]float32, k int) []string {
	q := vectors[key]

	type scored struct {
		key   string
		score float64
	}
	all := make([]scored, 0, len(vectors))
	for other, vec := range vectors {
		if other == key {
			continue
		}
		all = append(all, scored{key: other, score: distance.Cosine(q, vec)})
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].key < all[j].key
	})

	if k > len(all) {
		k = len(all)
	}
	out := make([]string, k)
	for i := range out {
		out[i] = all[i].key
	}
	return out
}

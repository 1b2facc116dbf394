// Package space provides an immutable keyed vector collection, the input
// unit of an embedding-space comparison.
package space

import (
	"sort"
	"sync"

	"github.com/hupe1980/embdrift/internal/hash"
)

// Options contains configuration options for a vector space.
type Options struct {
	// Frequencies maps keys to non-negative weights (e.g. corpus term
	// frequencies). Entries for keys absent from the vector mapping are
	// ignored. Optional.
	Frequencies map[string]float64
}

// WithFrequencies attaches per-key frequency weights to the space.
func WithFrequencies(frequencies map[string]float64) func(o *Options) {
	return func(o *Options) {
		o.Frequencies = frequencies
	}
}

// VectorSpace is an immutable collection of key -> vector pairs sharing one
// dimensionality. Keys are held in ascending order so that everything derived
// from a space (fingerprints, neighbor rankings, alignments) is independent
// of map iteration order.
type VectorSpace struct {
	dim   int
	keys  []string       // ascending
	index map[string]int // key -> ordinal in keys
	data  []float32      // row-major, len(keys)*dim
	freqs []float64      // per ordinal, nil when frequencies were not supplied

	fpOnce sync.Once
	fp     Fingerprint
}

// New constructs a VectorSpace from a key -> vector mapping.
//
// It fails with ErrEmptyVocabulary when vectors is empty and with
// ErrInvalidDimension when a vector has zero length or vector lengths are
// inconsistent. The input is copied; later mutation of the caller's map or
// slices does not affect the space.
func New(vectors map[string][]float32, optFns ...func(o *Options)) (*VectorSpace, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	if len(vectors) == 0 {
		return nil, ErrEmptyVocabulary
	}

	keys := make([]string, 0, len(vectors))
	for k := range vectors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dim := len(vectors[keys[0]])
	if dim == 0 {
		return nil, &ErrInvalidDimension{Key: keys[0], Expected: dim, Actual: 0}
	}

	s := &VectorSpace{
		dim:   dim,
		keys:  keys,
		index: make(map[string]int, len(keys)),
		data:  make([]float32, len(keys)*dim),
	}

	for i, k := range keys {
		v := vectors[k]
		if len(v) != dim {
			return nil, &ErrInvalidDimension{Key: k, Expected: dim, Actual: len(v)}
		}
		copy(s.data[i*dim:(i+1)*dim], v)
		s.index[k] = i
	}

	if opts.Frequencies != nil {
		s.freqs = make([]float64, len(keys))
		for i, k := range keys {
			f, ok := opts.Frequencies[k]
			if !ok {
				continue
			}
			if f < 0 {
				return nil, &ErrInvalidFrequency{Key: k, Value: f}
			}
			s.freqs[i] = f
		}
	}

	return s, nil
}

// Dimension returns the shared vector dimensionality.
func (s *VectorSpace) Dimension() int { return s.dim }

// Len returns the vocabulary size.
func (s *VectorSpace) Len() int { return len(s.keys) }

// Keys returns the vocabulary in ascending order. The slice is a copy.
func (s *VectorSpace) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Contains reports whether key is part of the vocabulary.
func (s *VectorSpace) Contains(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Ordinal returns the position of key in the sorted vocabulary.
func (s *VectorSpace) Ordinal(key string) (int, bool) {
	i, ok := s.index[key]
	return i, ok
}

// KeyAt returns the key at ordinal i.
func (s *VectorSpace) KeyAt(i int) string { return s.keys[i] }

// Vector returns the vector stored for key.
// WARNING: The returned slice aliases internal memory.
// Callers must not modify it; make a copy if mutation is needed.
func (s *VectorSpace) Vector(key string) ([]float32, error) {
	i, ok := s.index[key]
	if !ok {
		return nil, &ErrKeyNotFound{Key: key}
	}
	return s.VectorAt(i), nil
}

// VectorAt returns the vector at ordinal i. Same aliasing caveat as Vector.
func (s *VectorSpace) VectorAt(i int) []float32 {
	return s.data[i*s.dim : (i+1)*s.dim : (i+1)*s.dim]
}

// HasFrequencies reports whether frequency weights were supplied.
func (s *VectorSpace) HasFrequencies() bool { return s.freqs != nil }

// Frequency returns the frequency weight of key. It returns 0 for keys
// without a weight and for spaces constructed without frequencies; it never
// fails, including for unknown keys.
func (s *VectorSpace) Frequency(key string) float64 {
	if s.freqs == nil {
		return 0
	}
	i, ok := s.index[key]
	if !ok {
		return 0
	}
	return s.freqs[i]
}

// Fingerprint returns the identity of this space's contents: dimensionality,
// vocabulary and raw vector bits. Two spaces constructed from equal mappings
// share a fingerprint regardless of map insertion order. Frequencies are not
// part of the fingerprint since neighbor structures do not depend on them.
//
// The fingerprint is the invalidation key for prebuilt neighbor indexes.
func (s *VectorSpace) Fingerprint() Fingerprint {
	s.fpOnce.Do(func() {
		keyDigest := hash.NewDigest()
		vecDigest := hash.NewDigest()

		keyDigest.WriteUint64(uint64(s.dim))
		vecDigest.WriteUint64(uint64(s.dim))

		for i, k := range s.keys {
			keyDigest.WriteString(k)
			vecDigest.WriteFloat32s(s.VectorAt(i))
		}

		s.fp = Fingerprint(uint64(keyDigest.Sum32())<<32 | uint64(vecDigest.Sum32()))
	})
	return s.fp
}

// Fingerprint identifies the contents of a VectorSpace.
type Fingerprint uint64

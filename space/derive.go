package space

import (
	"math/rand"
	"sort"
)

// subset builds a derived space from the rows at the given ordinals.
// Ordinals must be ascending so that derived keys stay sorted.
func (s *VectorSpace) subset(ordinals []int) *VectorSpace {
	out := &VectorSpace{
		dim:   s.dim,
		keys:  make([]string, len(ordinals)),
		index: make(map[string]int, len(ordinals)),
		data:  make([]float32, len(ordinals)*s.dim),
	}
	if s.freqs != nil {
		out.freqs = make([]float64, len(ordinals))
	}

	for j, i := range ordinals {
		out.keys[j] = s.keys[i]
		out.index[s.keys[i]] = j
		copy(out.data[j*s.dim:(j+1)*s.dim], s.VectorAt(i))
		if s.freqs != nil {
			out.freqs[j] = s.freqs[i]
		}
	}
	return out
}

// FilterByFrequency returns a derived space restricted to keys whose
// frequency is at least min. It fails with ErrMissingFrequencyData when the
// space has no frequency weights, and with ErrEmptyVocabulary when no key
// passes the threshold.
func (s *VectorSpace) FilterByFrequency(min float64) (*VectorSpace, error) {
	if s.freqs == nil {
		return nil, ErrMissingFrequencyData
	}

	ordinals := make([]int, 0, len(s.keys))
	for i := range s.keys {
		if s.freqs[i] >= min {
			ordinals = append(ordinals, i)
		}
	}

	if len(ordinals) == 0 {
		return nil, ErrEmptyVocabulary
	}
	if len(ordinals) == len(s.keys) {
		return s, nil
	}
	return s.subset(ordinals), nil
}

// Sample returns a derived space holding a uniform sample of at most n keys,
// drawn deterministically from seed. When n covers the whole vocabulary the
// receiver itself is returned.
//
// Sampling bounds memory and comparison cost for very large vocabularies.
func (s *VectorSpace) Sample(n int, seed int64) (*VectorSpace, error) {
	if n <= 0 {
		return nil, ErrEmptyVocabulary
	}
	if n >= len(s.keys) {
		return s, nil
	}

	rng := rand.New(rand.NewSource(seed))
	ordinals := rng.Perm(len(s.keys))[:n]
	sort.Ints(ordinals)

	return s.subset(ordinals), nil
}

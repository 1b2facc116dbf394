// Package freqfilter restricts a comparison to keys selected by their
// frequency weights: the most frequent, the least frequent, or everything
// above an explicit threshold.
package freqfilter

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/embdrift/space"
)

// ErrInvalidSelection is returned when a top-N policy is built with n <= 0.
var ErrInvalidSelection = errors.New("selection size must be positive")

type kind int

const (
	kindTopMost kind = iota
	kindTopLeast
	kindMinFrequency
)

// Filter is a frequency selection policy. It is pure configuration: a Filter
// is stateless after construction and reusable across spaces.
type Filter struct {
	kind      kind
	n         int
	threshold float64
}

// TopMostFrequent selects the n keys with the highest frequency.
// Ties are broken by ascending key, so the selection is deterministic.
func TopMostFrequent(n int) *Filter {
	return &Filter{kind: kindTopMost, n: n}
}

// TopLeastFrequent selects the n keys with the lowest frequency.
// Ties are broken by ascending key.
func TopLeastFrequent(n int) *Filter {
	return &Filter{kind: kindTopLeast, n: n}
}

// MinFrequency selects every key whose frequency is at least threshold.
func MinFrequency(threshold float64) *Filter {
	return &Filter{kind: kindMinFrequency, threshold: threshold}
}

func (f *Filter) String() string {
	switch f.kind {
	case kindTopMost:
		return fmt.Sprintf("TopMostFrequent(%d)", f.n)
	case kindTopLeast:
		return fmt.Sprintf("TopLeastFrequent(%d)", f.n)
	default:
		return fmt.Sprintf("MinFrequency(%g)", f.threshold)
	}
}

// Compile evaluates the policy against a space and returns the resulting
// predicate. Every policy needs frequency weights; compiling against a space
// without them fails with space.ErrMissingFrequencyData.
func (f *Filter) Compile(s *space.VectorSpace) (*Predicate, error) {
	if !s.HasFrequencies() {
		return nil, space.ErrMissingFrequencyData
	}

	allowed := bitset.New(uint(s.Len()))

	switch f.kind {
	case kindMinFrequency:
		for i := 0; i < s.Len(); i++ {
			if s.Frequency(s.KeyAt(i)) >= f.threshold {
				allowed.Set(uint(i))
			}
		}

	case kindTopMost, kindTopLeast:
		if f.n <= 0 {
			return nil, ErrInvalidSelection
		}

		ordinals := make([]int, s.Len())
		for i := range ordinals {
			ordinals[i] = i
		}
		// Keys are stored in ascending order, so comparing ordinals as the
		// secondary criterion is exactly the ascending-key tie-break.
		sort.SliceStable(ordinals, func(a, b int) bool {
			fa := s.Frequency(s.KeyAt(ordinals[a]))
			fb := s.Frequency(s.KeyAt(ordinals[b]))
			if fa != fb {
				if f.kind == kindTopMost {
					return fa > fb
				}
				return fa < fb
			}
			return ordinals[a] < ordinals[b]
		})

		n := f.n
		if n > len(ordinals) {
			n = len(ordinals)
		}
		for _, i := range ordinals[:n] {
			allowed.Set(uint(i))
		}
	}

	return &Predicate{s: s, allowed: allowed}, nil
}

// Predicate is a compiled filter bound to one space.
type Predicate struct {
	s       *space.VectorSpace
	allowed *bitset.BitSet
}

// Allow reports whether key passed the policy. Keys absent from the compiled
// space never pass.
func (p *Predicate) Allow(key string) bool {
	i, ok := p.s.Ordinal(key)
	if !ok {
		return false
	}
	return p.allowed.Test(uint(i))
}

// Count returns the number of selected keys.
func (p *Predicate) Count() int {
	return int(p.allowed.Count())
}

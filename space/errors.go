package space

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyVocabulary is returned when a space is constructed from zero keys.
	ErrEmptyVocabulary = errors.New("empty vocabulary")

	// ErrMissingFrequencyData is returned by operations that require
	// frequency weights when the space was constructed without them.
	ErrMissingFrequencyData = errors.New("missing frequency data")
)

// ErrInvalidDimension indicates a vector whose length disagrees with the
// space's dimensionality.
type ErrInvalidDimension struct {
	Key      string
	Expected int
	Actual   int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension for key %q: expected %d, got %d", e.Key, e.Expected, e.Actual)
}

// ErrKeyNotFound indicates a lookup of a key absent from the vocabulary.
type ErrKeyNotFound struct {
	Key string
}

func (e *ErrKeyNotFound) Error() string {
	return fmt.Sprintf("key not found: %q", e.Key)
}

// ErrInvalidFrequency indicates a negative frequency weight.
type ErrInvalidFrequency struct {
	Key   string
	Value float64
}

func (e *ErrInvalidFrequency) Error() string {
	return fmt.Sprintf("invalid frequency for key %q: %g", e.Key, e.Value)
}

package embdrift

import (
	"errors"

	"github.com/hupe1980/embdrift/neighbor"
	"github.com/hupe1980/embdrift/space"
)

var (
	// ErrNilSpace is returned when a comparator is constructed without two
	// vector spaces.
	ErrNilSpace = errors.New("nil vector space")

	// ErrInvalidK is returned when the neighborhood size is not positive.
	ErrInvalidK = neighbor.ErrInvalidK

	// ErrEmptyVocabulary is re-exported from the space package for
	// convenience; construction-time failures surface before comparison.
	ErrEmptyVocabulary = space.ErrEmptyVocabulary

	// ErrMissingFrequencyData is returned from Compare when a frequency
	// filter is configured but a space carries no frequency weights.
	ErrMissingFrequencyData = space.ErrMissingFrequencyData

	// ErrInvalidMetric is returned when an unknown similarity metric is
	// configured.
	ErrInvalidMetric = errors.New("invalid similarity metric")

	// ErrInvalidMode is returned when an unknown result mode is configured.
	ErrInvalidMode = errors.New("invalid result mode")
)

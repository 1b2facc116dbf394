package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGDeterminism(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)

	va := make([]float32, 16)
	vb := make([]float32, 16)
	a.FillGaussian(va)
	b.FillGaussian(vb)

	assert.Equal(t, va, vb)

	a.Reset()
	vc := make([]float32, 16)
	a.FillGaussian(vc)
	assert.Equal(t, va, vc)
}

func TestVocabulary(t *testing.T) {
	keys := Vocabulary(3)
	assert.Equal(t, []string{"w0000", "w0001", "w0002"}, keys)
}

func TestGaussianSpace(t *testing.T) {
	keys := Vocabulary(10)
	vectors := NewRNG(1).GaussianSpace(keys, 8)

	require.Len(t, vectors, 10)
	for _, key := range keys {
		assert.Len(t, vectors[key], 8)
	}
}

func TestPerturbZeroSigma(t *testing.T) {
	keys := Vocabulary(5)
	rng := NewRNG(7)
	vectors := rng.GaussianSpace(keys, 4)

	same := rng.Perturb(vectors, 0)
	assert.Equal(t, vectors, same)
	// Copies, not aliases.
	same["w0000"][0] += 1
	assert.NotEqual(t, vectors["w0000"][0], same["w0000"][0])
}

func TestZipfFrequencies(t *testing.T) {
	freqs := ZipfFrequencies([]string{"c", "a", "b"})

	assert.Equal(t, 1.0, freqs["a"])
	assert.Equal(t, 0.5, freqs["b"])
	assert.InDelta(t, 1.0/3, freqs["c"], 1e-12)
}

func TestExactNeighbors(t *testing.T) {
	vectors := map[string][]float32{
		"ant":   {1, 0},
		"bee":   {0.9, 0.4},
		"cat":   {0.5, 0.8},
		"whale": {0, 1},
	}

	got := ExactNeighbors("ant", vectors, 2)
	assert.Equal(t, []string{"bee", "cat"}, got)

	// k exceeding the candidate pool clamps.
	got = ExactNeighbors("ant", vectors, 10)
	assert.Len(t, got, 3)
}

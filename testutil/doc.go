// Package testutil provides testing utilities for Embdrift.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating deterministic random embedding
// spaces, perturbing them, and computing exact nearest neighbors as
// ground truth.
//
// # Random Space Generation
//
//	rng := testutil.NewRNG(seed)
//	keys := testutil.Vocabulary(1000)
//	vectors := rng.GaussianSpace(keys, 64)
//
// # Perturbation
//
//	drifted := rng.Perturb(vectors, 0.05) // additive gaussian noise
//
// # Exact Neighbors (Ground Truth)
//
//	neighbors := testutil.ExactNeighbors("w0001", vectors, 10)
package testutil

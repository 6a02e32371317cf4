// Copyright 2025 Nathan Michlo
// SPDX-License-Identifier: BSD-3-Clause
//
// This file contains a Go port of numpy.linspace
// Original source: https://github.com/numpy/numpy/blob/main/numpy/core/function_base.py
//
// Original Copyright (c) 2005-2024, NumPy Developers
// Original License: BSD-3-Clause
//
// See LICENSE file in this directory and THIRD_PARTY_LICENSES.md in repository root.

package numpy

// Linspace generates n evenly spaced values between start and end (inclusive).
//
// This is a Go port of numpy.linspace which returns evenly spaced numbers over
// a specified interval.
//
// Parameters:
//   - start: Starting value of the sequence
//   - end: End value of the sequence
//   - n: Number of samples to generate (must be >= 2)
//
// Returns:
//   - Slice of n evenly spaced float64 values
//
// Reference: https://github.com/numpy/numpy/blob/main/numpy/core/function_base.py#L23
func Linspace(start, end float64, n int) []float64 {
	if n < 2 {
		if n == 1 {
			return []float64{start}
		}
		return []float64{}
	}

	result := make([]float64, n)
	step := (end - start) / float64(n-1)

	for i := 0; i < n; i++ {
		result[i] = start + float64(i)*step
	}

	// Ensure endpoint is exact (avoid floating point drift)
	result[n-1] = end

	return result
}

// Clip bounds x to [lo, hi], mirroring numpy.clip for the scalar case.
//
// Reference: https://github.com/numpy/numpy/blob/main/numpy/core/fromnumeric.py
func Clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Interp is a minimal one-dimensional linear interpolant, a Go port of the
// scalar case of numpy.interp: given monotonically increasing xp/fp sample
// points, returns the linearly interpolated value at x, clamped to the
// endpoint values outside the sampled range.
//
// Reference: https://github.com/numpy/numpy/blob/main/numpy/lib/function_base.py
func Interp(x float64, xp, fp []float64) float64 {
	n := len(xp)
	if n == 0 {
		return 0
	}
	if n == 1 || x <= xp[0] {
		return fp[0]
	}
	if x >= xp[n-1] {
		return fp[n-1]
	}
	for i := 1; i < n; i++ {
		if x <= xp[i] {
			span := xp[i] - xp[i-1]
			if span == 0 {
				return fp[i-1]
			}
			t := (x - xp[i-1]) / span
			return fp[i-1] + t*(fp[i]-fp[i-1])
		}
	}
	return fp[n-1]
}

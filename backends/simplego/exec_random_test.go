// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/types/tensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func toFloat64s(flat []float32) []float64 {
	out := make([]float64, len(flat))
	for ii, v := range flat {
		out[ii] = float64(v)
	}
	return out
}

func TestRandomUniform(t *testing.T) {
	b := testBackend()
	const n = 10_000
	output := outputFor(dtypes.Float32, n)
	require.NoError(t, b.RandomUniform(output, 2, 5, 42))

	flat := tensors.ConstFlatData[float32](output)
	for _, v := range flat {
		// Also proves every element was initialized: the zero fill is out of range.
		require.GreaterOrEqual(t, v, float32(2))
		require.Less(t, v, float32(5))
	}
	samples := toFloat64s(flat)
	assert.InDelta(t, 3.5, stat.Mean(samples, nil), 0.1)

	// Same seed, same tensor.
	output2 := outputFor(dtypes.Float32, n)
	require.NoError(t, b.RandomUniform(output2, 2, 5, 42))
	assert.Equal(t, flat, tensors.ConstFlatData[float32](output2))

	// Different seed, different tensor.
	output3 := outputFor(dtypes.Float32, n)
	require.NoError(t, b.RandomUniform(output3, 2, 5, 43))
	assert.NotEqual(t, flat, tensors.ConstFlatData[float32](output3))
}

func TestRandomNormal(t *testing.T) {
	b := testBackend()
	const n = 10_000
	output := outputFor(dtypes.Float32, n)
	require.NoError(t, b.RandomNormal(output, 1, 2, 17))

	samples := toFloat64s(tensors.ConstFlatData[float32](output))
	mean, std := stat.MeanStdDev(samples, nil)
	assert.InDelta(t, 1.0, mean, 0.1)
	assert.InDelta(t, 2.0, std, 0.1)

	// Same seed, same tensor.
	output2 := outputFor(dtypes.Float32, n)
	require.NoError(t, b.RandomNormal(output2, 1, 2, 17))
	assert.Equal(t, tensors.ConstFlatData[float32](output), tensors.ConstFlatData[float32](output2))
}

func TestRandomUnsupportedDType(t *testing.T) {
	b := testBackend()
	output := outputFor(dtypes.Int32, 4)
	require.Error(t, b.RandomUniform(output, 0, 1, 0))
	require.Error(t, b.RandomNormal(output, 0, 1, 0))
}

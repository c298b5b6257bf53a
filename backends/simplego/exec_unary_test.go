// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/backends"
	"github.com/gomlx/tensorexec/types/tensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffine(t *testing.T) {
	b := testBackend()

	x := tensors.FromFlatDataAndDimensions([]float32{0, 1, 2, 3}, 4)
	output := outputFor(dtypes.Float32, 4)
	require.NoError(t, b.Affine(x, output, 2, -1))
	assert.Equal(t, []float32{-1, 1, 3, 5}, tensors.ConstFlatData[float32](output))

	// Integer tensors compute in float64 and truncate toward zero.
	xI := tensors.FromFlatDataAndDimensions([]int32{-3, 0, 3}, 3)
	outputI := outputFor(dtypes.Int32, 3)
	require.NoError(t, b.Affine(xI, outputI, 0.5, 0))
	assert.Equal(t, []int32{-1, 0, 1}, tensors.ConstFlatData[int32](outputI))
}

func TestAbs(t *testing.T) {
	b := testBackend()
	x := tensors.FromFlatDataAndDimensions([]float32{-1.5, 0, 2.5}, 3)
	output := outputFor(dtypes.Float32, 3)
	require.NoError(t, b.Abs(x, output))
	assert.Equal(t, []float32{1.5, 0, 2.5}, tensors.ConstFlatData[float32](output))

	xI := tensors.FromFlatDataAndDimensions([]int32{-7, 7}, 2)
	outputI := outputFor(dtypes.Int32, 2)
	require.NoError(t, b.Abs(xI, outputI))
	assert.Equal(t, []int32{7, 7}, tensors.ConstFlatData[int32](outputI))
}

func TestSqrt(t *testing.T) {
	b := testBackend()
	x := tensors.FromFlatDataAndDimensions([]float32{0, 1, 4, 9}, 4)
	output := outputFor(dtypes.Float32, 4)
	require.NoError(t, b.Sqrt(x, output))
	assert.Equal(t, []float32{0, 1, 2, 3}, tensors.ConstFlatData[float32](output))

	// No integer instantiation.
	xI := tensors.FromFlatDataAndDimensions([]int32{4}, 1)
	outputI := outputFor(dtypes.Int32, 1)
	require.ErrorIs(t, b.Sqrt(xI, outputI), backends.ErrNotImplemented)
}

func TestLogicalNot(t *testing.T) {
	b := testBackend()
	x := tensors.FromFlatDataAndDimensions([]int32{0, 1, -2}, 3)
	output := outputFor(dtypes.Int32, 3)
	require.NoError(t, b.LogicalNot(x, output))
	assert.Equal(t, []int32{1, 0, 0}, tensors.ConstFlatData[int32](output))
}

func TestConvertDType(t *testing.T) {
	b := testBackend()

	// Float to integer truncates toward zero.
	x := tensors.FromFlatDataAndDimensions([]float32{-1.7, -0.5, 0.5, 1.7}, 4)
	outputI := outputFor(dtypes.Int32, 4)
	require.NoError(t, b.ConvertDType(x, outputI))
	assert.Equal(t, []int32{-1, 0, 0, 1}, tensors.ConstFlatData[int32](outputI))

	xI := tensors.FromFlatDataAndDimensions([]int32{-2, 3}, 2)
	output := outputFor(dtypes.Float32, 2)
	require.NoError(t, b.ConvertDType(xI, output))
	assert.Equal(t, []float32{-2, 3}, tensors.ConstFlatData[float32](output))
}

func TestCopy(t *testing.T) {
	b := testBackend()

	x := tensors.FromFlatDataAndDimensions([]float32{1, 2, 3}, 3)
	output := outputFor(dtypes.Float32, 3)
	require.NoError(t, b.Copy(x, output))
	assert.Equal(t, []float32{1, 2, 3}, tensors.ConstFlatData[float32](output))

	// Raw byte duplication: an Int32 source fills a Float32 destination of the same
	// size with its bit patterns, no value conversion.
	xI := tensors.FromFlatDataAndDimensions([]int32{1, 2, 3}, 3)
	output = outputFor(dtypes.Float32, 3)
	require.NoError(t, b.Copy(xI, output))
	assert.Equal(t, xI.ConstBytes(), output.ConstBytes())
	assert.NotEqual(t, []float32{1, 2, 3}, tensors.ConstFlatData[float32](output))
}

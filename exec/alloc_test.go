// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package exec_test

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/exec"
	"github.com/gomlx/tensorexec/shapeinference"
	"github.com/gomlx/tensorexec/types/shapes"
	"github.com/gomlx/tensorexec/types/tensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUninitialized(t *testing.T) {
	ctx := newTestContext(t)
	x, err := ctx.Uninitialized(dtypes.Int32, 2, 3)
	require.NoError(t, err)
	assert.True(t, x.Shape().Equal(shapes.Make(dtypes.Int32, 2, 3)))
	assert.Equal(t, 1, ctx.NumPooled())

	_, err = ctx.Uninitialized(dtypes.Float32, 2, -1)
	require.ErrorIs(t, err, shapeinference.ErrShape)
	assert.Equal(t, 1, ctx.NumPooled())
}

func TestZeros(t *testing.T) {
	ctx := newTestContext(t)
	x, err := ctx.Zeros(dtypes.Float32, 4)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 0}, tensors.ConstFlatData[float32](x))
}

func TestFromFlatData(t *testing.T) {
	ctx := newTestContext(t)
	x, err := exec.FromFlatData(ctx, []int32{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	assert.True(t, x.Shape().Equal(shapes.Make(dtypes.Int32, 2, 3)))
	assert.Equal(t, []int32{1, 2, 3, 4, 5, 6}, tensors.ConstFlatData[int32](x))

	// The data is copied, not aliased.
	data := []float32{1, 2}
	y, err := exec.FromFlatData(ctx, data, 2)
	require.NoError(t, err)
	data[0] = 100
	assert.Equal(t, []float32{1, 2}, tensors.ConstFlatData[float32](y))

	_, err = exec.FromFlatData(ctx, []float32{1, 2, 3}, 2, 2)
	require.ErrorIs(t, err, shapeinference.ErrShape)
}

func TestFromScalar(t *testing.T) {
	ctx := newTestContext(t)
	x, err := exec.FromScalar(ctx, float32(3.5))
	require.NoError(t, err)
	assert.True(t, x.IsScalar())
	assert.Equal(t, []float32{3.5}, tensors.ConstFlatData[float32](x))
}

// The dtype universe splits three ways: Float32 and Int32 execute, Int16 and Uint8
// are declared but rejected as unsupported, and everything else is invalid.
func TestAllocDTypes(t *testing.T) {
	ctx := newTestContext(t)

	_, err := exec.FromFlatData(ctx, []int16{1, 2}, 2)
	require.ErrorIs(t, err, shapes.ErrUnsupportedDType)
	_, err = ctx.Zeros(dtypes.Uint8, 2)
	require.ErrorIs(t, err, shapes.ErrUnsupportedDType)

	_, err = exec.FromFlatData(ctx, []float64{1, 2}, 2)
	require.ErrorIs(t, err, shapes.ErrInvalidDType)
	_, err = ctx.Uninitialized(dtypes.Bool, 2)
	require.ErrorIs(t, err, shapes.ErrInvalidDType)

	assert.Equal(t, 0, ctx.NumPooled())
}

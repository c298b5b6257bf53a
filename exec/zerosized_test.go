// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package exec_test

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/backends"
	"github.com/gomlx/tensorexec/backends/notimplemented"
	"github.com/gomlx/tensorexec/exec"
	"github.com/gomlx/tensorexec/types/shapes"
	"github.com/gomlx/tensorexec/types/tensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBackend counts kernel calls for a few kernels, succeeding without
// computing anything. The rest fail through the embedded notimplemented.Backend, so
// reaching them is observable as an error.
type countingBackend struct {
	notimplemented.Backend
	addCalls, reduceSumCalls, argMinMaxCalls int
}

func (b *countingBackend) Add(lhs, rhs, output *tensors.Tensor) error {
	b.addCalls++
	return nil
}

func (b *countingBackend) ReduceSum(x, output *tensors.Tensor, axes []int) error {
	b.reduceSumCalls++
	return nil
}

func (b *countingBackend) ArgMinMax(x, output *tensors.Tensor, axis int, isMin, selectLast bool) error {
	b.argMinMaxCalls++
	return nil
}

func TestZeroSizedOutputSkipsKernel(t *testing.T) {
	backend := &countingBackend{}
	ctx := exec.NewWithBackend(backend)
	defer ctx.Finalize()

	empty, err := exec.FromFlatData(ctx, []float32{}, 0, 3)
	require.NoError(t, err)

	y, err := ctx.Add(empty, empty)
	require.NoError(t, err)
	assert.True(t, y.Shape().Equal(shapes.Make(dtypes.Float32, 0, 3)))
	assert.Equal(t, 0, backend.addCalls)

	// Mul has no working kernel in countingBackend: succeeding proves it was
	// never called.
	_, err = ctx.Mul(empty, empty)
	require.NoError(t, err)
	_, err = ctx.AddScalar(empty, 1)
	require.NoError(t, err)
	_, err = ctx.Transpose(empty)
	require.NoError(t, err)

	// Positive control: a non-empty operand does reach the kernel.
	x, err := exec.FromFlatData(ctx, []float32{1, 2, 3}, 1, 3)
	require.NoError(t, err)
	_, err = ctx.Add(x, x)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.addCalls)
}

func TestEmptyReductionYieldsZeros(t *testing.T) {
	backend := &countingBackend{}
	ctx := exec.NewWithBackend(backend)
	defer ctx.Finalize()

	// (2, 0, 3) holds no elements, but reducing its empty axis still has a
	// non-empty output: all zeros, without a kernel call.
	x, err := exec.FromFlatData(ctx, []float32{}, 2, 0, 3)
	require.NoError(t, err)

	sums, err := ctx.ReduceSum(x, []int{1}, false)
	require.NoError(t, err)
	require.True(t, sums.Shape().Equal(shapes.Make(dtypes.Float32, 2, 3)))
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0}, tensors.ConstFlatData[float32](sums))
	assert.Equal(t, 0, backend.reduceSumCalls)

	// Reducing all axes of an empty tensor gives a zero scalar.
	total, err := ctx.ReduceSum(x, nil, false)
	require.NoError(t, err)
	require.True(t, total.IsScalar())
	assert.Equal(t, []float32{0}, tensors.ConstFlatData[float32](total))

	// Same rule with keepDims, and for the other reductions.
	kept, err := ctx.ReduceMax(x, []int{1}, true)
	require.NoError(t, err)
	require.True(t, kept.Shape().Equal(shapes.Make(dtypes.Float32, 2, 1, 3)))
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0}, tensors.ConstFlatData[float32](kept))

	// ArgMax over the empty axis reports index 0.
	am, err := ctx.ArgMax(x, 1, false, false)
	require.NoError(t, err)
	require.True(t, am.Shape().Equal(shapes.Make(dtypes.Int32, 2, 3)))
	assert.Equal(t, []int32{0, 0, 0, 0, 0, 0}, tensors.ConstFlatData[int32](am))
	assert.Equal(t, 0, backend.argMinMaxCalls)

	// Reducing a non-empty axis keeps the empty one: zero-sized output, no
	// kernel call and no zero fill needed.
	edge, err := ctx.ReduceSum(x, []int{2}, false)
	require.NoError(t, err)
	assert.True(t, edge.Shape().Equal(shapes.Make(dtypes.Float32, 2, 0)))
	assert.Equal(t, 0, backend.reduceSumCalls)
}

func TestKernelFailureRollsBackPool(t *testing.T) {
	ctx := exec.NewWithBackend(notimplemented.Backend{})
	defer ctx.Finalize()

	x, err := exec.FromFlatData(ctx, []float32{1, 2, 3, 4}, 4)
	require.NoError(t, err)
	require.Equal(t, 1, ctx.NumPooled())

	_, err = ctx.AddScalar(x, 1)
	require.ErrorIs(t, err, backends.ErrNotImplemented)
	assert.Equal(t, 1, ctx.NumPooled())

	// TopK allocates two outputs: both are rolled back.
	_, _, err = ctx.TopK(x, 0, 2, true)
	require.ErrorIs(t, err, backends.ErrNotImplemented)
	assert.Equal(t, 1, ctx.NumPooled())

	// Split allocates one output per part: all are rolled back.
	_, err = ctx.Split(x, 0, 2)
	require.ErrorIs(t, err, backends.ErrNotImplemented)
	assert.Equal(t, 1, ctx.NumPooled())

	_, err = ctx.Concatenate([]*tensors.Tensor{x, x}, 0)
	require.ErrorIs(t, err, backends.ErrNotImplemented)
	assert.Equal(t, 1, ctx.NumPooled())

	require.True(t, x.Ok())
	assert.Equal(t, []float32{1, 2, 3, 4}, tensors.ConstFlatData[float32](x))
}

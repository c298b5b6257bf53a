// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package exec

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/shapeinference"
	"github.com/gomlx/tensorexec/types/tensors"
	"github.com/pkg/errors"
)

// reduceOp runs the shared flow of the reductions. Two degenerate cases never reach
// the backend: a zero-sized output is returned uninitialized (it holds no
// elements), and a zero-sized input with a non-empty output yields all zeros, the
// defined value of a reduction over no elements.
func (c *Context) reduceOp(opName string, x *tensors.Tensor, axes []int, keepDims bool,
	kernel func(x, output *tensors.Tensor, axes []int) error) (*tensors.Tensor, error) {
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape, resolvedAxes, err := shapeinference.ReduceOp(x.Shape(), axes, keepDims)
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	if shape.IsZeroSized() {
		return c.newOutput(shape), nil
	}
	if x.Shape().IsZeroSized() {
		return c.newZerosOutput(shape), nil
	}
	output := c.newOutput(shape)
	if err := kernel(x, output, resolvedAxes); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}

// ReduceSum returns the sum of x over the given axes, which may be negative to
// count from the end. Nil or empty axes reduce over all of them, to a scalar.
// Reduced axes are dropped from the shape, or kept with dimension 1 when keepDims
// is true. Reducing over zero elements yields 0.
func (c *Context) ReduceSum(x *tensors.Tensor, axes []int, keepDims bool) (*tensors.Tensor, error) {
	return c.reduceOp("ReduceSum", x, axes, keepDims, c.backend.ReduceSum)
}

// ReduceMean returns the mean of x over the given axes. For Int32 tensors the mean
// truncates toward zero. Axes and keepDims behave as in ReduceSum; reducing over
// zero elements yields 0.
func (c *Context) ReduceMean(x *tensors.Tensor, axes []int, keepDims bool) (*tensors.Tensor, error) {
	return c.reduceOp("ReduceMean", x, axes, keepDims, c.backend.ReduceMean)
}

// ReduceMax returns the maximum of x over the given axes. Axes and keepDims behave
// as in ReduceSum; reducing over zero elements yields 0.
func (c *Context) ReduceMax(x *tensors.Tensor, axes []int, keepDims bool) (*tensors.Tensor, error) {
	return c.reduceOp("ReduceMax", x, axes, keepDims, c.backend.ReduceMax)
}

// ReduceMin returns the minimum of x over the given axes. Axes and keepDims behave
// as in ReduceSum; reducing over zero elements yields 0.
func (c *Context) ReduceMin(x *tensors.Tensor, axes []int, keepDims bool) (*tensors.Tensor, error) {
	return c.reduceOp("ReduceMin", x, axes, keepDims, c.backend.ReduceMin)
}

// argMinMaxOp runs ArgMin and ArgMax: a single-axis reduction to the Int32 index of
// the winning element. The degenerate handling follows reduceOp, so an empty
// reduction yields index 0.
func (c *Context) argMinMaxOp(opName string, x *tensors.Tensor, axis int, keepDims, isMin, selectLast bool) (*tensors.Tensor, error) {
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape, err := shapeinference.ArgMinMaxOp(x.Shape(), axis, keepDims)
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	if shape.IsZeroSized() {
		return c.newOutput(shape), nil
	}
	if x.Shape().IsZeroSized() {
		return c.newZerosOutput(shape), nil
	}
	output := c.newOutput(shape)
	axis = resolveAxis(axis, x.Rank())
	if err := c.backend.ArgMinMax(x, output, axis, isMin, selectLast); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}

// ArgMin returns the Int32 index of the smallest element of x along axis, dropped
// from the shape or kept with dimension 1 when keepDims is true. Ties go to the
// lowest index, or to the highest when selectLast is true.
func (c *Context) ArgMin(x *tensors.Tensor, axis int, keepDims, selectLast bool) (*tensors.Tensor, error) {
	return c.argMinMaxOp("ArgMin", x, axis, keepDims, true, selectLast)
}

// ArgMax returns the Int32 index of the largest element of x along axis. Axis,
// keepDims and selectLast behave as in ArgMin.
func (c *Context) ArgMax(x *tensors.Tensor, axis int, keepDims, selectLast bool) (*tensors.Tensor, error) {
	return c.argMinMaxOp("ArgMax", x, axis, keepDims, false, selectLast)
}

// TopK returns the k largest (or smallest, when largest is false) elements of x
// along axis, sorted, together with their Int32 indices on that axis. Ties order by
// the lower index first. k must be between 0 and the axis dimension; with k=0 the
// results are empty.
func (c *Context) TopK(x *tensors.Tensor, axis, k int, largest bool) (values, indices *tensors.Tensor, err error) {
	const opName = "TopK"
	if err = c.checkOperands(x); err != nil {
		return nil, nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	valuesShape, err := shapeinference.TopKOp(x.Shape(), axis, k)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	indicesShape := valuesShape.Clone()
	indicesShape.DType = dtypes.Int32
	values = c.newOutput(valuesShape)
	indices = c.newOutput(indicesShape)
	if valuesShape.IsZeroSized() {
		return values, indices, nil
	}
	axis = resolveAxis(axis, x.Rank())
	if err = c.backend.TopK(x, values, indices, axis, k, largest); err != nil {
		c.discardOutputs(values, indices)
		return nil, nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return values, indices, nil
}

// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package exec

import (
	"slices"

	"github.com/gomlx/tensorexec/shapeinference"
	"github.com/gomlx/tensorexec/types/shapes"
	"github.com/gomlx/tensorexec/types/tensors"
	"github.com/gomlx/tensorexec/types/xslices"
	"github.com/pkg/errors"
)

// Reshape returns x reinterpreted with the given dimensions, which must hold
// exactly the same number of elements. The contents are copied in row-major order.
func (c *Context) Reshape(x *tensors.Tensor, dimensions ...int) (*tensors.Tensor, error) {
	const opName = "Reshape"
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape, err := shapeinference.ReshapeOp(x.Shape(), dimensions)
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	if err := c.backend.Copy(x, output); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}

// Expand returns x broadcast to the given dimensions, following the usual
// broadcasting rules: axes of dimension 1 stretch to the target and missing leading
// axes are added.
func (c *Context) Expand(x *tensors.Tensor, dimensions ...int) (*tensors.Tensor, error) {
	const opName = "Expand"
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape, err := shapeinference.ExpandOp(x.Shape(), dimensions)
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	if err := c.backend.Expand(x, output); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}

// Transpose returns x with its axes permuted: output axis ii takes the contents of
// x axis permutations[ii]. No permutations mean the default transposition,
// reversing all axes.
func (c *Context) Transpose(x *tensors.Tensor, permutations ...int) (*tensors.Tensor, error) {
	const opName = "Transpose"
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape, err := shapeinference.TransposeOp(x.Shape(), permutations)
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	if len(permutations) == 0 {
		permutations = xslices.Iota(0, x.Rank())
		slices.Reverse(permutations)
	}
	if err := c.backend.Transpose(x, output, permutations); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}

// Tile returns x with each axis repeated repeats[axis] times, so dimension ii of
// the output is x.Dim(ii)*repeats[ii]. A repeat of 0 empties the axis.
func (c *Context) Tile(x *tensors.Tensor, repeats ...int) (*tensors.Tensor, error) {
	const opName = "Tile"
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape, err := shapeinference.TileOp(x.Shape(), repeats)
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	if err := c.backend.Tile(x, output, repeats); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}

// Concatenate returns the inputs joined along axis. All inputs must share dtype and
// rank and agree on every other dimension; inputs empty on axis are legal and
// contribute nothing.
func (c *Context) Concatenate(inputs []*tensors.Tensor, axis int) (*tensors.Tensor, error) {
	const opName = "Concatenate"
	if err := c.checkOperands(inputs...); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	inputShapes := make([]shapes.Shape, len(inputs))
	for ii, t := range inputs {
		inputShapes[ii] = t.Shape()
	}
	shape, err := shapeinference.ConcatenateOp(inputShapes, axis)
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	axis = resolveAxis(axis, shape.Rank())
	offset := 0
	for _, t := range inputs {
		dim := t.Shape().Dim(axis)
		if t.Shape().IsZeroSized() {
			offset += dim
			continue
		}
		if err := c.backend.UpdateSlice(t, output, axis, offset); err != nil {
			c.discardOutputs(output)
			return nil, errors.WithMessagef(err, "in Context.%s()", opName)
		}
		offset += dim
	}
	return output, nil
}

// Split divides x into numSplits tensors of equal size along axis, whose dimension
// must be divisible by numSplits. The parts are returned in order.
func (c *Context) Split(x *tensors.Tensor, axis, numSplits int) ([]*tensors.Tensor, error) {
	const opName = "Split"
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	if numSplits <= 0 {
		err := errors.Wrapf(shapeinference.ErrShape, "Split requires a positive number of splits, got %d", numSplits)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	resolvedAxis, err := shapeinference.AdjustAxis(axis, x.Rank())
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	dim := x.Shape().Dim(resolvedAxis)
	if dim%numSplits != 0 {
		err := errors.Wrapf(shapeinference.ErrShape,
			"Split axis %d with dimension %d is not divisible into %d parts", resolvedAxis, dim, numSplits)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}

	partDim := dim / numSplits
	rank := x.Rank()
	parts := make([]*tensors.Tensor, numSplits)
	for ii := range parts {
		start := ii * partDim
		partShape, err := shapeinference.SplitOp(x.Shape(), resolvedAxis, start, start+partDim)
		if err != nil {
			c.discardOutputs(parts[:ii]...)
			return nil, errors.WithMessagef(err, "in Context.%s()", opName)
		}
		part := c.newOutput(partShape)
		parts[ii] = part
		if partShape.IsZeroSized() {
			continue
		}
		starts := make([]int, rank)
		starts[resolvedAxis] = start
		steps := xslices.SliceWithValue(rank, 1)
		if err := c.backend.Slice(x, part, starts, steps); err != nil {
			c.discardOutputs(parts[:ii+1]...)
			return nil, errors.WithMessagef(err, "in Context.%s()", opName)
		}
	}
	return parts, nil
}

// Slice returns a strided slice of x, with ONNX semantics: starts, ends and steps
// apply per entry of axes. Nil axes defaults to the first len(starts) axes and nil
// steps to all 1s; negative starts and ends count from the end of the axis and are
// clamped, and steps must be positive. Axes not listed are taken whole.
func (c *Context) Slice(x *tensors.Tensor, starts, ends, axes, steps []int) (*tensors.Tensor, error) {
	const opName = "Slice"
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape, resolvedStarts, resolvedSteps, err := shapeinference.SliceOp(x.Shape(), starts, ends, axes, steps)
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	if err := c.backend.Slice(x, output, resolvedStarts, resolvedSteps); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}

// Gather returns slices of x taken along axis, one per element of indices: the axis
// dimension is replaced by the dimensions of indices, so the output rank is
// x.Rank()-1+indices.Rank(). Indices must be integers; out-of-range values are
// clamped to the axis range.
func (c *Context) Gather(x, indices *tensors.Tensor, axis int) (*tensors.Tensor, error) {
	const opName = "Gather"
	if err := c.checkOperands(x, indices); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape, err := shapeinference.GatherOp(x.Shape(), indices.Shape(), axis)
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	axis = resolveAxis(axis, x.Rank())
	if x.Shape().Dim(axis) == 0 {
		// Non-empty indices into an empty axis: there is no in-range value to clamp to.
		c.discardOutputs(output)
		err := errors.Wrapf(shapeinference.ErrShape, "Gather cannot take indices from empty axis %d of %s", axis, x.Shape())
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	if err := c.backend.Gather(x, indices, output, axis); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}

// GatherElements returns an element-wise gather: x and indices have the same rank,
// and each output element at a given position takes the x entry whose coordinate on
// axis is given by indices at that position. The output has the dimensions of
// indices with the dtype of x. Out-of-range indices are clamped.
func (c *Context) GatherElements(x, indices *tensors.Tensor, axis int) (*tensors.Tensor, error) {
	const opName = "GatherElements"
	if err := c.checkOperands(x, indices); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape, err := shapeinference.GatherElementsOp(x.Shape(), indices.Shape(), axis)
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	axis = resolveAxis(axis, x.Rank())
	if x.Shape().Dim(axis) == 0 {
		c.discardOutputs(output)
		err := errors.Wrapf(shapeinference.ErrShape, "GatherElements cannot take indices from empty axis %d of %s", axis, x.Shape())
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	if err := c.backend.GatherElements(x, indices, output, axis); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}

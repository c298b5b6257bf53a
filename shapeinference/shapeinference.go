// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapeinference calculates the shape resulting from operations and validates
// their inputs.
//
// Every function here is pure: it takes shapes (and static parameters), returns the
// output shape or an error, and never touches tensor data. The execution engine calls
// it before allocating any output buffer, and backends may call it to plan temporary
// space.
//
// Conventions shared by all functions:
//
//   - Negative axes count from the end: axis -1 is the last axis. Resolution happens
//     here, once, so backends always see non-negative axes.
//   - Dimensions of size 0 are valid and propagate exactly. A shape with a 0
//     dimension holds no elements, but its other dimensions are never rounded up or
//     dropped.
//   - Structural failures wrap ErrShape; check them with errors.Is.
//
// The majority of the unary functions don't change the shape, so they have no entry
// here.
package shapeinference

import (
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/types/shapes"
	"github.com/gomlx/tensorexec/types/xslices"
	"github.com/pkg/errors"
)

// ErrShape is the base error for all structural shape incompatibilities reported by
// this package.
//
// It doesn't carry context, it is always wrapped with the details of the failed
// operation.
var ErrShape = errors.New("invalid shapes for operation")

// AdjustAxis resolves a possibly negative axis to the range [0, rank).
// Negative values count from the end, so axis=-1 refers to the last axis.
func AdjustAxis(axis, rank int) (int, error) {
	adjusted := axis
	if adjusted < 0 {
		adjusted += rank
	}
	if adjusted < 0 || adjusted >= rank {
		return -1, errors.Wrapf(ErrShape, "axis %d is out of range for rank %d", axis, rank)
	}
	return adjusted, nil
}

// adjustAxes resolves every axis in axes against rank and rejects repeats.
func adjustAxes(axes []int, rank int) ([]int, error) {
	adjusted := make([]int, len(axes))
	for ii, axis := range axes {
		var err error
		adjusted[ii], err = AdjustAxis(axis, rank)
		if err != nil {
			return nil, err
		}
	}
	sorted := slices.Clone(adjusted)
	slices.Sort(sorted)
	for ii := 1; ii < len(sorted); ii++ {
		if sorted[ii] == sorted[ii-1] {
			return nil, errors.Wrapf(ErrShape, "axis %d appears more than once in %v", sorted[ii], axes)
		}
	}
	return adjusted, nil
}

// BroadcastOp returns the shape resulting from broadcasting lhs and rhs together:
// dimensions are aligned from the end, missing leading dimensions count as 1, and
// two dimensions are compatible when they are equal or either is 1, in which case
// the result is the other one. So a 0 dimension broadcast against 1 stays 0.
//
// The operation is symmetric in the dimensions; the output DType is taken from lhs.
func BroadcastOp(lhs, rhs shapes.Shape) (output shapes.Shape, err error) {
	if !lhs.Ok() || !rhs.Ok() {
		err = errors.Wrapf(ErrShape, "BroadcastOp: invalid shapes %s and %s", lhs, rhs)
		return
	}
	// Trivial cases: if one of the sides is a scalar, return the other side's dimensions.
	if lhs.IsScalar() {
		output = rhs.Clone()
		output.DType = lhs.DType
		return
	}
	if rhs.IsScalar() {
		return lhs.Clone(), nil
	}

	outputRank := max(lhs.Rank(), rhs.Rank())
	output = shapes.Shape{
		DType:      lhs.DType,
		Dimensions: make([]int, outputRank),
	}
	for distanceFromEnd := 1; distanceFromEnd <= outputRank; distanceFromEnd++ {
		lhsDim, rhsDim := 1, 1
		if distanceFromEnd <= lhs.Rank() {
			lhsDim = lhs.Dimensions[lhs.Rank()-distanceFromEnd]
		}
		if distanceFromEnd <= rhs.Rank() {
			rhsDim = rhs.Dimensions[rhs.Rank()-distanceFromEnd]
		}
		var dim int
		switch {
		case lhsDim == rhsDim:
			dim = lhsDim
		case lhsDim == 1:
			dim = rhsDim
		case rhsDim == 1:
			dim = lhsDim
		default:
			return shapes.Invalid(), errors.Wrapf(ErrShape,
				"dimensions %d and %d of axis #%d (counting from the end) cannot be broadcast together, got shapes %s and %s",
				lhsDim, rhsDim, distanceFromEnd, lhs, rhs)
		}
		output.Dimensions[outputRank-distanceFromEnd] = dim
	}
	return
}

// BinaryOp returns the output shape of an elementwise binary operation: the operands
// must have the same DType and broadcast-compatible dimensions.
func BinaryOp(lhs, rhs shapes.Shape) (output shapes.Shape, err error) {
	if lhs.DType != rhs.DType {
		err = errors.Wrapf(ErrShape, "data types must match for a binary operation, got %s and %s", lhs, rhs)
		return
	}
	return BroadcastOp(lhs, rhs)
}

// ComparisonOp returns the broadcast shape with DType set to Int32, for comparison
// operations (Equal, LessThan, GreaterOrEqual, etc.). Comparison results are
// integer-encoded, 1 for true and 0 for false: the engine has no boolean dtype.
func ComparisonOp(lhs, rhs shapes.Shape) (output shapes.Shape, err error) {
	output, err = BinaryOp(lhs, rhs)
	if err != nil {
		return
	}
	output.DType = dtypes.Int32
	return
}

// WhereOp returns the output shape of an elementwise three-way selection: cond picks
// between onTrue and onFalse per element. All three shapes broadcast together; the
// branches must share a DType, and the output follows it. cond carries the
// integer-encoded boolean mask.
func WhereOp(cond, onTrue, onFalse shapes.Shape) (output shapes.Shape, err error) {
	if onTrue.DType != onFalse.DType {
		err = errors.Wrapf(ErrShape, "Where branches must have the same data type, got %s and %s", onTrue, onFalse)
		return
	}
	output, err = BroadcastOp(onTrue, onFalse)
	if err != nil {
		return
	}
	output, err = BroadcastOp(output, cond)
	if err != nil {
		return
	}
	output.DType = onTrue.DType
	return
}

// ConcatenateOp returns the shape of the concatenation of inputs along axis: all
// inputs must share DType and rank, and agree on every dimension except axis, where
// the output is the sum. Inputs with a 0 dimension on axis are legal and contribute
// nothing.
func ConcatenateOp(inputs []shapes.Shape, axis int) (output shapes.Shape, err error) {
	if len(inputs) == 0 {
		return shapes.Invalid(), errors.Wrapf(ErrShape, "ConcatenateOp requires at least one input shape")
	}

	firstShape := inputs[0]
	if !firstShape.Ok() {
		return shapes.Invalid(), errors.Wrapf(ErrShape, "invalid shape %s for input #0 of ConcatenateOp", firstShape)
	}
	dtype := firstShape.DType
	rank := firstShape.Rank()
	axis, err = AdjustAxis(axis, rank)
	if err != nil {
		return shapes.Invalid(), err
	}
	output = firstShape.Clone()

	// Validate further inputs and accumulate the concatenation axis size.
	for i := 1; i < len(inputs); i++ {
		currentShape := inputs[i]
		if currentShape.DType != dtype {
			return shapes.Invalid(), errors.Wrapf(ErrShape, "mismatched DTypes for ConcatenateOp: input #0 has %s, input #%d has %s",
				dtype, i, currentShape.DType)
		}
		if currentShape.Rank() != rank {
			return shapes.Invalid(), errors.Wrapf(ErrShape, "mismatched ranks for ConcatenateOp: input #0 has rank %d, input #%d has rank %d",
				rank, i, currentShape.Rank())
		}
		for d := 0; d < rank; d++ {
			if d == axis {
				output.Dimensions[d] += currentShape.Dimensions[d]
			} else if currentShape.Dimensions[d] != output.Dimensions[d] {
				return shapes.Invalid(), errors.Wrapf(ErrShape,
					"mismatched dimensions for ConcatenateOp at axis %d (non-concatenation axis): input #0 has %d, input #%d has %d",
					d, output.Dimensions[d], i, currentShape.Dimensions[d])
			}
		}
	}
	return output, nil
}

// ReduceOp returns the shape after reducing operand over the given axes, along with
// the resolved axes, non-negative and sorted, ready for a backend kernel. Reduced
// axes are removed from the shape, or kept with dimension 1 when keepDims is true.
// Empty axes means reduce over all axes. Repeated axes are an error.
//
// It works for ReduceSum, ReduceMean, ReduceMax and ReduceMin: they only differ in
// the value computed, never in the shape.
func ReduceOp(operand shapes.Shape, axes []int, keepDims bool) (output shapes.Shape, resolvedAxes []int, err error) {
	if !operand.Ok() {
		err = errors.Wrapf(ErrShape, "invalid operand shape for ReduceOp")
		return shapes.Invalid(), nil, err
	}
	rank := operand.Rank()
	if len(axes) == 0 {
		axes = xslices.Iota(0, rank)
	}
	resolvedAxes, err = adjustAxes(axes, rank)
	if err != nil {
		return shapes.Invalid(), nil, err
	}
	slices.Sort(resolvedAxes)

	reduced := make([]bool, rank)
	for _, axis := range resolvedAxes {
		reduced[axis] = true
	}
	output = shapes.Make(operand.DType)
	output.Dimensions = make([]int, 0, rank)
	for axis, dim := range operand.Dimensions {
		if !reduced[axis] {
			output.Dimensions = append(output.Dimensions, dim)
		} else if keepDims {
			output.Dimensions = append(output.Dimensions, 1)
		}
	}
	return
}

// ArgMinMaxOp returns the shape of an ArgMin or ArgMax over one axis: the operand
// shape reduced over axis, with DType Int32 to hold the winning indices.
func ArgMinMaxOp(operand shapes.Shape, axis int, keepDims bool) (output shapes.Shape, err error) {
	if operand.IsScalar() {
		return shapes.Invalid(), errors.Wrapf(ErrShape, "ArgMinMax requires a non-scalar operand, got %s", operand)
	}
	axis, err = AdjustAxis(axis, operand.Rank())
	if err != nil {
		return shapes.Invalid(), err
	}
	output, _, err = ReduceOp(operand, []int{axis}, keepDims)
	if err != nil {
		return
	}
	output.DType = dtypes.Int32
	return
}

// TransposeOp returns the shape with axes permuted: output axis ii gets the dimension
// of operand axis permutations[ii]. permutations must be a bijection of [0, rank).
// Nil or empty permutations mean the default transposition, reversing all axes.
func TransposeOp(operand shapes.Shape, permutations []int) (output shapes.Shape, err error) {
	rank := operand.Rank()
	if len(permutations) == 0 {
		output = operand.Clone()
		slices.Reverse(output.Dimensions)
		return
	}
	if len(permutations) != rank {
		err = errors.Wrapf(ErrShape,
			"TransposeOp requires all axes permutations to be defined, operand has shape %s, but %d permutations were given",
			operand, len(permutations))
		return
	}

	// Check permutation axes are within range and unique.
	axesSet := slices.Clone(permutations)
	slices.Sort(axesSet)
	for ii, srcAxis := range axesSet {
		if srcAxis < 0 || srcAxis >= rank {
			err = errors.Wrapf(ErrShape, "invalid permutation axis %d given to TransposeOp(%s), it must be within the range of its rank",
				srcAxis, operand)
			return
		}
		if ii > 0 && srcAxis == axesSet[ii-1] {
			err = errors.Wrapf(ErrShape, "invalid permutations given to TransposeOp(%s, %v), each axis must appear exactly once",
				operand, permutations)
			return
		}
	}

	output = operand.Clone()
	for axis := range output.Dimensions {
		output.Dimensions[axis] = operand.Dimensions[permutations[axis]]
	}
	return
}

// TileOp returns the shape of operand with each axis repeated repeats[axis] times:
// dimension ii of the output is operand.Dimensions[ii] * repeats[ii]. repeats must
// have exactly one non-negative value per axis; a repeat of 0 produces a 0 dimension.
func TileOp(operand shapes.Shape, repeats []int) (output shapes.Shape, err error) {
	if len(repeats) != operand.Rank() {
		err = errors.Wrapf(ErrShape, "TileOp requires one repeat per axis: operand has shape %s, but %d repeats were given",
			operand, len(repeats))
		return
	}
	output = operand.Clone()
	for axis, repeat := range repeats {
		if repeat < 0 {
			return shapes.Invalid(), errors.Wrapf(ErrShape, "TileOp repeats must be non-negative, got repeats[%d]=%d", axis, repeat)
		}
		output.Dimensions[axis] *= repeat
	}
	return
}

// ReshapeOp returns the shape with the given dimensions, which must hold exactly the
// same number of elements as the operand. Dimensions must be non-negative.
func ReshapeOp(operand shapes.Shape, dimensions []int) (output shapes.Shape, err error) {
	for _, dim := range dimensions {
		if dim < 0 {
			return shapes.Invalid(), errors.Wrapf(ErrShape, "ReshapeOp dimensions must be non-negative, got %v", dimensions)
		}
	}
	output = shapes.Make(operand.DType, dimensions...)
	if output.Size() != operand.Size() {
		return shapes.Invalid(), errors.Wrapf(ErrShape, "ReshapeOp cannot reshape %s (%d elements) to dimensions %v (%d elements)",
			operand, operand.Size(), dimensions, output.Size())
	}
	return
}

// ExpandOp returns the shape of operand broadcast against the given dimensions,
// following the usual broadcasting rules: operand axes of dimension 1 stretch to the
// target, and missing leading axes are added.
func ExpandOp(operand shapes.Shape, dimensions []int) (output shapes.Shape, err error) {
	for _, dim := range dimensions {
		if dim < 0 {
			return shapes.Invalid(), errors.Wrapf(ErrShape, "ExpandOp dimensions must be non-negative, got %v", dimensions)
		}
	}
	return BroadcastOp(operand, shapes.Make(operand.DType, dimensions...))
}

// SliceOp resolves ONNX-style slice arguments and returns the output shape along with
// one resolved (start, step) pair per operand axis, ready for a backend kernel.
//
// starts, ends and steps are given per entry of axes; nil axes defaults to the first
// len(starts) axes, and nil steps defaults to all 1s. Per sliced axis: negative
// starts/ends are resolved against the dimension, then clamped to [0, dimension];
// the axis output dimension is the number of selected elements,
// ceil((end-start)/step), floored at 0. Steps must be positive. Axes not listed pass
// through whole.
func SliceOp(operand shapes.Shape, starts, ends, axes, steps []int) (output shapes.Shape, resolvedStarts, resolvedSteps []int, err error) {
	rank := operand.Rank()
	if len(ends) != len(starts) {
		err = errors.Wrapf(ErrShape, "SliceOp requires starts and ends of the same length, got %d and %d", len(starts), len(ends))
		return
	}
	if axes == nil {
		axes = xslices.Iota(0, len(starts))
	} else if len(axes) != len(starts) {
		err = errors.Wrapf(ErrShape, "SliceOp requires one axis per start, got %d axes for %d starts", len(axes), len(starts))
		return
	}
	if steps == nil {
		steps = xslices.SliceWithValue(len(starts), 1)
	} else if len(steps) != len(starts) {
		err = errors.Wrapf(ErrShape, "SliceOp requires one step per start, got %d steps for %d starts", len(steps), len(starts))
		return
	}
	axes, err = adjustAxes(axes, rank)
	if err != nil {
		return
	}

	// Unlisted axes are taken whole.
	output = operand.Clone()
	resolvedStarts = make([]int, rank)
	resolvedSteps = xslices.SliceWithValue(rank, 1)
	for ii, axis := range axes {
		dim := operand.Dimensions[axis]
		start, end, step := starts[ii], ends[ii], steps[ii]
		if step <= 0 {
			err = errors.Wrapf(ErrShape, "SliceOp steps must be positive, got step %d for axis %d", step, axis)
			return shapes.Invalid(), nil, nil, err
		}
		if start < 0 {
			start += dim
		}
		start = min(max(start, 0), dim)
		if end < 0 {
			end += dim
		}
		end = min(max(end, 0), dim)

		// The first element is always taken, so round the division up.
		outputDim := 0
		if end > start {
			outputDim = (end - start + step - 1) / step
		}
		output.Dimensions[axis] = outputDim
		resolvedStarts[axis] = start
		resolvedSteps[axis] = step
	}
	return
}

// SplitOp is a slice restricted to one axis with step 1: it returns the shape of
// operand with axis reduced to the range [start, end).
func SplitOp(operand shapes.Shape, axis, start, end int) (output shapes.Shape, err error) {
	axis, err = AdjustAxis(axis, operand.Rank())
	if err != nil {
		return shapes.Invalid(), err
	}
	output, _, _, err = SliceOp(operand, []int{start}, []int{end}, []int{axis}, []int{1})
	return
}

// GatherOp returns the shape of gathering slices of operand along axis, using an
// arbitrarily shaped tensor of indices: the axis dimension is replaced by all the
// dimensions of indices, so the output rank is operand.Rank()-1+indices.Rank().
// Indices must be of an integer DType.
func GatherOp(operand, indices shapes.Shape, axis int) (output shapes.Shape, err error) {
	if operand.IsScalar() {
		return shapes.Invalid(), errors.Wrapf(ErrShape, "GatherOp requires a non-scalar operand, got %s", operand)
	}
	if !indices.DType.IsInt() {
		return shapes.Invalid(), errors.Wrapf(ErrShape, "GatherOp indices must be of an integer DType, got %s", indices)
	}
	axis, err = AdjustAxis(axis, operand.Rank())
	if err != nil {
		return shapes.Invalid(), err
	}
	output = shapes.Make(operand.DType)
	output.Dimensions = make([]int, 0, operand.Rank()-1+indices.Rank())
	output.Dimensions = append(output.Dimensions, operand.Dimensions[:axis]...)
	output.Dimensions = append(output.Dimensions, indices.Dimensions...)
	output.Dimensions = append(output.Dimensions, operand.Dimensions[axis+1:]...)
	return
}

// GatherElementsOp returns the shape of an elementwise gather: operand and indices
// must have the same rank, and the output takes the dimensions of indices with the
// DType of operand. Along axis, each output element picks the operand entry selected
// by the corresponding index; on every other axis the indices dimension must not
// exceed the operand dimension.
func GatherElementsOp(operand, indices shapes.Shape, axis int) (output shapes.Shape, err error) {
	if operand.Rank() != indices.Rank() {
		return shapes.Invalid(), errors.Wrapf(ErrShape,
			"GatherElementsOp requires operand and indices of the same rank, got %s and %s", operand, indices)
	}
	if !indices.DType.IsInt() {
		return shapes.Invalid(), errors.Wrapf(ErrShape, "GatherElementsOp indices must be of an integer DType, got %s", indices)
	}
	axis, err = AdjustAxis(axis, operand.Rank())
	if err != nil {
		return shapes.Invalid(), err
	}
	for dimAxis, dim := range indices.Dimensions {
		if dimAxis != axis && dim > operand.Dimensions[dimAxis] {
			return shapes.Invalid(), errors.Wrapf(ErrShape,
				"GatherElementsOp indices dimensions must not exceed the operand's outside axis %d, got %s for operand %s",
				axis, indices, operand)
		}
	}
	output = shapes.Make(operand.DType, indices.Dimensions...)
	return
}

// TopKOp returns the shape of the k largest (or smallest) elements along axis: the
// operand shape with that axis reduced to k. k may be 0, yielding a zero-sized
// shape, but never larger than the axis dimension.
func TopKOp(operand shapes.Shape, axis, k int) (output shapes.Shape, err error) {
	if operand.IsScalar() {
		return shapes.Invalid(), errors.Wrapf(ErrShape, "TopKOp requires a non-scalar operand, got %s", operand)
	}
	axis, err = AdjustAxis(axis, operand.Rank())
	if err != nil {
		return shapes.Invalid(), err
	}
	dim := operand.Dimensions[axis]
	if k < 0 || k > dim {
		return shapes.Invalid(), errors.Wrapf(ErrShape, "TopKOp k=%d is out of range for axis %d with dimension %d", k, axis, dim)
	}
	output = operand.Clone()
	output.Dimensions[axis] = k
	return
}

// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

import (
	"github.com/gomlx/tensorexec/types/tensors"
)

// StandardKernels lists the numeric operations a Backend must provide.
//
// Conventions shared by every kernel:
//
//   - Parameters are ordered inputs, then outputs, then operation parameters.
//   - Output tensors are pre-allocated by the caller with the shape computed by the
//     matching function in package shapeinference; the kernel's only job is to fill
//     them. Kernels never allocate result tensors.
//   - Axes, permutations, starts and steps arrive already resolved: non-negative and
//     validated.
//   - No tensor is zero-sized: the engine resolves those before dispatching.
//   - Elementwise binary kernels (and Where) receive operands whose shapes broadcast
//     to the output shape; the kernel performs the broadcast while iterating.
//   - Comparison and logical kernels use integer-encoded booleans: Int32 values
//     0 and 1.
type StandardKernels interface {

	// Abs fills output with the element-wise absolute value of x.
	Abs(x, output *tensors.Tensor) error

	// Add fills output with the element-wise sum of the two operands, broadcasting
	// as needed.
	Add(lhs, rhs, output *tensors.Tensor) error

	// Affine fills output with x*scale + bias, element-wise. For integer tensors the
	// result is computed in float64 and truncated.
	//
	// This single kernel backs all the scalar arithmetic operations (AddScalar,
	// MulScalar, Neg, ...): they only differ in the (scale, bias) pair.
	Affine(x, output *tensors.Tensor, scale, bias float64) error

	// ArgMinMax fills output with the index of the extreme element of x along axis:
	// the minimum if isMin, else the maximum. output has DType Int32. On ties the
	// lowest index wins, unless selectLast, in which case the highest does.
	ArgMinMax(x, output *tensors.Tensor, axis int, isMin, selectLast bool) error

	// ConvertDType fills output with x converted, element by element, to the output
	// DType. Float to integer conversion truncates toward zero.
	ConvertDType(x, output *tensors.Tensor) error

	// Copy duplicates the raw storage bytes of x into output, up to the shorter of
	// the two, without interpreting them. The shapes may disagree in DType.
	Copy(x, output *tensors.Tensor) error

	// Div fills output with the element-wise division of the two operands,
	// broadcasting as needed.
	Div(lhs, rhs, output *tensors.Tensor) error

	// Equal fills output with the element-wise comparison lhs == rhs.
	Equal(lhs, rhs, output *tensors.Tensor) error

	// Expand fills output by broadcasting x to the output shape: axes of dimension 1
	// in x are stretched, missing leading axes replicated.
	Expand(x, output *tensors.Tensor) error

	// Gather fills output with slices of x taken along axis: for each element of
	// indices, the whole sub-tensor x[..., index, ...] is copied over. Indices out of
	// range are clamped to the valid range.
	Gather(x, indices, output *tensors.Tensor, axis int) error

	// GatherElements fills output element by element: the element at a given
	// position is taken from x at the same position, except on axis where the
	// corresponding value of indices is used. Indices out of range are clamped.
	GatherElements(x, indices, output *tensors.Tensor, axis int) error

	// GreaterOrEqual fills output with the element-wise comparison lhs >= rhs.
	GreaterOrEqual(lhs, rhs, output *tensors.Tensor) error

	// GreaterThan fills output with the element-wise comparison lhs > rhs.
	GreaterThan(lhs, rhs, output *tensors.Tensor) error

	// LessOrEqual fills output with the element-wise comparison lhs <= rhs.
	LessOrEqual(lhs, rhs, output *tensors.Tensor) error

	// LessThan fills output with the element-wise comparison lhs < rhs.
	LessThan(lhs, rhs, output *tensors.Tensor) error

	// LogicalAnd fills output with the element-wise conjunction of the operands.
	LogicalAnd(lhs, rhs, output *tensors.Tensor) error

	// LogicalNot fills output with the element-wise negation of x: 1 where x is 0,
	// else 0.
	LogicalNot(x, output *tensors.Tensor) error

	// LogicalOr fills output with the element-wise disjunction of the operands.
	LogicalOr(lhs, rhs, output *tensors.Tensor) error

	// LogicalXor fills output with the element-wise exclusive disjunction of the
	// operands.
	LogicalXor(lhs, rhs, output *tensors.Tensor) error

	// Max fills output with the element-wise maximum of the two operands.
	Max(lhs, rhs, output *tensors.Tensor) error

	// Min fills output with the element-wise minimum of the two operands.
	Min(lhs, rhs, output *tensors.Tensor) error

	// Mul fills output with the element-wise product of the two operands.
	Mul(lhs, rhs, output *tensors.Tensor) error

	// NotEqual fills output with the element-wise comparison lhs != rhs.
	NotEqual(lhs, rhs, output *tensors.Tensor) error

	// RandomNormal fills output with pseudo-random values from a normal distribution
	// with the given mean and scale (standard deviation). The same seed always
	// produces the same sequence. Every element of output is written.
	RandomNormal(output *tensors.Tensor, mean, scale float64, seed int64) error

	// RandomUniform fills output with pseudo-random values uniformly distributed in
	// [low, high). The same seed always produces the same sequence. Every element of
	// output is written.
	RandomUniform(output *tensors.Tensor, low, high float64, seed int64) error

	// ReduceMax fills output with the maximum of x over the given axes.
	ReduceMax(x, output *tensors.Tensor, axes []int) error

	// ReduceMean fills output with the mean of x over the given axes. For integer
	// tensors the division truncates.
	ReduceMean(x, output *tensors.Tensor, axes []int) error

	// ReduceMin fills output with the minimum of x over the given axes.
	ReduceMin(x, output *tensors.Tensor, axes []int) error

	// ReduceSum fills output with the sum of x over the given axes.
	ReduceSum(x, output *tensors.Tensor, axes []int) error

	// Slice fills output with a strided selection of x: one (start, step) pair per
	// axis, the count per axis given by the output shape.
	Slice(x, output *tensors.Tensor, starts, steps []int) error

	// Sqrt fills output with the element-wise square root of x. Only defined for
	// float tensors.
	Sqrt(x, output *tensors.Tensor) error

	// Sub fills output with the element-wise difference of the two operands,
	// broadcasting as needed.
	Sub(lhs, rhs, output *tensors.Tensor) error

	// Tile fills output with x repeated whole along every axis, output dimension ii
	// being a multiple of x's dimension ii.
	Tile(x, output *tensors.Tensor, repeats []int) error

	// TopK fills the pair (values, indices) with the k extreme elements of x along
	// axis: the largest ones if largest, else the smallest. Results are ordered, most
	// extreme first; ties resolve to the lowest index. values has the DType of x,
	// indices is Int32, and the two outputs are co-indexed.
	TopK(x, values, indices *tensors.Tensor, axis, k int, largest bool) error

	// Transpose fills output with the axes of x permuted: output axis ii gets x axis
	// permutations[ii].
	Transpose(x, output *tensors.Tensor, permutations []int) error

	// UpdateSlice writes update into output at the given offset of the given axis,
	// leaving the rest of output untouched. All other dimensions of update and
	// output must match. It is the building block of concatenations: the engine
	// calls it once per input at precomputed, non-overlapping offsets.
	UpdateSlice(update, output *tensors.Tensor, axis, offset int) error

	// Where fills output element-wise with onTrue where cond is non-zero and onFalse
	// elsewhere. cond is integer-encoded; all three operands broadcast to the output
	// shape.
	Where(cond, onTrue, onFalse, output *tensors.Tensor) error
}

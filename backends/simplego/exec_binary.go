// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/types/tensors"
)

// broadcastIterator iterates over the flat indices of a tensor being broadcast to a
// larger target shape, in row-major order of the target. fromDims must have the same
// length as targetDims, padded with leading 1s if needed; per axis it is either 1 or
// equal to the target dimension.
type broadcastIterator struct {
	flatIdx     int
	perAxesIdx  []int
	targetDims  []int
	isBroadcast []bool
	strides     []int
}

func newBroadcastIterator(fromDims, targetDims []int) *broadcastIterator {
	rank := len(targetDims)
	bi := &broadcastIterator{
		perAxesIdx:  make([]int, rank),
		targetDims:  targetDims,
		isBroadcast: make([]bool, rank),
		strides:     make([]int, rank),
	}
	stride := 1
	for axis := rank - 1; axis >= 0; axis-- {
		bi.strides[axis] = stride
		stride *= fromDims[axis]
		bi.isBroadcast[axis] = fromDims[axis] == 1 && targetDims[axis] > 1
	}
	return bi
}

// Next returns the current flat index on the broadcast tensor and moves to the next
// position of the target.
//
// It assumes a row-major walk of the "from" tensor advances one flat element per
// target position, and compensates on broadcast axes, whose flat contribution is
// always zero.
func (bi *broadcastIterator) Next() int {
	flatIdx := bi.flatIdx
	bi.flatIdx++
	for axis := len(bi.targetDims) - 1; axis >= 0; axis-- {
		bi.perAxesIdx[axis]++
		if bi.perAxesIdx[axis] < bi.targetDims[axis] {
			if bi.isBroadcast[axis] {
				bi.flatIdx -= bi.strides[axis]
			}
			break
		}
		bi.perAxesIdx[axis] = 0
	}
	return flatIdx
}

// padLeadingOnes returns dims extended on the left with 1s up to rank. If dims
// already has rank axes it is returned unchanged.
func padLeadingOnes(dims []int, rank int) []int {
	if len(dims) == rank {
		return dims
	}
	padded := make([]int, rank)
	for ii := range padded[:rank-len(dims)] {
		padded[ii] = 1
	}
	copy(padded[rank-len(dims):], dims)
	return padded
}

// execBinaryGeneric computes output[i] = fn(lhs[i], rhs[i]) with broadcasting. The
// equal-shapes and scalar-operand cases take fast paths that run chunked on the
// worker pool.
func execBinaryGeneric[T SupportedTypesConstraints](b *Backend, lhs, rhs, output *tensors.Tensor, fn func(lhs, rhs T) T) {
	lhsFlat := tensors.ConstFlatData[T](lhs)
	rhsFlat := tensors.ConstFlatData[T](rhs)
	outFlat := tensors.MutableFlatData[T](output)
	switch {
	case lhs.Shape().EqualDimensions(rhs.Shape()):
		b.parallelChunks(len(outFlat), func(start, end int) {
			for ii := start; ii < end; ii++ {
				outFlat[ii] = fn(lhsFlat[ii], rhsFlat[ii])
			}
		})
	case lhs.IsScalar():
		c := lhsFlat[0]
		b.parallelChunks(len(outFlat), func(start, end int) {
			for ii := start; ii < end; ii++ {
				outFlat[ii] = fn(c, rhsFlat[ii])
			}
		})
	case rhs.IsScalar():
		c := rhsFlat[0]
		b.parallelChunks(len(outFlat), func(start, end int) {
			for ii := start; ii < end; ii++ {
				outFlat[ii] = fn(lhsFlat[ii], c)
			}
		})
	default:
		rank := output.Rank()
		lhsIter := newBroadcastIterator(padLeadingOnes(lhs.Shape().Dimensions, rank), output.Shape().Dimensions)
		rhsIter := newBroadcastIterator(padLeadingOnes(rhs.Shape().Dimensions, rank), output.Shape().Dimensions)
		for outIdx := range outFlat {
			outFlat[outIdx] = fn(lhsFlat[lhsIter.Next()], rhsFlat[rhsIter.Next()])
		}
	}
}

// execComparisonGeneric is execBinaryGeneric for predicates: output is Int32 with 1
// where fn holds and 0 elsewhere.
func execComparisonGeneric[T SupportedTypesConstraints](b *Backend, lhs, rhs, output *tensors.Tensor, fn func(lhs, rhs T) bool) {
	lhsFlat := tensors.ConstFlatData[T](lhs)
	rhsFlat := tensors.ConstFlatData[T](rhs)
	outFlat := tensors.MutableFlatData[int32](output)
	switch {
	case lhs.Shape().EqualDimensions(rhs.Shape()):
		b.parallelChunks(len(outFlat), func(start, end int) {
			for ii := start; ii < end; ii++ {
				outFlat[ii] = boolToInt32(fn(lhsFlat[ii], rhsFlat[ii]))
			}
		})
	case lhs.IsScalar():
		c := lhsFlat[0]
		b.parallelChunks(len(outFlat), func(start, end int) {
			for ii := start; ii < end; ii++ {
				outFlat[ii] = boolToInt32(fn(c, rhsFlat[ii]))
			}
		})
	case rhs.IsScalar():
		c := rhsFlat[0]
		b.parallelChunks(len(outFlat), func(start, end int) {
			for ii := start; ii < end; ii++ {
				outFlat[ii] = boolToInt32(fn(lhsFlat[ii], c))
			}
		})
	default:
		rank := output.Rank()
		lhsIter := newBroadcastIterator(padLeadingOnes(lhs.Shape().Dimensions, rank), output.Shape().Dimensions)
		rhsIter := newBroadcastIterator(padLeadingOnes(rhs.Shape().Dimensions, rank), output.Shape().Dimensions)
		for outIdx := range outFlat {
			outFlat[outIdx] = boolToInt32(fn(lhsFlat[lhsIter.Next()], rhsFlat[rhsIter.Next()]))
		}
	}
}

func boolToInt32(v bool) int32 {
	if v {
		return 1
	}
	return 0
}

// dispatchBinary selects the kernel instantiation from the output dtype.
func (b *Backend) dispatchBinary(opName string, lhs, rhs, output *tensors.Tensor,
	floatFn func(lhs, rhs float32) float32, intFn func(lhs, rhs int32) int32) error {
	switch output.DType() {
	case dtypes.Float32:
		execBinaryGeneric(b, lhs, rhs, output, floatFn)
	case dtypes.Int32:
		execBinaryGeneric(b, lhs, rhs, output, intFn)
	default:
		return errUnsupportedDType(opName, output.DType())
	}
	return nil
}

// dispatchComparison selects the kernel instantiation from the operands dtype; the
// output is always Int32.
func (b *Backend) dispatchComparison(opName string, lhs, rhs, output *tensors.Tensor,
	floatFn func(lhs, rhs float32) bool, intFn func(lhs, rhs int32) bool) error {
	switch lhs.DType() {
	case dtypes.Float32:
		execComparisonGeneric(b, lhs, rhs, output, floatFn)
	case dtypes.Int32:
		execComparisonGeneric(b, lhs, rhs, output, intFn)
	default:
		return errUnsupportedDType(opName, lhs.DType())
	}
	return nil
}

func addOp[T SupportedTypesConstraints](lhs, rhs T) T { return lhs + rhs }
func subOp[T SupportedTypesConstraints](lhs, rhs T) T { return lhs - rhs }
func mulOp[T SupportedTypesConstraints](lhs, rhs T) T { return lhs * rhs }
func divOp[T SupportedTypesConstraints](lhs, rhs T) T { return lhs / rhs }
func minOp[T SupportedTypesConstraints](lhs, rhs T) T { return min(lhs, rhs) }
func maxOp[T SupportedTypesConstraints](lhs, rhs T) T { return max(lhs, rhs) }

// Add implements backends.StandardKernels.
func (b *Backend) Add(lhs, rhs, output *tensors.Tensor) error {
	return b.dispatchBinary("Add", lhs, rhs, output, addOp[float32], addOp[int32])
}

// Sub implements backends.StandardKernels.
func (b *Backend) Sub(lhs, rhs, output *tensors.Tensor) error {
	return b.dispatchBinary("Sub", lhs, rhs, output, subOp[float32], subOp[int32])
}

// Mul implements backends.StandardKernels.
func (b *Backend) Mul(lhs, rhs, output *tensors.Tensor) error {
	return b.dispatchBinary("Mul", lhs, rhs, output, mulOp[float32], mulOp[int32])
}

// Div implements backends.StandardKernels.
//
// Integer division by zero panics, as it does in Go.
func (b *Backend) Div(lhs, rhs, output *tensors.Tensor) error {
	return b.dispatchBinary("Div", lhs, rhs, output, divOp[float32], divOp[int32])
}

// Min implements backends.StandardKernels.
func (b *Backend) Min(lhs, rhs, output *tensors.Tensor) error {
	return b.dispatchBinary("Min", lhs, rhs, output, minOp[float32], minOp[int32])
}

// Max implements backends.StandardKernels.
func (b *Backend) Max(lhs, rhs, output *tensors.Tensor) error {
	return b.dispatchBinary("Max", lhs, rhs, output, maxOp[float32], maxOp[int32])
}

func equalOp[T SupportedTypesConstraints](lhs, rhs T) bool          { return lhs == rhs }
func notEqualOp[T SupportedTypesConstraints](lhs, rhs T) bool       { return lhs != rhs }
func greaterThanOp[T SupportedTypesConstraints](lhs, rhs T) bool    { return lhs > rhs }
func greaterOrEqualOp[T SupportedTypesConstraints](lhs, rhs T) bool { return lhs >= rhs }
func lessThanOp[T SupportedTypesConstraints](lhs, rhs T) bool       { return lhs < rhs }
func lessOrEqualOp[T SupportedTypesConstraints](lhs, rhs T) bool    { return lhs <= rhs }

// Equal implements backends.StandardKernels.
func (b *Backend) Equal(lhs, rhs, output *tensors.Tensor) error {
	return b.dispatchComparison("Equal", lhs, rhs, output, equalOp[float32], equalOp[int32])
}

// NotEqual implements backends.StandardKernels.
func (b *Backend) NotEqual(lhs, rhs, output *tensors.Tensor) error {
	return b.dispatchComparison("NotEqual", lhs, rhs, output, notEqualOp[float32], notEqualOp[int32])
}

// GreaterThan implements backends.StandardKernels.
func (b *Backend) GreaterThan(lhs, rhs, output *tensors.Tensor) error {
	return b.dispatchComparison("GreaterThan", lhs, rhs, output, greaterThanOp[float32], greaterThanOp[int32])
}

// GreaterOrEqual implements backends.StandardKernels.
func (b *Backend) GreaterOrEqual(lhs, rhs, output *tensors.Tensor) error {
	return b.dispatchComparison("GreaterOrEqual", lhs, rhs, output, greaterOrEqualOp[float32], greaterOrEqualOp[int32])
}

// LessThan implements backends.StandardKernels.
func (b *Backend) LessThan(lhs, rhs, output *tensors.Tensor) error {
	return b.dispatchComparison("LessThan", lhs, rhs, output, lessThanOp[float32], lessThanOp[int32])
}

// LessOrEqual implements backends.StandardKernels.
func (b *Backend) LessOrEqual(lhs, rhs, output *tensors.Tensor) error {
	return b.dispatchComparison("LessOrEqual", lhs, rhs, output, lessOrEqualOp[float32], lessOrEqualOp[int32])
}

func logicalAndOp(lhs, rhs int32) int32 { return boolToInt32(lhs != 0 && rhs != 0) }
func logicalOrOp(lhs, rhs int32) int32  { return boolToInt32(lhs != 0 || rhs != 0) }
func logicalXorOp(lhs, rhs int32) int32 { return boolToInt32((lhs != 0) != (rhs != 0)) }

// LogicalAnd implements backends.StandardKernels. Operands and output are
// integer-encoded booleans.
func (b *Backend) LogicalAnd(lhs, rhs, output *tensors.Tensor) error {
	if output.DType() != dtypes.Int32 {
		return errUnsupportedDType("LogicalAnd", output.DType())
	}
	execBinaryGeneric(b, lhs, rhs, output, logicalAndOp)
	return nil
}

// LogicalOr implements backends.StandardKernels. Operands and output are
// integer-encoded booleans.
func (b *Backend) LogicalOr(lhs, rhs, output *tensors.Tensor) error {
	if output.DType() != dtypes.Int32 {
		return errUnsupportedDType("LogicalOr", output.DType())
	}
	execBinaryGeneric(b, lhs, rhs, output, logicalOrOp)
	return nil
}

// LogicalXor implements backends.StandardKernels. Operands and output are
// integer-encoded booleans.
func (b *Backend) LogicalXor(lhs, rhs, output *tensors.Tensor) error {
	if output.DType() != dtypes.Int32 {
		return errUnsupportedDType("LogicalXor", output.DType())
	}
	execBinaryGeneric(b, lhs, rhs, output, logicalXorOp)
	return nil
}

// Where implements backends.StandardKernels: element-wise select with broadcasting
// on all three operands.
func (b *Backend) Where(cond, onTrue, onFalse, output *tensors.Tensor) error {
	switch output.DType() {
	case dtypes.Float32:
		execWhereGeneric[float32](b, cond, onTrue, onFalse, output)
	case dtypes.Int32:
		execWhereGeneric[int32](b, cond, onTrue, onFalse, output)
	default:
		return errUnsupportedDType("Where", output.DType())
	}
	return nil
}

func execWhereGeneric[T SupportedTypesConstraints](b *Backend, cond, onTrue, onFalse, output *tensors.Tensor) {
	condFlat := tensors.ConstFlatData[int32](cond)
	onTrueFlat := tensors.ConstFlatData[T](onTrue)
	onFalseFlat := tensors.ConstFlatData[T](onFalse)
	outFlat := tensors.MutableFlatData[T](output)
	if cond.Shape().EqualDimensions(output.Shape()) &&
		onTrue.Shape().EqualDimensions(output.Shape()) &&
		onFalse.Shape().EqualDimensions(output.Shape()) {
		b.parallelChunks(len(outFlat), func(start, end int) {
			for ii := start; ii < end; ii++ {
				if condFlat[ii] != 0 {
					outFlat[ii] = onTrueFlat[ii]
				} else {
					outFlat[ii] = onFalseFlat[ii]
				}
			}
		})
		return
	}

	rank := output.Rank()
	condIter := newBroadcastIterator(padLeadingOnes(cond.Shape().Dimensions, rank), output.Shape().Dimensions)
	onTrueIter := newBroadcastIterator(padLeadingOnes(onTrue.Shape().Dimensions, rank), output.Shape().Dimensions)
	onFalseIter := newBroadcastIterator(padLeadingOnes(onFalse.Shape().Dimensions, rank), output.Shape().Dimensions)
	for outIdx := range outFlat {
		condIdx, onTrueIdx, onFalseIdx := condIter.Next(), onTrueIter.Next(), onFalseIter.Next()
		if condFlat[condIdx] != 0 {
			outFlat[outIdx] = onTrueFlat[onTrueIdx]
		} else {
			outFlat[outIdx] = onFalseFlat[onFalseIdx]
		}
	}
}

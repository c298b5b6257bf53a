// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"math"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/types/tensors"
)

// execReduceGeneric folds fn over the reduced axes of x into output, starting each
// output cell at initial. axes are resolved and sorted; whether the output keeps the
// reduced axes as 1s is derived from its rank.
//
// It walks x once in row-major order, carrying the output flat index incrementally:
// reduced axes contribute stride 0, kept axes the matching output stride.
func execReduceGeneric[T SupportedTypesConstraints](x, output *tensors.Tensor, axes []int, initial T, fn func(acc, v T) T) {
	xFlat := tensors.ConstFlatData[T](x)
	outFlat := tensors.MutableFlatData[T](output)
	for ii := range outFlat {
		outFlat[ii] = initial
	}

	xDims := x.Shape().Dimensions
	rank := len(xDims)
	reduced := make([]bool, rank)
	for _, axis := range axes {
		reduced[axis] = true
	}
	keepDims := output.Rank() == rank

	outStrides := rowMajorStrides(output.Shape().Dimensions)
	mapped := make([]int, rank)
	outAxis := 0
	for axis := 0; axis < rank; axis++ {
		if reduced[axis] {
			if keepDims {
				outAxis++
			}
			continue
		}
		mapped[axis] = outStrides[outAxis]
		outAxis++
	}

	counters := make([]int, rank)
	outIdx := 0
	for _, v := range xFlat {
		outFlat[outIdx] = fn(outFlat[outIdx], v)
		for axis := rank - 1; axis >= 0; axis-- {
			counters[axis]++
			outIdx += mapped[axis]
			if counters[axis] < xDims[axis] {
				break
			}
			counters[axis] = 0
			outIdx -= mapped[axis] * xDims[axis]
		}
	}
}

// reduceCount is the number of elements folded into each output cell.
func reduceCount(x *tensors.Tensor, axes []int) int {
	count := 1
	for _, axis := range axes {
		count *= x.Shape().Dimensions[axis]
	}
	return count
}

// ReduceSum implements backends.StandardKernels.
func (b *Backend) ReduceSum(x, output *tensors.Tensor, axes []int) error {
	switch output.DType() {
	case dtypes.Float32:
		execReduceGeneric(x, output, axes, float32(0), addOp[float32])
	case dtypes.Int32:
		execReduceGeneric(x, output, axes, int32(0), addOp[int32])
	default:
		return errUnsupportedDType("ReduceSum", output.DType())
	}
	return nil
}

// ReduceMean implements backends.StandardKernels. For Int32 the division truncates.
func (b *Backend) ReduceMean(x, output *tensors.Tensor, axes []int) error {
	count := reduceCount(x, axes)
	switch output.DType() {
	case dtypes.Float32:
		execReduceGeneric(x, output, axes, float32(0), addOp[float32])
		outFlat := tensors.MutableFlatData[float32](output)
		for ii := range outFlat {
			outFlat[ii] /= float32(count)
		}
	case dtypes.Int32:
		execReduceGeneric(x, output, axes, int32(0), addOp[int32])
		outFlat := tensors.MutableFlatData[int32](output)
		for ii := range outFlat {
			outFlat[ii] /= int32(count)
		}
	default:
		return errUnsupportedDType("ReduceMean", output.DType())
	}
	return nil
}

// ReduceMax implements backends.StandardKernels.
func (b *Backend) ReduceMax(x, output *tensors.Tensor, axes []int) error {
	switch output.DType() {
	case dtypes.Float32:
		execReduceGeneric(x, output, axes, float32(math.Inf(-1)), maxOp[float32])
	case dtypes.Int32:
		execReduceGeneric(x, output, axes, int32(math.MinInt32), maxOp[int32])
	default:
		return errUnsupportedDType("ReduceMax", output.DType())
	}
	return nil
}

// ReduceMin implements backends.StandardKernels.
func (b *Backend) ReduceMin(x, output *tensors.Tensor, axes []int) error {
	switch output.DType() {
	case dtypes.Float32:
		execReduceGeneric(x, output, axes, float32(math.Inf(1)), minOp[float32])
	case dtypes.Int32:
		execReduceGeneric(x, output, axes, int32(math.MaxInt32), minOp[int32])
	default:
		return errUnsupportedDType("ReduceMin", output.DType())
	}
	return nil
}

// ArgMinMax implements backends.StandardKernels.
func (b *Backend) ArgMinMax(x, output *tensors.Tensor, axis int, isMin, selectLast bool) error {
	switch x.DType() {
	case dtypes.Float32:
		execArgMinMaxGeneric[float32](x, output, axis, isMin, selectLast)
	case dtypes.Int32:
		execArgMinMaxGeneric[int32](x, output, axis, isMin, selectLast)
	default:
		return errUnsupportedDType("ArgMinMax", x.DType())
	}
	return nil
}

func execArgMinMaxGeneric[T SupportedTypesConstraints](x, output *tensors.Tensor, axis int, isMin, selectLast bool) {
	xFlat := tensors.ConstFlatData[T](x)
	outFlat := tensors.MutableFlatData[int32](output)
	outer, dim, inner := splitAroundAxis(x.Shape(), axis)
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*dim*inner + in
			best := xFlat[base]
			bestIdx := 0
			for j := 1; j < dim; j++ {
				v := xFlat[base+j*inner]
				better := v > best
				if isMin {
					better = v < best
				}
				if better || (selectLast && v == best) {
					best = v
					bestIdx = j
				}
			}
			outFlat[o*inner+in] = int32(bestIdx)
		}
	}
}

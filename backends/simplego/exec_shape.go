// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/types/tensors"
)

// Transpose implements backends.StandardKernels.
func (b *Backend) Transpose(x, output *tensors.Tensor, permutations []int) error {
	switch output.DType() {
	case dtypes.Float32:
		execTransposeGeneric[float32](x, output, permutations)
	case dtypes.Int32:
		execTransposeGeneric[int32](x, output, permutations)
	default:
		return errUnsupportedDType("Transpose", output.DType())
	}
	return nil
}

// execTransposeGeneric walks the output row-major, carrying the matching flat index
// on x: output axis ii advances x by the stride of axis permutations[ii].
func execTransposeGeneric[T SupportedTypesConstraints](x, output *tensors.Tensor, permutations []int) {
	xFlat := tensors.ConstFlatData[T](x)
	outFlat := tensors.MutableFlatData[T](output)
	rank := x.Rank()
	xStrides := rowMajorStrides(x.Shape().Dimensions)
	outDims := output.Shape().Dimensions
	srcStrides := make([]int, rank)
	for outAxis, xAxis := range permutations {
		srcStrides[outAxis] = xStrides[xAxis]
	}
	counters := make([]int, rank)
	srcIdx := 0
	for outIdx := range outFlat {
		outFlat[outIdx] = xFlat[srcIdx]
		for axis := rank - 1; axis >= 0; axis-- {
			counters[axis]++
			srcIdx += srcStrides[axis]
			if counters[axis] < outDims[axis] {
				break
			}
			counters[axis] = 0
			srcIdx -= srcStrides[axis] * outDims[axis]
		}
	}
}

// Tile implements backends.StandardKernels.
func (b *Backend) Tile(x, output *tensors.Tensor, repeats []int) error {
	switch output.DType() {
	case dtypes.Float32:
		execTileGeneric[float32](x, output)
	case dtypes.Int32:
		execTileGeneric[int32](x, output)
	default:
		return errUnsupportedDType("Tile", output.DType())
	}
	return nil
}

// execTileGeneric walks the output row-major; the x position is the output position
// modulo the x dimensions, carried incrementally per axis.
func execTileGeneric[T SupportedTypesConstraints](x, output *tensors.Tensor) {
	xFlat := tensors.ConstFlatData[T](x)
	outFlat := tensors.MutableFlatData[T](output)
	rank := x.Rank()
	xDims := x.Shape().Dimensions
	xStrides := rowMajorStrides(xDims)
	outDims := output.Shape().Dimensions
	outCounters := make([]int, rank)
	xCounters := make([]int, rank)
	srcIdx := 0
	for outIdx := range outFlat {
		outFlat[outIdx] = xFlat[srcIdx]
		for axis := rank - 1; axis >= 0; axis-- {
			outCounters[axis]++
			if outCounters[axis] < outDims[axis] {
				xCounters[axis]++
				srcIdx += xStrides[axis]
				if xCounters[axis] == xDims[axis] {
					xCounters[axis] = 0
					srcIdx -= xDims[axis] * xStrides[axis]
				}
				break
			}
			outCounters[axis] = 0
			srcIdx -= xCounters[axis] * xStrides[axis]
			xCounters[axis] = 0
		}
	}
}

// Slice implements backends.StandardKernels.
func (b *Backend) Slice(x, output *tensors.Tensor, starts, steps []int) error {
	switch output.DType() {
	case dtypes.Float32:
		execSliceGeneric[float32](x, output, starts, steps)
	case dtypes.Int32:
		execSliceGeneric[int32](x, output, starts, steps)
	default:
		return errUnsupportedDType("Slice", output.DType())
	}
	return nil
}

// execSliceGeneric is a strided walk: output axis ii advances x by
// steps[ii]*stride(ii), starting at the flat position of starts.
func execSliceGeneric[T SupportedTypesConstraints](x, output *tensors.Tensor, starts, steps []int) {
	xFlat := tensors.ConstFlatData[T](x)
	outFlat := tensors.MutableFlatData[T](output)
	rank := x.Rank()
	xStrides := rowMajorStrides(x.Shape().Dimensions)
	outDims := output.Shape().Dimensions
	effStrides := make([]int, rank)
	srcIdx := 0
	for axis := 0; axis < rank; axis++ {
		effStrides[axis] = steps[axis] * xStrides[axis]
		srcIdx += starts[axis] * xStrides[axis]
	}
	counters := make([]int, rank)
	for outIdx := range outFlat {
		outFlat[outIdx] = xFlat[srcIdx]
		for axis := rank - 1; axis >= 0; axis-- {
			counters[axis]++
			srcIdx += effStrides[axis]
			if counters[axis] < outDims[axis] {
				break
			}
			counters[axis] = 0
			srcIdx -= effStrides[axis] * outDims[axis]
		}
	}
}

// UpdateSlice implements backends.StandardKernels.
func (b *Backend) UpdateSlice(update, output *tensors.Tensor, axis, offset int) error {
	switch output.DType() {
	case dtypes.Float32:
		execUpdateSliceGeneric[float32](update, output, axis, offset)
	case dtypes.Int32:
		execUpdateSliceGeneric[int32](update, output, axis, offset)
	default:
		return errUnsupportedDType("UpdateSlice", output.DType())
	}
	return nil
}

// execUpdateSliceGeneric walks update row-major, carrying the flat position on
// output, which is offset elements down the given axis.
func execUpdateSliceGeneric[T SupportedTypesConstraints](update, output *tensors.Tensor, axis, offset int) {
	updFlat := tensors.ConstFlatData[T](update)
	outFlat := tensors.MutableFlatData[T](output)
	rank := update.Rank()
	updDims := update.Shape().Dimensions
	outStrides := rowMajorStrides(output.Shape().Dimensions)
	counters := make([]int, rank)
	dstIdx := offset * outStrides[axis]
	for _, v := range updFlat {
		outFlat[dstIdx] = v
		for a := rank - 1; a >= 0; a-- {
			counters[a]++
			dstIdx += outStrides[a]
			if counters[a] < updDims[a] {
				break
			}
			counters[a] = 0
			dstIdx -= outStrides[a] * updDims[a]
		}
	}
}

// Expand implements backends.StandardKernels.
func (b *Backend) Expand(x, output *tensors.Tensor) error {
	switch output.DType() {
	case dtypes.Float32:
		execExpandGeneric[float32](x, output)
	case dtypes.Int32:
		execExpandGeneric[int32](x, output)
	default:
		return errUnsupportedDType("Expand", output.DType())
	}
	return nil
}

func execExpandGeneric[T SupportedTypesConstraints](x, output *tensors.Tensor) {
	xFlat := tensors.ConstFlatData[T](x)
	outFlat := tensors.MutableFlatData[T](output)
	iter := newBroadcastIterator(padLeadingOnes(x.Shape().Dimensions, output.Rank()), output.Shape().Dimensions)
	for outIdx := range outFlat {
		outFlat[outIdx] = xFlat[iter.Next()]
	}
}

// Gather implements backends.StandardKernels.
func (b *Backend) Gather(x, indices, output *tensors.Tensor, axis int) error {
	switch output.DType() {
	case dtypes.Float32:
		execGatherGeneric[float32](x, indices, output, axis)
	case dtypes.Int32:
		execGatherGeneric[int32](x, indices, output, axis)
	default:
		return errUnsupportedDType("Gather", output.DType())
	}
	return nil
}

// execGatherGeneric views x as (outer, dim, inner) around axis and copies one inner
// block per index. Out-of-range indices clamp to [0, dim-1].
func execGatherGeneric[T SupportedTypesConstraints](x, indices, output *tensors.Tensor, axis int) {
	xFlat := tensors.ConstFlatData[T](x)
	idxFlat := tensors.ConstFlatData[int32](indices)
	outFlat := tensors.MutableFlatData[T](output)
	outer, dim, inner := splitAroundAxis(x.Shape(), axis)
	numIndices := len(idxFlat)
	for o := 0; o < outer; o++ {
		for j, idxV := range idxFlat {
			idx := min(max(int(idxV), 0), dim-1)
			srcBase := (o*dim + idx) * inner
			dstBase := (o*numIndices + j) * inner
			copy(outFlat[dstBase:dstBase+inner], xFlat[srcBase:srcBase+inner])
		}
	}
}

// GatherElements implements backends.StandardKernels.
func (b *Backend) GatherElements(x, indices, output *tensors.Tensor, axis int) error {
	switch output.DType() {
	case dtypes.Float32:
		execGatherElementsGeneric[float32](x, indices, output, axis)
	case dtypes.Int32:
		execGatherElementsGeneric[int32](x, indices, output, axis)
	default:
		return errUnsupportedDType("GatherElements", output.DType())
	}
	return nil
}

// execGatherElementsGeneric walks indices row-major, carrying the flat position on x
// over every axis but the gather one, whose contribution comes from the index value.
// Out-of-range indices clamp to [0, dim-1].
func execGatherElementsGeneric[T SupportedTypesConstraints](x, indices, output *tensors.Tensor, axis int) {
	xFlat := tensors.ConstFlatData[T](x)
	idxFlat := tensors.ConstFlatData[int32](indices)
	outFlat := tensors.MutableFlatData[T](output)
	rank := x.Rank()
	xStrides := rowMajorStrides(x.Shape().Dimensions)
	axisStride := xStrides[axis]
	dim := x.Shape().Dimensions[axis]
	srcStrides := make([]int, rank)
	copy(srcStrides, xStrides)
	srcStrides[axis] = 0
	idxDims := indices.Shape().Dimensions
	counters := make([]int, rank)
	srcIdx := 0
	for ii, idxV := range idxFlat {
		idx := min(max(int(idxV), 0), dim-1)
		outFlat[ii] = xFlat[srcIdx+idx*axisStride]
		for a := rank - 1; a >= 0; a-- {
			counters[a]++
			srcIdx += srcStrides[a]
			if counters[a] < idxDims[a] {
				break
			}
			counters[a] = 0
			srcIdx -= srcStrides[a] * idxDims[a]
		}
	}
}

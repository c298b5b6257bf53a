// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"sort"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/types/tensors"
)

// TopK implements backends.StandardKernels: values and indices get the k extreme
// elements along axis, ordered most extreme first, ties to the lowest index.
func (b *Backend) TopK(x, values, indices *tensors.Tensor, axis, k int, largest bool) error {
	switch x.DType() {
	case dtypes.Float32:
		execTopKGeneric[float32](x, values, indices, axis, k, largest)
	case dtypes.Int32:
		execTopKGeneric[int32](x, values, indices, axis, k, largest)
	default:
		return errUnsupportedDType("TopK", x.DType())
	}
	return nil
}

// execTopKGeneric sorts, per (outer, inner) lane, the positions along axis by their
// value and takes the first k. A full sort is O(dim log dim) per lane, acceptable
// for this backend.
func execTopKGeneric[T SupportedTypesConstraints](x, values, indices *tensors.Tensor, axis, k int, largest bool) {
	xFlat := tensors.ConstFlatData[T](x)
	valuesFlat := tensors.MutableFlatData[T](values)
	indicesFlat := tensors.MutableFlatData[int32](indices)
	outer, dim, inner := splitAroundAxis(x.Shape(), axis)
	order := make([]int, dim)
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*dim*inner + in
			for j := range order {
				order[j] = j
			}
			sort.Slice(order, func(a, b int) bool {
				va := xFlat[base+order[a]*inner]
				vb := xFlat[base+order[b]*inner]
				if va != vb {
					if largest {
						return va > vb
					}
					return va < vb
				}
				return order[a] < order[b]
			})
			dstBase := o*k*inner + in
			for j := 0; j < k; j++ {
				valuesFlat[dstBase+j*inner] = xFlat[base+order[j]*inner]
				indicesFlat[dstBase+j*inner] = int32(order[j])
			}
		}
	}
}

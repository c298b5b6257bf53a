// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/gomlx/gopjrt/dtypes"
)

// flatPools recycles flat storage slices, keyed by dtype and length.
// The underlying type is map[flatPoolKey]*sync.Pool.
var flatPools sync.Map

type flatPoolKey struct {
	dtype  dtypes.DType
	length int
}

func flatPool(dtype dtypes.DType, length int) *sync.Pool {
	key := flatPoolKey{dtype: dtype, length: length}
	poolInterface, ok := flatPools.Load(key)
	if !ok {
		poolInterface, _ = flatPools.LoadOrStore(key, &sync.Pool{
			New: func() any {
				return reflect.MakeSlice(reflect.SliceOf(dtype.GoType()), length, length).Interface()
			},
		})
	}
	return poolInterface.(*sync.Pool)
}

// getFlat takes a flat slice of the given dtype and length from the recycling pool.
// Contents are unspecified.
func getFlat(dtype dtypes.DType, length int) any {
	return flatPool(dtype, length).Get()
}

// putFlat returns a flat slice to the recycling pool.
// After this any references to the slice should be dropped.
func putFlat(dtype dtypes.DType, length int, flat any) {
	flatPool(dtype, length).Put(flat)
}

// MutableBytes returns the tensor storage as raw bytes, for operations that move
// memory without interpreting it. Zero-sized tensors return nil.
//
// The slice aliases the tensor storage and becomes invalid when the tensor is
// finalized.
func (t *Tensor) MutableBytes() []byte {
	t.AssertValid()
	flatV := reflect.ValueOf(t.flat)
	if flatV.Len() == 0 {
		return nil
	}
	bytePointer := (*byte)(flatV.Index(0).Addr().UnsafePointer())
	return unsafe.Slice(bytePointer, flatV.Len()*int(t.shape.DType.Memory()))
}

// ConstBytes returns the tensor storage as raw bytes for reading.
func (t *Tensor) ConstBytes() []byte {
	return t.MutableBytes()
}

// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/types/shapes"
	"github.com/stretchr/testify/require"
)

func TestFromShape(t *testing.T) {
	tensor := FromShape(shapes.Make(dtypes.Float32, 2, 3))
	require.True(t, tensor.Ok())
	require.Equal(t, 6, tensor.Size())
	flat := ConstFlatData[float32](tensor)
	require.Len(t, flat, 6)
	for _, v := range flat {
		require.Zero(t, v)
	}
}

func TestFromFlatDataAndDimensions(t *testing.T) {
	data := []int32{1, 2, 3, 4, 5, 6}
	tensor := FromFlatDataAndDimensions(data, 3, 2)
	require.Equal(t, shapes.Make(dtypes.Int32, 3, 2), tensor.Shape())
	require.Equal(t, data, ConstFlatData[int32](tensor))

	// The tensor holds a copy, not an alias.
	data[0] = 100
	require.Equal(t, int32(1), ConstFlatData[int32](tensor)[0])

	require.Panics(t, func() { FromFlatDataAndDimensions(data, 4, 2) })
}

func TestFromScalar(t *testing.T) {
	tensor := FromScalar(float32(3.5))
	require.True(t, tensor.IsScalar())
	require.Equal(t, float32(3.5), ConstFlatData[float32](tensor)[0])
}

func TestIdentity(t *testing.T) {
	// Same shape and contents, still two distinct tensors.
	a := FromFlatDataAndDimensions([]float32{1, 2}, 2)
	b := FromFlatDataAndDimensions([]float32{1, 2}, 2)
	require.NotSame(t, a, b)
}

func TestFinalize(t *testing.T) {
	tensor := FromShape(shapes.Make(dtypes.Float32, 4))
	require.False(t, tensor.IsFinalized())
	tensor.Finalize()
	require.True(t, tensor.IsFinalized())
	require.Error(t, tensor.CheckValid())
	require.Panics(t, func() { ConstFlatData[float32](tensor) })

	// Finalize is idempotent, and safe on nil.
	tensor.Finalize()
	var nilTensor *Tensor
	nilTensor.Finalize()
	require.True(t, nilTensor.IsFinalized())
}

func TestStorageRecycling(t *testing.T) {
	shape := shapes.Make(dtypes.Float32, 1024)
	tensor := FromShape(shape)
	ConstFlatData[float32](tensor) // Storage is live.
	tensor.Finalize()

	// Uninitialized contents are unspecified, but the storage must be usable and of
	// the right length, even right after a same-sized tensor was recycled.
	recycled := Uninitialized(shape)
	require.Len(t, MutableFlatData[float32](recycled), 1024)

	// FromShape must zero recycled storage.
	zeroed := FromShape(shape)
	for _, v := range ConstFlatData[float32](zeroed) {
		require.Zero(t, v)
	}
}

func TestZeroSized(t *testing.T) {
	tensor := FromShape(shapes.Make(dtypes.Int32, 2, 0, 3))
	require.True(t, tensor.Ok())
	require.Equal(t, 0, tensor.Size())
	require.Empty(t, ConstFlatData[int32](tensor))
	require.Nil(t, tensor.ConstBytes())
	tensor.Finalize()
}

func TestBytes(t *testing.T) {
	tensor := FromFlatDataAndDimensions([]float32{1, 2, 3}, 3)
	raw := tensor.MutableBytes()
	require.Len(t, raw, 12)

	// Bytes alias the flat data.
	clear(raw[0:4])
	require.Equal(t, float32(0), ConstFlatData[float32](tensor)[0])

	require.Panics(t, func() { MutableFlatData[int32](tensor) })
}

// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package tensors implements the Tensor container: a multidimensional array of a
// fixed dtype, stored as a flat Go slice.
//
// Tensors are identified by their pointer, not their contents: two tensors with the
// same shape and values are still distinct objects with independent lifetimes. The
// execution engine (package exec) relies on that identity to track ownership.
//
// Storage comes from a recycling pool shared by the whole process, so finalized
// tensors return their flat slices for reuse. A Tensor is no longer usable after
// Finalize -- accessing its data panics.
package tensors

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/types/shapes"
	"github.com/pkg/errors"
)

// Tensor holds a multidimensional array of one dtype.
//
// Create them with FromShape, Uninitialized, FromScalar or FromFlatDataAndDimensions,
// and release the storage with Finalize. Access the data with ConstFlatData and
// MutableFlatData.
//
// Tensors are not safe for concurrent mutation.
type Tensor struct {
	shape shapes.Shape

	// flat is a slice of the Go type corresponding to shape.DType, e.g. []float32.
	// It is nil once the tensor is finalized.
	flat any
}

// FromShape returns a Tensor of the given shape with all elements set to zero.
func FromShape(shape shapes.Shape) *Tensor {
	t := Uninitialized(shape)
	clear(t.MutableBytes())
	return t
}

// Uninitialized returns a Tensor of the given shape whose storage is taken from the
// recycling pool: its contents are unspecified and must be fully written before any
// read. It is the cheapest way to allocate an output about to be overwritten.
func Uninitialized(shape shapes.Shape) *Tensor {
	if !shape.Ok() {
		exceptions.Panicf("tensors.Uninitialized(%s): invalid shape", shape)
	}
	return &Tensor{
		shape: shape.Clone(),
		flat:  getFlat(shape.DType, shape.Size()),
	}
}

// FromScalar returns a scalar (rank 0) Tensor with the given value.
func FromScalar[T dtypes.Supported](value T) *Tensor {
	t := Uninitialized(shapes.Scalar[T]())
	MutableFlatData[T](t)[0] = value
	return t
}

// FromFlatDataAndDimensions returns a Tensor with the given dimensions, initialized
// with a copy of the flat data. The length of data must match the product of the
// dimensions.
func FromFlatDataAndDimensions[T dtypes.Supported](data []T, dimensions ...int) *Tensor {
	shape := shapes.Make(dtypes.FromGenericsType[T](), dimensions...)
	if len(data) != shape.Size() {
		exceptions.Panicf("tensors.FromFlatDataAndDimensions(%s): data has %d elements, shape requires %d",
			shape, len(data), shape.Size())
	}
	t := Uninitialized(shape)
	copy(MutableFlatData[T](t), data)
	return t
}

// Shape of the tensor, includes the DType.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType returns the DType of the tensor's shape.
func (t *Tensor) DType() dtypes.DType {
	if t == nil {
		return dtypes.InvalidDType
	}
	return t.shape.DType
}

// Rank returns the rank of the tensor's shape.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// IsScalar returns whether the tensor represents a scalar value.
func (t *Tensor) IsScalar() bool { return t.shape.IsScalar() }

// Size returns the number of elements in the tensor.
func (t *Tensor) Size() int { return t.shape.Size() }

// Memory returns the number of bytes used to store the tensor.
func (t *Tensor) Memory() uintptr { return t.shape.Memory() }

// Ok returns whether the Tensor is in a valid state: not nil and not finalized.
func (t *Tensor) Ok() bool {
	return t != nil && t.shape.Ok() && t.flat != nil
}

// IsFinalized returns whether the tensor storage has already been released.
func (t *Tensor) IsFinalized() bool {
	return t == nil || t.flat == nil
}

// CheckValid returns an error if the tensor is nil or has been finalized.
func (t *Tensor) CheckValid() error {
	if t == nil {
		return errors.New("Tensor is nil")
	}
	if !t.shape.Ok() {
		return errors.New("Tensor shape is invalid")
	}
	if t.flat == nil {
		return errors.Errorf("Tensor shaped %s has already been finalized", t.shape)
	}
	return nil
}

// AssertValid panics if the tensor is nil or has been finalized.
func (t *Tensor) AssertValid() {
	if err := t.CheckValid(); err != nil {
		panic(err)
	}
}

// String prints the shape and whether the storage is still live, not the contents.
func (t *Tensor) String() string {
	if t == nil {
		return "Tensor(nil)"
	}
	if t.flat == nil {
		return fmt.Sprintf("Tensor(%s, finalized)", t.shape)
	}
	return fmt.Sprintf("Tensor(%s)", t.shape)
}

// Finalize returns the tensor storage to the recycling pool and leaves the tensor in
// an invalid state. It is idempotent and safe to call on nil.
//
// It's the caller's responsibility to ensure the storage is not aliased elsewhere.
func (t *Tensor) Finalize() {
	if t == nil || t.flat == nil {
		return
	}
	putFlat(t.shape.DType, t.shape.Size(), t.flat)
	t.flat = nil
}

// ConstFlatData returns the flat data slice of the tensor for reading.
// It panics if T doesn't match the tensor dtype or if the tensor was finalized.
//
// The slice aliases the tensor storage: it becomes invalid when the tensor is
// finalized, and it must not be written to.
func ConstFlatData[T dtypes.Supported](t *Tensor) []T {
	return flatData[T](t)
}

// MutableFlatData returns the flat data slice of the tensor for reading and writing.
// It panics if T doesn't match the tensor dtype or if the tensor was finalized.
func MutableFlatData[T dtypes.Supported](t *Tensor) []T {
	return flatData[T](t)
}

func flatData[T dtypes.Supported](t *Tensor) []T {
	t.AssertValid()
	flat, ok := t.flat.([]T)
	if !ok {
		exceptions.Panicf("tensor shaped %s does not hold a flat slice of %s",
			t.shape, dtypes.FromGenericsType[T]())
	}
	return flat
}

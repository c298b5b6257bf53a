// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package exec

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/shapeinference"
	"github.com/gomlx/tensorexec/types/shapes"
	"github.com/gomlx/tensorexec/types/tensors"
	"github.com/pkg/errors"
)

// makeShape validates the dtype and dimensions and builds the shape. It is the
// error-returning counterpart of shapes.Make, used by the allocation operations.
func makeShape(dtype dtypes.DType, dimensions ...int) (shapes.Shape, error) {
	if err := shapes.CheckDType(dtype); err != nil {
		return shapes.Invalid(), err
	}
	for _, dim := range dimensions {
		if dim < 0 {
			return shapes.Invalid(), errors.Wrapf(shapeinference.ErrShape,
				"dimensions must be non-negative, got %v", dimensions)
		}
	}
	return shapes.Make(dtype, dimensions...), nil
}

// Uninitialized allocates a pooled tensor of the given dtype and dimensions without
// initializing its storage. The contents are unspecified and must be fully written
// before any read.
func (c *Context) Uninitialized(dtype dtypes.DType, dimensions ...int) (*tensors.Tensor, error) {
	if err := c.checkValid(); err != nil {
		return nil, err
	}
	shape, err := makeShape(dtype, dimensions...)
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.Uninitialized()")
	}
	return c.newOutput(shape), nil
}

// Zeros allocates a pooled tensor of the given dtype and dimensions with every
// element set to zero.
func (c *Context) Zeros(dtype dtypes.DType, dimensions ...int) (*tensors.Tensor, error) {
	if err := c.checkValid(); err != nil {
		return nil, err
	}
	shape, err := makeShape(dtype, dimensions...)
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.Zeros()")
	}
	return c.newZerosOutput(shape), nil
}

// FromFlatData allocates a pooled tensor with the given dimensions, initialized with
// a copy of the flat data in row-major order. The dtype is derived from T, and the
// length of data must match the product of the dimensions.
//
// It is a free function because Go methods cannot take type parameters.
func FromFlatData[T dtypes.Supported](c *Context, data []T, dimensions ...int) (*tensors.Tensor, error) {
	if err := c.checkValid(); err != nil {
		return nil, err
	}
	shape, err := makeShape(dtypes.FromGenericsType[T](), dimensions...)
	if err != nil {
		return nil, errors.WithMessagef(err, "in exec.FromFlatData()")
	}
	if len(data) != shape.Size() {
		return nil, errors.Wrapf(shapeinference.ErrShape,
			"in exec.FromFlatData(): data has %d elements, shape %s requires %d", len(data), shape, shape.Size())
	}
	t := c.newOutput(shape)
	copy(tensors.MutableFlatData[T](t), data)
	return t, nil
}

// FromScalar allocates a pooled scalar tensor holding the given value. The dtype is
// derived from T.
func FromScalar[T dtypes.Supported](c *Context, value T) (*tensors.Tensor, error) {
	return FromFlatData(c, []T{value})
}

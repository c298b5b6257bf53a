// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package notimplemented implements a backends.Backend whose every kernel returns a
// "not implemented" error.
//
// It can help bootstrap a new backend implementation: embed Backend, override the
// kernels you support, and the rest fail cleanly. Tests also use it to observe
// whether the engine reached the backend at all, since a kernel that is never called
// produces no error.
package notimplemented

import (
	"github.com/gomlx/tensorexec/backends"
	"github.com/gomlx/tensorexec/types/tensors"
	"github.com/pkg/errors"
)

// NotImplementedError is returned by every kernel.
//
// It doesn't contain a stack, attach one with errors.Wrapf(NotImplementedError, "...") when using it.
var NotImplementedError = backends.ErrNotImplemented

// Backend is a dummy backend that can be embedded to create partial or mock backends.
type Backend struct{}

var _ backends.Backend = Backend{}

// Name returns the short name of the backend.
func (b Backend) Name() string {
	return "notimplemented"
}

// Description is a longer description of the Backend.
func (b Backend) Description() string {
	return "Not Implemented Backend (mock backend for testing)"
}

// Finalize is a no-op: there are no resources to release.
func (b Backend) Finalize() {}

// Abs returns NotImplementedError.
func (b Backend) Abs(x, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in Abs()")
}

// Add returns NotImplementedError.
func (b Backend) Add(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in Add()")
}

// Affine returns NotImplementedError.
func (b Backend) Affine(x, output *tensors.Tensor, scale, bias float64) error {
	return errors.Wrapf(NotImplementedError, "in Affine()")
}

// ArgMinMax returns NotImplementedError.
func (b Backend) ArgMinMax(x, output *tensors.Tensor, axis int, isMin, selectLast bool) error {
	return errors.Wrapf(NotImplementedError, "in ArgMinMax()")
}

// ConvertDType returns NotImplementedError.
func (b Backend) ConvertDType(x, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in ConvertDType()")
}

// Copy returns NotImplementedError.
func (b Backend) Copy(x, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in Copy()")
}

// Div returns NotImplementedError.
func (b Backend) Div(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in Div()")
}

// Equal returns NotImplementedError.
func (b Backend) Equal(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in Equal()")
}

// Expand returns NotImplementedError.
func (b Backend) Expand(x, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in Expand()")
}

// Gather returns NotImplementedError.
func (b Backend) Gather(x, indices, output *tensors.Tensor, axis int) error {
	return errors.Wrapf(NotImplementedError, "in Gather()")
}

// GatherElements returns NotImplementedError.
func (b Backend) GatherElements(x, indices, output *tensors.Tensor, axis int) error {
	return errors.Wrapf(NotImplementedError, "in GatherElements()")
}

// GreaterOrEqual returns NotImplementedError.
func (b Backend) GreaterOrEqual(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in GreaterOrEqual()")
}

// GreaterThan returns NotImplementedError.
func (b Backend) GreaterThan(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in GreaterThan()")
}

// LessOrEqual returns NotImplementedError.
func (b Backend) LessOrEqual(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in LessOrEqual()")
}

// LessThan returns NotImplementedError.
func (b Backend) LessThan(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in LessThan()")
}

// LogicalAnd returns NotImplementedError.
func (b Backend) LogicalAnd(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in LogicalAnd()")
}

// LogicalNot returns NotImplementedError.
func (b Backend) LogicalNot(x, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in LogicalNot()")
}

// LogicalOr returns NotImplementedError.
func (b Backend) LogicalOr(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in LogicalOr()")
}

// LogicalXor returns NotImplementedError.
func (b Backend) LogicalXor(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in LogicalXor()")
}

// Max returns NotImplementedError.
func (b Backend) Max(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in Max()")
}

// Min returns NotImplementedError.
func (b Backend) Min(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in Min()")
}

// Mul returns NotImplementedError.
func (b Backend) Mul(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in Mul()")
}

// NotEqual returns NotImplementedError.
func (b Backend) NotEqual(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in NotEqual()")
}

// RandomNormal returns NotImplementedError.
func (b Backend) RandomNormal(output *tensors.Tensor, mean, scale float64, seed int64) error {
	return errors.Wrapf(NotImplementedError, "in RandomNormal()")
}

// RandomUniform returns NotImplementedError.
func (b Backend) RandomUniform(output *tensors.Tensor, low, high float64, seed int64) error {
	return errors.Wrapf(NotImplementedError, "in RandomUniform()")
}

// ReduceMax returns NotImplementedError.
func (b Backend) ReduceMax(x, output *tensors.Tensor, axes []int) error {
	return errors.Wrapf(NotImplementedError, "in ReduceMax()")
}

// ReduceMean returns NotImplementedError.
func (b Backend) ReduceMean(x, output *tensors.Tensor, axes []int) error {
	return errors.Wrapf(NotImplementedError, "in ReduceMean()")
}

// ReduceMin returns NotImplementedError.
func (b Backend) ReduceMin(x, output *tensors.Tensor, axes []int) error {
	return errors.Wrapf(NotImplementedError, "in ReduceMin()")
}

// ReduceSum returns NotImplementedError.
func (b Backend) ReduceSum(x, output *tensors.Tensor, axes []int) error {
	return errors.Wrapf(NotImplementedError, "in ReduceSum()")
}

// Slice returns NotImplementedError.
func (b Backend) Slice(x, output *tensors.Tensor, starts, steps []int) error {
	return errors.Wrapf(NotImplementedError, "in Slice()")
}

// Sqrt returns NotImplementedError.
func (b Backend) Sqrt(x, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in Sqrt()")
}

// Sub returns NotImplementedError.
func (b Backend) Sub(lhs, rhs, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in Sub()")
}

// Tile returns NotImplementedError.
func (b Backend) Tile(x, output *tensors.Tensor, repeats []int) error {
	return errors.Wrapf(NotImplementedError, "in Tile()")
}

// TopK returns NotImplementedError.
func (b Backend) TopK(x, values, indices *tensors.Tensor, axis, k int, largest bool) error {
	return errors.Wrapf(NotImplementedError, "in TopK()")
}

// Transpose returns NotImplementedError.
func (b Backend) Transpose(x, output *tensors.Tensor, permutations []int) error {
	return errors.Wrapf(NotImplementedError, "in Transpose()")
}

// UpdateSlice returns NotImplementedError.
func (b Backend) UpdateSlice(update, output *tensors.Tensor, axis, offset int) error {
	return errors.Wrapf(NotImplementedError, "in UpdateSlice()")
}

// Where returns NotImplementedError.
func (b Backend) Where(cond, onTrue, onFalse, output *tensors.Tensor) error {
	return errors.Wrapf(NotImplementedError, "in Where()")
}

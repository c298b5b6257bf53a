// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"math"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/types/tensors"
)

// execUnaryGeneric computes output[i] = fn(x[i]), chunked on the worker pool.
func execUnaryGeneric[T SupportedTypesConstraints](b *Backend, x, output *tensors.Tensor, fn func(T) T) {
	xFlat := tensors.ConstFlatData[T](x)
	outFlat := tensors.MutableFlatData[T](output)
	b.parallelChunks(len(outFlat), func(start, end int) {
		for ii := start; ii < end; ii++ {
			outFlat[ii] = fn(xFlat[ii])
		}
	})
}

// dispatchUnary selects the kernel instantiation from the output dtype. A nil fn
// marks the dtype as unsupported for the operation.
func (b *Backend) dispatchUnary(opName string, x, output *tensors.Tensor,
	floatFn func(float32) float32, intFn func(int32) int32) error {
	switch output.DType() {
	case dtypes.Float32:
		if floatFn == nil {
			return errUnsupportedDType(opName, output.DType())
		}
		execUnaryGeneric(b, x, output, floatFn)
	case dtypes.Int32:
		if intFn == nil {
			return errUnsupportedDType(opName, output.DType())
		}
		execUnaryGeneric(b, x, output, intFn)
	default:
		return errUnsupportedDType(opName, output.DType())
	}
	return nil
}

// Affine implements backends.StandardKernels: output = x*scale + bias, computed in
// float64 and converted back to the output dtype. It is the shared kernel behind
// every scalar arithmetic operation of the engine.
func (b *Backend) Affine(x, output *tensors.Tensor, scale, bias float64) error {
	switch output.DType() {
	case dtypes.Float32:
		execAffineGeneric[float32](b, x, output, scale, bias)
	case dtypes.Int32:
		execAffineGeneric[int32](b, x, output, scale, bias)
	default:
		return errUnsupportedDType("Affine", output.DType())
	}
	return nil
}

func execAffineGeneric[T SupportedTypesConstraints](b *Backend, x, output *tensors.Tensor, scale, bias float64) {
	xFlat := tensors.ConstFlatData[T](x)
	outFlat := tensors.MutableFlatData[T](output)
	b.parallelChunks(len(outFlat), func(start, end int) {
		for ii := start; ii < end; ii++ {
			outFlat[ii] = T(float64(xFlat[ii])*scale + bias)
		}
	})
}

func absOp[T SupportedTypesConstraints](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func sqrtOp(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

func logicalNotOp(v int32) int32 {
	return boolToInt32(v == 0)
}

// Abs implements backends.StandardKernels.
func (b *Backend) Abs(x, output *tensors.Tensor) error {
	return b.dispatchUnary("Abs", x, output, absOp[float32], absOp[int32])
}

// Sqrt implements backends.StandardKernels. Only float dtypes are supported.
func (b *Backend) Sqrt(x, output *tensors.Tensor) error {
	return b.dispatchUnary("Sqrt", x, output, sqrtOp, nil)
}

// LogicalNot implements backends.StandardKernels. Operand and output are
// integer-encoded booleans.
func (b *Backend) LogicalNot(x, output *tensors.Tensor) error {
	return b.dispatchUnary("LogicalNot", x, output, nil, logicalNotOp)
}

// ConvertDType implements backends.StandardKernels: element-wise value conversion
// from the dtype of x to the dtype of output. Float to integer truncates toward
// zero.
func (b *Backend) ConvertDType(x, output *tensors.Tensor) error {
	xDType, outDType := x.DType(), output.DType()
	switch {
	case xDType == dtypes.Float32 && outDType == dtypes.Float32:
		execConvertGeneric[float32, float32](b, x, output)
	case xDType == dtypes.Float32 && outDType == dtypes.Int32:
		execConvertGeneric[float32, int32](b, x, output)
	case xDType == dtypes.Int32 && outDType == dtypes.Float32:
		execConvertGeneric[int32, float32](b, x, output)
	case xDType == dtypes.Int32 && outDType == dtypes.Int32:
		execConvertGeneric[int32, int32](b, x, output)
	default:
		return errUnsupportedDType("ConvertDType", outDType)
	}
	return nil
}

func execConvertGeneric[From, To SupportedTypesConstraints](b *Backend, x, output *tensors.Tensor) {
	xFlat := tensors.ConstFlatData[From](x)
	outFlat := tensors.MutableFlatData[To](output)
	b.parallelChunks(len(outFlat), func(start, end int) {
		for ii := start; ii < end; ii++ {
			outFlat[ii] = To(xFlat[ii])
		}
	})
}

// Copy implements backends.StandardKernels: a raw duplication of the storage bytes,
// up to the shorter of the two tensors, with no dtype interpretation.
func (b *Backend) Copy(x, output *tensors.Tensor) error {
	copy(output.MutableBytes(), x.ConstBytes())
	return nil
}

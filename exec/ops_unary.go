// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package exec

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/types/shapes"
	"github.com/gomlx/tensorexec/types/tensors"
	"github.com/pkg/errors"
)

// unaryOp runs the shared flow of the element-wise one-operand operations whose
// output has the shape of the input.
func (c *Context) unaryOp(opName string, x *tensors.Tensor,
	kernel func(x, output *tensors.Tensor) error) (*tensors.Tensor, error) {
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape := x.Shape()
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	if err := kernel(x, output); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}

// affineOp runs the Affine kernel with the given scale and bias. Every scalar
// arithmetic operation lowers to it.
func (c *Context) affineOp(opName string, x *tensors.Tensor, scale, bias float64) (*tensors.Tensor, error) {
	return c.unaryOp(opName, x, func(x, output *tensors.Tensor) error {
		return c.backend.Affine(x, output, scale, bias)
	})
}

// Affine returns x*scale+bias element-wise. The multiply-add happens in float64 and
// the result is converted back to the dtype of x, truncating for integers.
func (c *Context) Affine(x *tensors.Tensor, scale, bias float64) (*tensors.Tensor, error) {
	return c.affineOp("Affine", x, scale, bias)
}

// AddScalar returns x+scalar element-wise.
func (c *Context) AddScalar(x *tensors.Tensor, scalar float64) (*tensors.Tensor, error) {
	return c.affineOp("AddScalar", x, 1, scalar)
}

// SubScalar returns x-scalar element-wise.
func (c *Context) SubScalar(x *tensors.Tensor, scalar float64) (*tensors.Tensor, error) {
	return c.affineOp("SubScalar", x, 1, -scalar)
}

// MulScalar returns x*scalar element-wise.
func (c *Context) MulScalar(x *tensors.Tensor, scalar float64) (*tensors.Tensor, error) {
	return c.affineOp("MulScalar", x, scalar, 0)
}

// DivScalar returns x/scalar element-wise, computed as a multiplication by
// 1/scalar. For float tensors a zero scalar follows IEEE (values map to Inf or
// NaN); for integer tensors it panics, as division by zero does in Go.
func (c *Context) DivScalar(x *tensors.Tensor, scalar float64) (*tensors.Tensor, error) {
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.DivScalar()")
	}
	if scalar == 0 && x.DType().IsInt() {
		exceptions.Panicf("exec.Context.DivScalar: integer division by zero")
	}
	return c.affineOp("DivScalar", x, 1/scalar, 0)
}

// Neg returns -x element-wise.
func (c *Context) Neg(x *tensors.Tensor) (*tensors.Tensor, error) {
	return c.affineOp("Neg", x, -1, 0)
}

// OneMinus returns 1-x element-wise.
func (c *Context) OneMinus(x *tensors.Tensor) (*tensors.Tensor, error) {
	return c.affineOp("OneMinus", x, -1, 1)
}

// OnePlus returns 1+x element-wise.
func (c *Context) OnePlus(x *tensors.Tensor) (*tensors.Tensor, error) {
	return c.affineOp("OnePlus", x, 1, 1)
}

// Abs returns the element-wise absolute value of x.
func (c *Context) Abs(x *tensors.Tensor) (*tensors.Tensor, error) {
	return c.unaryOp("Abs", x, c.backend.Abs)
}

// Sqrt returns the element-wise square root of x. It is only defined for float
// tensors.
func (c *Context) Sqrt(x *tensors.Tensor) (*tensors.Tensor, error) {
	const opName = "Sqrt"
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	if !x.DType().IsFloat() {
		err := errors.Wrapf(shapes.ErrUnsupportedDType, "Sqrt requires a float operand, got %s", x.Shape())
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return c.unaryOp(opName, x, c.backend.Sqrt)
}

// LogicalNot returns the element-wise negation of an integer-encoded boolean
// tensor: 1 where x is zero, else 0.
func (c *Context) LogicalNot(x *tensors.Tensor) (*tensors.Tensor, error) {
	const opName = "LogicalNot"
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	if err := checkBooleans(opName, x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return c.unaryOp(opName, x, c.backend.LogicalNot)
}

// ConvertDType returns x converted element-wise to the given dtype. Float to
// integer conversions truncate toward zero.
func (c *Context) ConvertDType(x *tensors.Tensor, dtype dtypes.DType) (*tensors.Tensor, error) {
	const opName = "ConvertDType"
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	if err := shapes.CheckDType(dtype); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape := shapes.Make(dtype, x.Shape().Dimensions...)
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	if err := c.backend.ConvertDType(x, output); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}

// Copy returns a new tensor with a byte-for-byte copy of the contents of x.
//
// The output shape is always Float32 with the dimensions of x, whatever the dtype
// of x: Int32 contents come back bit-cast, not converted. Use ConvertDType for a
// value-preserving conversion.
func (c *Context) Copy(x *tensors.Tensor) (*tensors.Tensor, error) {
	const opName = "Copy"
	if err := c.checkOperands(x); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape := shapes.Make(dtypes.Float32, x.Shape().Dimensions...)
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	if err := c.backend.Copy(x, output); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}
